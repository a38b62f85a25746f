package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"lfreleng/internal/config"
	"lfreleng/internal/domain"
	"lfreleng/internal/logging"
	"lfreleng/internal/openstack"
	"lfreleng/internal/services/cleanup"
	"lfreleng/internal/services/jenkins"
)

// openstack command flags
var (
	osCloud      string
	osCloudsFile string

	serverDays    int
	serverClouds  string
	serverMinutes int

	volumeDays    int
	volumeClouds  string
	volumeMinutes int

	imageDays   int
	imageClouds string

	clusterJenkinsURLs string
	clusterClouds      string
)

const daysFlagHelp = "minimum age in days; 0 disables the age filter"

var openstackCmd = &cobra.Command{
	Use:   "openstack",
	Short: "Commands for interacting with an OpenStack cloud",
	Long: `Janitorial commands against an OpenStack tenant: list and clean up
servers, volumes, images and COE clusters. Credentials come from the
standard clouds.yaml.`,
}

var osServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Server (compute instance) commands",
}

var osVolumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Volume (block storage) commands",
}

var osImageCmd = &cobra.Command{
	Use:   "image",
	Short: "Image commands",
}

var osClusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "COE cluster commands",
}

var osServerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List servers",
	RunE:  runServerList,
}

var osServerCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete servers older than the age threshold",
	RunE:  runServerCleanup,
}

var osServerRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove one server by name",
	Long: `Remove one server by name. With --minutes, a server younger than the
threshold is left alone; it is probably still being provisioned.`,
	Args: cobra.ExactArgs(1),
	RunE: runServerRemove,
}

var osVolumeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List volumes",
	RunE:  runVolumeList,
}

var osVolumeCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete volumes older than the age threshold",
	RunE:  runVolumeCleanup,
}

var osVolumeRemoveCmd = &cobra.Command{
	Use:   "remove VOLUME_ID",
	Short: "Remove one volume by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runVolumeRemove,
}

var osImageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List images",
	RunE:  runImageList,
}

var osImageCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old private images owned by this tenant",
	RunE:  runImageCleanup,
}

var osClusterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List COE clusters",
	RunE:  runClusterList,
}

var osClusterCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete orphaned COE clusters",
	Long: `Delete COE clusters not referenced by any active Jenkins build.
Clusters named *-managed-prod-k8s-* or *-managed-test-k8s-* are
long-lived managed infrastructure and never touched. Without any
Jenkins endpoint the whole cleanup is skipped: an empty active set
would make every cluster look orphaned.`,
	RunE: runClusterCleanup,
}

func init() {
	rootCmd.AddCommand(openstackCmd)

	openstackCmd.PersistentFlags().StringVar(&osCloud, "os-cloud", "", "cloud name as defined in clouds.yaml (required)")
	openstackCmd.PersistentFlags().StringVar(&osCloudsFile, "clouds-file", "", "path to clouds.yaml (default: standard locations)")
	_ = openstackCmd.MarkPersistentFlagRequired("os-cloud")

	openstackCmd.AddCommand(osServerCmd, osVolumeCmd, osImageCmd, osClusterCmd)

	osServerCmd.AddCommand(osServerListCmd, osServerCleanupCmd, osServerRemoveCmd)
	osServerListCmd.Flags().IntVar(&serverDays, "days", 0, daysFlagHelp)
	osServerCleanupCmd.Flags().IntVar(&serverDays, "days", 0, daysFlagHelp)
	osServerCleanupCmd.Flags().StringVar(&serverClouds, "clouds", "", "comma-separated additional clouds to clean up")
	osServerRemoveCmd.Flags().IntVar(&serverMinutes, "minutes", 0, "skip removal if the server is younger than this many minutes")

	osVolumeCmd.AddCommand(osVolumeListCmd, osVolumeCleanupCmd, osVolumeRemoveCmd)
	osVolumeListCmd.Flags().IntVar(&volumeDays, "days", 0, daysFlagHelp)
	osVolumeCleanupCmd.Flags().IntVar(&volumeDays, "days", 0, daysFlagHelp)
	osVolumeCleanupCmd.Flags().StringVar(&volumeClouds, "clouds", "", "comma-separated additional clouds to clean up")
	osVolumeRemoveCmd.Flags().IntVar(&volumeMinutes, "minutes", 0, "skip removal if the volume is younger than this many minutes")

	osImageCmd.AddCommand(osImageListCmd, osImageCleanupCmd)
	osImageListCmd.Flags().IntVar(&imageDays, "days", 0, daysFlagHelp)
	osImageCleanupCmd.Flags().IntVar(&imageDays, "days", 0, daysFlagHelp)
	osImageCleanupCmd.Flags().StringVar(&imageClouds, "clouds", "", "comma-separated additional clouds to clean up")

	osClusterCmd.AddCommand(osClusterListCmd, osClusterCleanupCmd)
	osClusterCleanupCmd.Flags().StringVar(&clusterJenkinsURLs, "jenkins-urls", "", "space-separated Jenkins endpoints to check for active builds")
	osClusterCleanupCmd.Flags().StringVar(&clusterClouds, "clouds", "", "comma-separated additional clouds to clean up")
}

// cloudProvider builds an authenticated-on-demand provider client for
// one named cloud.
func cloudProvider(name string) (domain.CloudProvider, error) {
	path, err := config.CloudsPath(osCloudsFile)
	if err != nil {
		return nil, err
	}
	cloud, err := config.LoadCloud(path, name)
	if err != nil {
		return nil, err
	}
	return openstack.NewClient(cloud, newAdapter()), nil
}

// cloudNames returns the primary cloud plus any extras from a
// comma-separated --clouds value, processed strictly in order.
func cloudNames(extra string) []string {
	names := []string{osCloud}
	for _, name := range strings.Split(extra, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func daysThreshold(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}

func asResources[T domain.Resource](items []T) []domain.Resource {
	resources := make([]domain.Resource, len(items))
	for i, item := range items {
		resources[i] = item
	}
	return resources
}

func renderResourceTable(resources []domain.Resource, preds ...cleanup.Predicate) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Name", "ID", "Created"})
	for _, r := range resources {
		if ok, _ := cleanup.Eligible(r, preds...); !ok {
			continue
		}
		tw.AppendRow(table.Row{r.ResourceName(), r.ResourceID(), r.Created()})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

func runServerList(cmd *cobra.Command, _ []string) error {
	provider, err := cloudProvider(osCloud)
	if err != nil {
		return err
	}
	servers, err := provider.ListServers(cmd.Context())
	if err != nil {
		return err
	}
	renderResourceTable(asResources(servers), cleanup.MinAge(daysThreshold(serverDays), nil))
	return nil
}

func runServerCleanup(cmd *cobra.Command, _ []string) error {
	logger := logging.Default().Logger
	for _, name := range cloudNames(serverClouds) {
		provider, err := cloudProvider(name)
		if err != nil {
			return err
		}
		servers, err := provider.ListServers(cmd.Context())
		if err != nil {
			return err
		}

		runner := cleanup.NewRunner("server", logger, os.Stdout)
		preds := []cleanup.Predicate{cleanup.MinAge(daysThreshold(serverDays), nil)}
		del := func(ctx context.Context, r domain.Resource) error {
			return provider.DeleteServer(ctx, r.ResourceName())
		}
		if _, err := runner.Run(cmd.Context(), asResources(servers), preds, del); err != nil {
			return err
		}
	}
	return nil
}

func runServerRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	provider, err := cloudProvider(osCloud)
	if err != nil {
		return err
	}

	server, err := provider.GetServer(cmd.Context(), name)
	if err != nil {
		return err
	}
	if tooYoung, err := youngerThan(server, serverMinutes); err != nil {
		return err
	} else if tooYoung {
		fmt.Printf("INFO: server %s is younger than %d minutes, not removing\n", name, serverMinutes)
		return nil
	}
	if err := provider.DeleteServer(cmd.Context(), name); err != nil {
		return err
	}
	fmt.Printf("INFO: removed server %s\n", name)
	return nil
}

func runVolumeList(cmd *cobra.Command, _ []string) error {
	provider, err := cloudProvider(osCloud)
	if err != nil {
		return err
	}
	volumes, err := provider.ListVolumes(cmd.Context())
	if err != nil {
		return err
	}
	renderResourceTable(asResources(volumes), cleanup.MinAge(daysThreshold(volumeDays), nil))
	return nil
}

func runVolumeCleanup(cmd *cobra.Command, _ []string) error {
	logger := logging.Default().Logger
	for _, name := range cloudNames(volumeClouds) {
		provider, err := cloudProvider(name)
		if err != nil {
			return err
		}
		volumes, err := provider.ListVolumes(cmd.Context())
		if err != nil {
			return err
		}

		runner := cleanup.NewRunner("volume", logger, os.Stdout)
		preds := []cleanup.Predicate{cleanup.MinAge(daysThreshold(volumeDays), nil)}
		del := func(ctx context.Context, r domain.Resource) error {
			return provider.DeleteVolume(ctx, r.ResourceID())
		}
		if _, err := runner.Run(cmd.Context(), asResources(volumes), preds, del); err != nil {
			return err
		}
	}
	return nil
}

func runVolumeRemove(cmd *cobra.Command, args []string) error {
	id := args[0]
	provider, err := cloudProvider(osCloud)
	if err != nil {
		return err
	}

	volume, err := provider.GetVolume(cmd.Context(), id)
	if err != nil {
		return err
	}
	if tooYoung, err := youngerThan(volume, volumeMinutes); err != nil {
		return err
	} else if tooYoung {
		fmt.Printf("INFO: volume %s is younger than %d minutes, not removing\n", id, volumeMinutes)
		return nil
	}
	if err := provider.DeleteVolume(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("INFO: removed volume %s\n", id)
	return nil
}

func runImageList(cmd *cobra.Command, _ []string) error {
	provider, err := cloudProvider(osCloud)
	if err != nil {
		return err
	}
	images, err := provider.ListImages(cmd.Context())
	if err != nil {
		return err
	}

	age := cleanup.MinAge(daysThreshold(imageDays), nil)
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Name", "ID", "Created", "Owner", "Visibility", "Protected"})
	for _, img := range images {
		if ok, _ := age(img); !ok {
			continue
		}
		tw.AppendRow(table.Row{img.Name, img.ID, img.CreatedAt, img.Owner, img.Visibility, img.Protected})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
	return nil
}

func runImageCleanup(cmd *cobra.Command, _ []string) error {
	logger := logging.Default().Logger
	for _, name := range cloudNames(imageClouds) {
		provider, err := cloudProvider(name)
		if err != nil {
			return err
		}
		projectID, err := provider.ProjectID(cmd.Context())
		if err != nil {
			return err
		}
		images, err := provider.ListImages(cmd.Context())
		if err != nil {
			return err
		}

		runner := cleanup.NewRunner("image", logger, os.Stdout)
		preds := []cleanup.Predicate{
			cleanup.ImagePolicy(projectID),
			cleanup.MinAge(daysThreshold(imageDays), nil),
		}
		del := func(ctx context.Context, r domain.Resource) error {
			return provider.DeleteImage(ctx, r.ResourceName())
		}
		if _, err := runner.Run(cmd.Context(), asResources(images), preds, del); err != nil {
			return err
		}
	}
	return nil
}

func runClusterList(cmd *cobra.Command, _ []string) error {
	provider, err := cloudProvider(osCloud)
	if err != nil {
		return err
	}
	clusters, err := provider.ListClusters(cmd.Context())
	if err != nil {
		return err
	}
	renderResourceTable(asResources(clusters))
	return nil
}

func runClusterCleanup(cmd *cobra.Command, _ []string) error {
	logger := logging.Default().Logger
	cfg := toolConfig()

	urls := strings.Fields(clusterJenkinsURLs)
	if len(urls) == 0 {
		urls = cfg.Jenkins.URLs
	}
	if len(urls) == 0 {
		fmt.Println("WARN: No Jenkins URLs provided, skipping cluster cleanup to be safe")
		return nil
	}

	fmt.Printf("INFO: Checking Jenkins URLs for active builds: %s\n", strings.Join(urls, " "))
	source := jenkins.NewBuildSource(newAdapter(), logger, os.Stdout)
	builds := source.ActiveBuilds(cmd.Context(), urls)
	fmt.Printf("INFO: Found %d active builds in Jenkins\n", len(builds))

	for _, name := range cloudNames(clusterClouds) {
		provider, err := cloudProvider(name)
		if err != nil {
			return err
		}
		clusters, err := provider.ListClusters(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("INFO: Found %d COE clusters on cloud %s\n", len(clusters), name)

		runner := cleanup.NewRunner("cluster", logger, os.Stdout)
		preds := []cleanup.Predicate{
			cleanup.ManagedExemption(),
			cleanup.NotInUse(builds),
		}
		del := func(ctx context.Context, r domain.Resource) error {
			return provider.DeleteCluster(ctx, r.ResourceName())
		}
		if _, err := runner.Run(cmd.Context(), asResources(clusters), preds, del); err != nil {
			return err
		}
	}
	return nil
}

// youngerThan guards remove operations against deleting resources that
// are still being provisioned. A zero threshold disables the check.
func youngerThan(r domain.Resource, minutes int) (bool, error) {
	if minutes == 0 {
		return false, nil
	}
	created, err := domain.ParseCreated(r.Created())
	if err != nil {
		return false, err
	}
	return time.Now().UTC().Sub(created) < time.Duration(minutes)*time.Minute, nil
}
