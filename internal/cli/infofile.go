package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"lfreleng/internal/config"
	"lfreleng/internal/gerrit"
	"lfreleng/internal/github"
	"lfreleng/internal/infofile"
	"lfreleng/internal/logging"
	"lfreleng/internal/services/lfid"
	"lfreleng/internal/services/votes"
)

// infofile command flags
var (
	committersFull bool
	committersID   string

	syncRepo string

	votesTSC        string
	votesGithubRepo string

	createDirectory   string
	createEmpty       bool
	createTSCApproval string
)

var infofileCmd = &cobra.Command{
	Use:   "infofile",
	Short: "Commands for working with INFO.yaml files",
}

var getCommittersCmd = &cobra.Command{
	Use:   "get-committers FILE",
	Short: "List the committers recorded in an INFO.yaml",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetCommitters,
}

var syncCommittersCmd = &cobra.Command{
	Use:   "sync-committers INFO_FILE LDAP_FILE ID",
	Short: "Copy one committer from an LDAP dump into an INFO.yaml",
	Long: `Copy the committer identified by ID from an LDAP-derived INFO.yaml
dump into the target INFO.yaml. Already-present committers are left
untouched.`,
	Args: cobra.ExactArgs(3),
	RunE: runSyncCommitters,
}

var checkVotesCmd = &cobra.Command{
	Use:   "check-votes INFO_FILE ENDPOINT CHANGE_NUMBER",
	Short: "Check whether a change has majority committer approval",
	Long: `Tally approval votes on a Gerrit change (or, with --github-repo, a
GitHub pull request where ENDPOINT is the organization) against the
committers of INFO_FILE. A majority is half or more. With --tsc the
committer majority is followed by a second tally against the TSC
INFO.yaml.`,
	Args: cobra.ExactArgs(3),
	RunE: runCheckVotes,
}

var createInfoFileCmd = &cobra.Command{
	Use:   "create-info-file GERRIT_URL PROJECT",
	Short: "Render a skeleton INFO.yaml for a gerrit project",
	RunE:  runCreateInfoFile,
	Args:  cobra.ExactArgs(2),
}

func init() {
	rootCmd.AddCommand(infofileCmd)
	infofileCmd.AddCommand(getCommittersCmd, syncCommittersCmd, checkVotesCmd, createInfoFileCmd)

	getCommittersCmd.Flags().BoolVar(&committersFull, "full", false, "include company and timezone")
	getCommittersCmd.Flags().StringVar(&committersID, "id", "", "show only the committer with this id")

	syncCommittersCmd.Flags().StringVar(&syncRepo, "repo", "", "set the repositories list of the target file")

	checkVotesCmd.Flags().StringVar(&votesTSC, "tsc", "", "path to the TSC INFO.yaml for the second tally")
	checkVotesCmd.Flags().StringVar(&votesGithubRepo, "github-repo", "", "tally a GitHub pull request of this repository instead of a Gerrit change")

	createInfoFileCmd.Flags().StringVar(&createDirectory, "directory", "r", "gerrit access directory the project lives under")
	createInfoFileCmd.Flags().BoolVar(&createEmpty, "empty", false, "render a blank committer block instead of seeding from LDAP")
	createInfoFileCmd.Flags().StringVar(&createTSCApproval, "tsc-approval", "", "TSC approval link or status")
}

func runGetCommitters(_ *cobra.Command, args []string) error {
	info, err := infofile.Load(args[0])
	if err != nil {
		return err
	}

	committers := info.Committers
	if committersID != "" {
		c := info.FindCommitter(committersID, infofile.IDKeyLFID)
		if c == nil {
			return fmt.Errorf("committer '%s' not found in %s", committersID, args[0])
		}
		committers = []infofile.Committer{*c}
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	if committersFull {
		tw.AppendHeader(table.Row{"ID", "Name", "Email", "Company", "Timezone"})
		for _, c := range committers {
			tw.AppendRow(table.Row{c.ID, c.Name, c.Email, c.Company, c.Timezone})
		}
	} else {
		tw.AppendHeader(table.Row{"ID", "Name", "Email"})
		for _, c := range committers {
			tw.AppendRow(table.Row{c.ID, c.Name, c.Email})
		}
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
	return nil
}

func runSyncCommitters(_ *cobra.Command, args []string) error {
	infoPath, ldapPath, id := args[0], args[1], args[2]
	added, err := infofile.SyncCommitter(infoPath, ldapPath, id, syncRepo)
	if err != nil {
		return err
	}
	if added {
		fmt.Printf("INFO: added committer %s to %s\n", id, infoPath)
	} else {
		fmt.Printf("INFO: committer %s already present in %s\n", id, infoPath)
	}
	return nil
}

func runCheckVotes(cmd *cobra.Command, args []string) error {
	infoPath, endpoint := args[0], args[1]
	changeNumber, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("change number must be numeric, got '%s'", args[2])
	}

	var (
		source votes.Source
		key    infofile.IDKey
	)
	if votesGithubRepo != "" {
		client := github.NewClient(toolConfig().GitHub.Token, newAdapter())
		source = github.VoteSource{Client: client, Org: endpoint, Repo: votesGithubRepo, Number: changeNumber}
		key = infofile.IDKeyGitHub
	} else {
		creds, err := gerritCredentials()
		if err != nil {
			return err
		}
		client := gerrit.NewClient(endpoint, creds, newAdapter())
		source = gerrit.VoteSource{Client: client, ChangeNumber: changeNumber}
		key = infofile.IDKeyLFID
	}

	checker := votes.NewChecker(source, key, logging.Default().Logger, os.Stdout)
	return checker.Check(cmd.Context(), infoPath, votesTSC)
}

func runCreateInfoFile(cmd *cobra.Command, args []string) error {
	gerritURL, project := args[0], args[1]

	params := infofile.CreateParams{
		GerritURL:   gerritURL,
		Project:     project,
		TSCApproval: createTSCApproval,
	}

	creds, err := gerritCredentials()
	if err != nil {
		return err
	}
	client := gerrit.NewClient("https://"+gerritURL+"/"+createDirectory, creds, newAdapter())
	access, err := client.Access(cmd.Context(), project)
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARN: could not read access rules for %s: %v\n", project, err)
	} else {
		for _, rule := range access.OwnerRules() {
			fmt.Fprintf(os.Stderr, "WARN: non-standard owner rule on %s: %s\n", project, rule)
		}
	}

	if !createEmpty {
		lfidClient := lfid.NewClient(toolConfig().LFID, newAdapter())
		members, err := lfidClient.SearchMembers(cmd.Context(), params.LdapGroup())
		if err != nil {
			fmt.Fprintf(os.Stderr, "WARN: could not seed committers from group %s: %v\n", params.LdapGroup(), err)
		}
		for _, m := range members {
			params.Committers = append(params.Committers, infofile.Committer{
				Name:  m.Username,
				Email: m.Mail,
				ID:    m.Username,
			})
		}
	}

	return infofile.RenderNew(os.Stdout, params)
}

// gerritCredentials resolves gerrit credentials from configuration,
// prompting for the password when it is not configured.
func gerritCredentials() (config.GerritConfig, error) {
	creds := toolConfig().Gerrit
	if creds.Username != "" && creds.Password == "" {
		password, err := promptSecret("Gerrit password for "+creds.Username+": ", "GERRIT_HTTP_PASSWORD")
		if err != nil {
			return config.GerritConfig{}, err
		}
		creds.Password = password
	}
	return creds, nil
}
