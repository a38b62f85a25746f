package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"lfreleng/internal/github"
	"lfreleng/internal/infofile"
	"lfreleng/internal/logging"
	"lfreleng/internal/services/lfid"
)

// lfid command flags
var (
	lfidUserDelete bool
	matchGithubOrg string
	matchNoop      bool
)

var lfidCmd = &cobra.Command{
	Use:   "lfid",
	Short: "Commands for managing LF identity groups",
}

var lfidSearchMembersCmd = &cobra.Command{
	Use:   "search-members GROUP",
	Short: "List the members of a group",
	Args:  cobra.ExactArgs(1),
	RunE:  runLfidSearchMembers,
}

var lfidUserCmd = &cobra.Command{
	Use:   "user USER GROUP",
	Short: "Add a user to a group, or remove with --delete",
	Args:  cobra.ExactArgs(2),
	RunE:  runLfidUser,
}

var lfidInviteCmd = &cobra.Command{
	Use:   "invite EMAIL GROUP",
	Short: "Email an invitation to join a group",
	Args:  cobra.ExactArgs(2),
	RunE:  runLfidInvite,
}

var lfidCreateGroupCmd = &cobra.Command{
	Use:   "create-group GROUP",
	Short: "Create a new group",
	Args:  cobra.ExactArgs(1),
	RunE:  runLfidCreateGroup,
}

var lfidMatchToInfoCmd = &cobra.Command{
	Use:   "match-to-info INFO_FILE GROUP",
	Short: "Reconcile group membership against an INFO.yaml",
	Long: `Compare a group's members with the committers of INFO_FILE and apply
the difference: group members missing from the file are removed, file
committers missing from the group are added. With --github the group
is a GitHub team in the given organization, keyed on github_id. Use
--noop to only report the changes.`,
	Args: cobra.ExactArgs(2),
	RunE: runLfidMatchToInfo,
}

func init() {
	rootCmd.AddCommand(lfidCmd)
	lfidCmd.AddCommand(lfidSearchMembersCmd, lfidUserCmd, lfidInviteCmd, lfidCreateGroupCmd, lfidMatchToInfoCmd)

	lfidUserCmd.Flags().BoolVar(&lfidUserDelete, "delete", false, "remove the user instead of adding")
	lfidMatchToInfoCmd.Flags().StringVar(&matchGithubOrg, "github", "", "treat GROUP as a GitHub team in this organization")
	lfidMatchToInfoCmd.Flags().BoolVar(&matchNoop, "noop", false, "report changes without applying them")
}

func lfidClient() *lfid.Client {
	return lfid.NewClient(toolConfig().LFID, newAdapter())
}

func runLfidSearchMembers(cmd *cobra.Command, args []string) error {
	members, err := lfidClient().SearchMembers(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Username", "Email"})
	for _, m := range members {
		tw.AppendRow(table.Row{m.Username, m.Mail})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
	return nil
}

func runLfidUser(cmd *cobra.Command, args []string) error {
	user, group := args[0], args[1]
	client := lfidClient()
	if lfidUserDelete {
		if err := client.RemoveUser(cmd.Context(), group, user); err != nil {
			return err
		}
		fmt.Printf("INFO: removed %s from %s\n", user, group)
		return nil
	}
	if err := client.AddUser(cmd.Context(), group, user); err != nil {
		return err
	}
	fmt.Printf("INFO: added %s to %s\n", user, group)
	return nil
}

func runLfidInvite(cmd *cobra.Command, args []string) error {
	email, group := args[0], args[1]
	if err := lfidClient().Invite(cmd.Context(), group, email); err != nil {
		return err
	}
	fmt.Printf("INFO: invited %s to %s\n", email, group)
	return nil
}

func runLfidCreateGroup(cmd *cobra.Command, args []string) error {
	group := args[0]
	if err := lfidClient().CreateGroup(cmd.Context(), group); err != nil {
		return err
	}
	fmt.Printf("INFO: created group %s\n", group)
	return nil
}

func runLfidMatchToInfo(cmd *cobra.Command, args []string) error {
	infoPath, group := args[0], args[1]

	var (
		dir lfid.Directory
		key infofile.IDKey
	)
	if matchGithubOrg != "" {
		client := github.NewClient(toolConfig().GitHub.Token, newAdapter())
		dir = github.TeamDirectory{Client: client, Org: matchGithubOrg}
		key = infofile.IDKeyGitHub
	} else {
		dir = lfid.GroupDirectory{Client: lfidClient()}
		key = infofile.IDKeyLFID
	}

	reconciler := lfid.NewReconciler(dir, key, logging.Default().Logger, os.Stdout)
	return reconciler.MatchToInfo(cmd.Context(), infoPath, group, matchNoop)
}
