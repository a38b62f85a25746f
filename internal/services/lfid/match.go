package lfid

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"lfreleng/internal/infofile"
)

// The releng automation account lives in every LDAP committer group and
// never appears in INFO files; reconciliation ignores it.
const automationAccount = "lfservices_releng"

// Reconciler brings a directory group in line with the committer list
// of an INFO file: members missing from the file are removed, file
// committers missing from the group are added.
type Reconciler struct {
	dir    Directory
	key    infofile.IDKey
	logger *slog.Logger
	out    io.Writer
}

// NewReconciler creates a reconciler keyed on the given identifier
// (LFID usernames for LDAP groups, logins for GitHub teams).
func NewReconciler(dir Directory, key infofile.IDKey, logger *slog.Logger, out io.Writer) *Reconciler {
	return &Reconciler{dir: dir, key: key, logger: logger, out: out}
}

// MatchToInfo reconciles one group against one INFO file. With noop the
// plan is printed and nothing is changed.
func (r *Reconciler) MatchToInfo(ctx context.Context, infoPath, group string, noop bool) error {
	info, err := infofile.Load(infoPath)
	if err != nil {
		return err
	}
	wanted := info.CommitterIDs(r.key)

	current, err := r.dir.Members(ctx, group)
	if err != nil {
		return fmt.Errorf("failed to list members of %s: %w", group, err)
	}

	wantedSet := toSet(wanted)
	currentSet := toSet(current)
	if r.key == infofile.IDKeyLFID {
		delete(currentSet, automationAccount)
	}

	all := make([]string, 0, len(wantedSet)+len(currentSet))
	for u := range wantedSet {
		all = append(all, u)
	}
	for u := range currentSet {
		if _, ok := wantedSet[u]; !ok {
			all = append(all, u)
		}
	}
	sort.Strings(all)

	fmt.Fprintln(r.out, "All users in org group:")
	for _, u := range all {
		fmt.Fprintf(r.out, "  %s\n", u)
	}

	for _, user := range all {
		_, inGroup := currentSet[user]
		_, inFile := wantedSet[user]

		switch {
		case inGroup && !inFile:
			fmt.Fprintf(r.out, "User %s found in group %s, scheduled for removal\n", user, group)
			if !noop {
				if err := r.dir.RemoveUser(ctx, group, user); err != nil {
					return fmt.Errorf("failed to remove %s from %s: %w", user, group, err)
				}
				r.logger.InfoContext(ctx, "removed user from group", "group", group)
			}
		case !inGroup && inFile:
			fmt.Fprintf(r.out, "User %s not found in group %s, scheduled for addition\n", user, group)
			if !noop {
				if err := r.dir.AddUser(ctx, group, user); err != nil {
					return fmt.Errorf("failed to add %s to %s: %w", user, group, err)
				}
				r.logger.InfoContext(ctx, "added user to group", "group", group)
			}
		}
	}
	return nil
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item != "" {
			set[item] = struct{}{}
		}
	}
	return set
}
