// Package votes tallies reviewer votes on governance-file changes.
//
// A change passes when at least half of the listed committers voted for
// it. When a TSC file is supplied the same votes must also carry a
// majority of the TSC; the escalation is an explicit second stage, not
// a recursion, because the chain is statically two levels deep.
package votes

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"lfreleng/internal/infofile"
)

// Source fetches the identifiers of reviewers who voted for the change.
type Source interface {
	Votes(ctx context.Context) ([]string, error)
}

// Checker runs the majority check.
type Checker struct {
	source Source
	key    infofile.IDKey
	logger *slog.Logger
	out    io.Writer
}

// NewChecker creates a vote checker keyed on the given identifier.
func NewChecker(source Source, key infofile.IDKey, logger *slog.Logger, out io.Writer) *Checker {
	return &Checker{source: source, key: key, logger: logger, out: out}
}

// Stage is the tally for one governance file.
type Stage struct {
	Committers []string
	Voted      []string
	NotVoted   []string
}

// Majority is the fraction of committers that voted.
func (s Stage) Majority() float64 {
	if len(s.Committers) == 0 {
		return 0
	}
	return float64(len(s.Voted)) / float64(len(s.Committers))
}

// Check runs the committer stage against infoPath and, when tscPath is
// non-empty, the TSC stage against tscPath with the same votes. A nil
// return means every executed stage reached majority.
func (c *Checker) Check(ctx context.Context, infoPath, tscPath string) error {
	votes, err := c.source.Votes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch votes: %w", err)
	}

	if err := c.checkFile(ctx, infoPath, votes); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "INFO: Majority committer vote reached")

	if tscPath == "" {
		return nil
	}

	fmt.Fprintln(c.out, "INFO: Need majority of tsc")
	if err := c.checkFile(ctx, tscPath, votes); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "INFO: TSC majority reached auto merging commit")
	return nil
}

// Tally partitions a file's committers into voted and not-voted.
func (c *Checker) Tally(path string, votes []string) (Stage, error) {
	info, err := infofile.Load(path)
	if err != nil {
		return Stage{}, err
	}

	voteSet := make(map[string]struct{}, len(votes))
	for _, v := range votes {
		voteSet[v] = struct{}{}
	}

	stage := Stage{Committers: info.CommitterIDs(c.key)}
	for _, id := range stage.Committers {
		if _, ok := voteSet[id]; ok {
			stage.Voted = append(stage.Voted, id)
		} else {
			stage.NotVoted = append(stage.NotVoted, id)
		}
	}
	return stage, nil
}

func (c *Checker) checkFile(ctx context.Context, path string, votes []string) error {
	stage, err := c.Tally(path, votes)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "INFO: Number of Committers: %d\n", len(stage.Committers))
	fmt.Fprintf(c.out, "INFO: Committers that have voted: %v (%d)\n", stage.Voted, len(stage.Voted))
	fmt.Fprintf(c.out, "INFO: Committers that have not voted: %v (%d)\n", stage.NotVoted, len(stage.NotVoted))

	if len(stage.Voted) == 0 {
		return fmt.Errorf("no votes recorded for %s", path)
	}
	if stage.Majority() < 0.5 {
		return fmt.Errorf("majority not yet reached for %s", path)
	}
	c.logger.InfoContext(ctx, "majority reached", "file", path, "majority", stage.Majority())
	return nil
}
