package cleanup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"lfreleng/internal/domain"
	"lfreleng/internal/errors"
)

// DeleteFunc issues the delete call for one resource.
type DeleteFunc func(ctx context.Context, r domain.Resource) error

// Runner drives one cleanup pass for a single resource kind. It is the
// Deleter and Reporter halves of the pipeline; listing and filtering
// are supplied by the caller.
type Runner struct {
	kind   string
	logger *slog.Logger
	out    io.Writer
}

// NewRunner creates a cleanup runner for one resource kind.
func NewRunner(kind string, logger *slog.Logger, out io.Writer) *Runner {
	if out == nil {
		out = os.Stdout
	}
	return &Runner{kind: kind, logger: logger, out: out}
}

// Run filters the listed resources through the predicates and deletes
// the eligible ones. Dispositions stream to the report writer; the
// summary is printed at the end.
//
// Deletion errors are tolerated per item only for the duplicate-name
// collision and the "already gone" condition. Anything else terminates
// the run: silently skipping an unexpected failure is worse than
// stopping.
func (r *Runner) Run(ctx context.Context, resources []domain.Resource, preds []Predicate, del DeleteFunc) (domain.Summary, error) {
	var summary domain.Summary

	for _, res := range resources {
		name := res.ResourceName()

		ok, reason := Eligible(res, preds...)
		if !ok {
			summary.Record(domain.OutcomeSkippedPolicy)
			fmt.Fprintf(r.out, "INFO: skipping %s %s: %s\n", r.kind, name, reason)
			continue
		}

		err := del(ctx, res)
		switch {
		case err == nil:
			summary.Record(domain.OutcomeDeleted)
			fmt.Fprintf(r.out, "INFO: deleted %s %s\n", r.kind, name)
			r.logger.InfoContext(ctx, "resource deleted", "kind", r.kind, "name", name)

		case errors.IsDuplicateName(err):
			summary.Record(domain.OutcomeSkippedDuplicate)
			fmt.Fprintf(r.out, "INFO: skipping %s %s: %v\n", r.kind, name, err)
			r.logger.InfoContext(ctx, "duplicate name, skipped", "kind", r.kind, "name", name)

		case errors.IsNotFound(err):
			summary.Record(domain.OutcomeSkippedFailed)
			fmt.Fprintf(r.out, "WARN: failed to delete %s %s\n", r.kind, name)
			r.logger.WarnContext(ctx, "provider reported delete failure", "kind", r.kind, "name", name)

		default:
			summary.Record(domain.OutcomeErrored)
			fmt.Fprintf(r.out, "ERROR: deleting %s %s: %v\n", r.kind, name, err)
			return summary, fmt.Errorf("failed to delete %s %q: %w", r.kind, name, err)
		}
	}

	r.report(summary)
	return summary, nil
}

func (r *Runner) report(s domain.Summary) {
	fmt.Fprintf(r.out, "INFO: %s cleanup: %d deleted, %d skipped (%d duplicate-name, %d failed, %d policy)\n",
		r.kind, s.Deleted,
		s.SkippedDuplicate+s.SkippedFailed+s.SkippedPolicy,
		s.SkippedDuplicate, s.SkippedFailed, s.SkippedPolicy)
}
