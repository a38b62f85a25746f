package domain

// Outcome is the per-resource disposition of one deletion attempt.
type Outcome int

const (
	// OutcomeDeleted means the provider accepted the delete call.
	OutcomeDeleted Outcome = iota
	// OutcomeSkippedDuplicate means the name resolved to more than one
	// resource and the delete was skipped.
	OutcomeSkippedDuplicate
	// OutcomeSkippedFailed means the provider reported failure without
	// an unexpected error (typically the resource was already gone).
	OutcomeSkippedFailed
	// OutcomeSkippedPolicy means a filter predicate excluded the
	// resource; this is an expected result, not an error.
	OutcomeSkippedPolicy
	// OutcomeErrored means the delete failed in a way the run does not
	// tolerate; the run terminates.
	OutcomeErrored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDeleted:
		return "deleted"
	case OutcomeSkippedDuplicate:
		return "skipped-duplicate-name"
	case OutcomeSkippedFailed:
		return "skipped-failed"
	case OutcomeSkippedPolicy:
		return "skipped-policy"
	case OutcomeErrored:
		return "error"
	default:
		return "unknown"
	}
}

// Summary aggregates outcomes over one cleanup run. It is the only
// state that escapes the process, as console text.
type Summary struct {
	Deleted          int
	SkippedDuplicate int
	SkippedFailed    int
	SkippedPolicy    int
	Errored          int
}

// Record bumps the counter for one outcome.
func (s *Summary) Record(o Outcome) {
	switch o {
	case OutcomeDeleted:
		s.Deleted++
	case OutcomeSkippedDuplicate:
		s.SkippedDuplicate++
	case OutcomeSkippedFailed:
		s.SkippedFailed++
	case OutcomeSkippedPolicy:
		s.SkippedPolicy++
	case OutcomeErrored:
		s.Errored++
	}
}

// Total returns the number of resources the run touched.
func (s Summary) Total() int {
	return s.Deleted + s.SkippedDuplicate + s.SkippedFailed + s.SkippedPolicy + s.Errored
}
