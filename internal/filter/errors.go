package filter

import "fmt"

// InvalidCriteriaError reports a criteria object in a logically impossible
// state. It is surfaced before any filtering runs; the pipeline never
// silently repairs criteria, since swapped or clamped bounds would mask a
// caller bug.
type InvalidCriteriaError struct {
	Field  string
	Reason string
}

func (e *InvalidCriteriaError) Error() string {
	return fmt.Sprintf("invalid filter criteria: %s: %s", e.Field, e.Reason)
}
