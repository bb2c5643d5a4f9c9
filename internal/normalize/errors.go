package normalize

import "fmt"

// MalformedEventError reports a single raw record that cannot be normalized.
// Callers drop the record and keep processing; one bad record never aborts
// the feed.
type MalformedEventError struct {
	Kind   SourceKind
	ID     string
	Reason string
}

func (e *MalformedEventError) Error() string {
	id := e.ID
	if id == "" {
		id = "<missing id>"
	}
	return fmt.Sprintf("malformed %s record %s: %s", e.Kind, id, e.Reason)
}
