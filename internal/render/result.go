package render

import "fmt"

// Failure records one row excluded from the archive, with a reason a
// person can act on.
type Failure struct {
	// Identifier is the record code of the failed row.
	Identifier string
	// Row is the 1-based data-row position.
	Row int
	// Reason is the human-readable cause.
	Reason string
}

// Stats are the batch counts. They are always reported, success or not.
type Stats struct {
	Succeeded int
	Skipped   int
	Failed    int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d succeeded, %d skipped (blank identifier), %d failed",
		s.Succeeded, s.Skipped, s.Failed)
}
