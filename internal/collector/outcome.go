package collector

import (
	"github.com/aisepucrio/stnl-ghmetadata/internal/record"
	"github.com/aisepucrio/stnl-ghmetadata/internal/resource"
)

// RepoID identifies one repository to collect. Discovery produces these and
// the pool consumes them; the list is processed as-is, duplicates included.
type RepoID = resource.Repo

// Outcome is the settlement of one repository: exactly one of collected
// (Record set), excluded (Excluded set with the Reason) or failed (Err set).
//
// It is emitted by the pool and consumed by the run loop, which turns it into
// output events.
type Outcome struct {
	Repo RepoID

	// Record is the shaped output record; nil unless the repository was
	// collected.
	Record *record.Record

	// Excluded reports a deliberate filter decision. Count and Threshold
	// carry the observed contributor count and the configured minimum when
	// the exclusion came from the threshold comparison.
	Excluded  bool
	Reason    string
	Count     int
	Threshold int

	// Err is set when the repository failed outright (metadata unavailable,
	// or a panic recovered in the worker).
	Err error
}
