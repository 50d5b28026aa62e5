package output

import "github.com/aisepucrio/stnl-ghmetadata/internal/record"

// Event is a lifecycle record for NDJSON streaming output.
//
// In NDJSON mode, sinks emit Events (one JSON object per line), including:
// - run.started
// - repo.collected
// - repo.excluded
// - repo.failed
// - run.finished
//
// JSON mode remains an aggregate of record.Record values.
type Event struct {
	Type string `json:"type"`
	Repo string `json:"repo,omitempty"`
	*record.Record
	Reason    string `json:"reason,omitempty"`
	Count     int    `json:"count,omitempty"`
	Threshold int    `json:"threshold,omitempty"`
	Query     string `json:"query,omitempty"`
	Repos     int    `json:"repos,omitempty"`
	Collected int    `json:"collected,omitempty"`
	Excluded  int    `json:"excluded,omitempty"`
	Failed    int    `json:"failed,omitempty"`
	ExitCode  int    `json:"exit_code,omitempty"`
}

func eventFromRecord(r record.Record) Event {
	return Event{Type: "repo.collected", Repo: r.FullName(), Record: &r}
}
