package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/aisepucrio/stnl-ghmetadata/internal/record"
)

var (
	collectedTag = color.New(color.FgGreen).SprintFunc()
	excludedTag  = color.New(color.FgYellow).SprintFunc()
	failedTag    = color.New(color.FgRed).SprintFunc()
)

type ConsoleSink struct {
	writer  io.Writer
	format  string // "text", "json", "ndjson"
	mu      sync.Mutex
	records []record.Record // For JSON array output
}

func NewConsoleSink(w io.Writer, format string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	return &ConsoleSink{
		writer: w,
		format: format,
	}
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	switch s.format {
	case "json":
		r, ok := v.(record.Record)
		if !ok {
			// Ignore lifecycle events in JSON console mode.
			return nil
		}
		s.records = append(s.records, r)
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			if err := encoder.Encode(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case record.Record:
			if err := encoder.Encode(eventFromRecord(t)); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			return nil
		}
	case "text":
		if err := s.writeTextLocked(v); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) writeTextLocked(v any) error {
	printf := func(format string, args ...any) error {
		_, err := fmt.Fprintf(s.writer, format, args...)
		return err
	}

	switch t := v.(type) {
	case record.Record:
		contributors := fmt.Sprintf("%d", t.Contributors.Count)
		if t.Contributors.Estimated {
			contributors = "~" + contributors
		}
		return printf("%s %s: %d stars, %s contributors\n", collectedTag("[collected]"), t.FullName(), t.Stars, contributors)
	case Event:
		switch t.Type {
		case "run.started":
			return printf("collecting metadata for %d repositories (query: %s)\n", t.Repos, t.Query)
		case "repo.excluded":
			return printf("%s %s: %s\n", excludedTag("[excluded]"), t.Repo, t.Reason)
		case "repo.failed":
			return printf("%s %s: %s\n", failedTag("[failed]"), t.Repo, t.Reason)
		case "run.finished":
			return printf("collected %d of %d repositories (excluded %d, failed %d)\n", t.Collected, t.Repos, t.Excluded, t.Failed)
		}
		return nil
	default:
		return nil
	}
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		records := s.records
		if records == nil {
			records = []record.Record{}
		}
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(records); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}
