package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aisepucrio/stnl-ghmetadata/internal/record"
)

// FileSink persists collected records to disk. In json mode it buffers
// records and writes one pretty-printed array on Close, so the file never
// holds a partial document; in ndjson mode records and lifecycle events
// stream out as they settle.
type FileSink struct {
	path    string
	format  string
	file    *os.File
	mu      sync.Mutex
	records []record.Record
}

// NewFileSink creates (and truncates) the output file. The caller resolves
// the format beforehand; config validation infers it from the path extension.
func NewFileSink(path string, format string) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("output path required")
	}
	if format != "json" && format != "ndjson" {
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &FileSink{
		path:   path,
		format: format,
		file:   f,
	}, nil
}

func (s *FileSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.format {
	case "json":
		r, ok := v.(record.Record)
		if !ok {
			// Ignore lifecycle events in JSON aggregate mode.
			return nil
		}
		s.records = append(s.records, r)
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.file)
		switch t := v.(type) {
		case Event:
			return encoder.Encode(t)
		case record.Record:
			return encoder.Encode(eventFromRecord(t))
		default:
			return nil
		}
	}
	return nil
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.format == "json" {
		records := s.records
		if records == nil {
			records = []record.Record{} // encode [] rather than null
		}
		encoder := json.NewEncoder(s.file)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(records)
	}

	if closeErr := s.file.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
