package output

import (
	"errors"
	"strings"
	"testing"

	"github.com/aisepucrio/stnl-ghmetadata/internal/record"
)

type recordingSink struct {
	writes   []any
	writeErr error
	closeErr error
	closed   bool
}

func (s *recordingSink) Write(v any) error {
	s.writes = append(s.writes, v)
	return s.writeErr
}

func (s *recordingSink) Close() error {
	s.closed = true
	return s.closeErr
}

type failingSink struct {
	writeErr error
	closeErr error
}

func (s *failingSink) Write(v any) error { return s.writeErr }

func (s *failingSink) Close() error { return s.closeErr }

func TestManager(t *testing.T) {
	t.Run("writes records and events to all sinks", func(t *testing.T) {
		a := &recordingSink{}
		b := &recordingSink{}

		mgr := NewManager()
		if err := mgr.AddSink(a); err != nil {
			t.Fatalf("AddSink(a) error: %v", err)
		}
		if err := mgr.AddSink(b); err != nil {
			t.Fatalf("AddSink(b) error: %v", err)
		}

		if err := mgr.Write(Event{Type: "run.started", Repos: 2}); err != nil {
			t.Fatalf("Write(event) error: %v", err)
		}
		if err := mgr.Write(record.Record{Owner: "acme", Name: "widget"}); err != nil {
			t.Fatalf("Write(record) error: %v", err)
		}
		if err := mgr.Close(); err != nil {
			t.Fatalf("Close() error: %v", err)
		}

		if got := len(a.writes); got != 2 {
			t.Fatalf("sink a writes: want 2, got %d", got)
		}
		if got := len(b.writes); got != 2 {
			t.Fatalf("sink b writes: want 2, got %d", got)
		}
		if !a.closed || !b.closed {
			t.Fatalf("expected both sinks closed, got a=%v b=%v", a.closed, b.closed)
		}
	})

	t.Run("AddSink rejects nil", func(t *testing.T) {
		mgr := NewManager()
		if err := mgr.AddSink(nil); err == nil {
			t.Fatalf("AddSink(nil) want error, got nil")
		}
	})

	t.Run("Write aggregates sink errors and keeps delivering", func(t *testing.T) {
		failing := &failingSink{writeErr: errors.New("disk full")}
		healthy := &recordingSink{}
		mgr := NewManager()
		if err := mgr.AddSink(failing); err != nil {
			t.Fatalf("AddSink(failing) error: %v", err)
		}
		if err := mgr.AddSink(healthy); err != nil {
			t.Fatalf("AddSink(healthy) error: %v", err)
		}

		err := mgr.Write(record.Record{Owner: "acme", Name: "widget"})
		if err == nil {
			t.Fatalf("Write want error, got nil")
		}
		msg := err.Error()
		for _, want := range []string{"errors writing to sinks", "disk full"} {
			if !strings.Contains(msg, want) {
				t.Fatalf("Write error missing %q; got: %s", want, msg)
			}
		}
		if got := len(healthy.writes); got != 1 {
			t.Fatalf("healthy sink should still receive the write, got %d", got)
		}
	})

	t.Run("Close aggregates sink errors", func(t *testing.T) {
		a := &failingSink{closeErr: errors.New("close-a")}
		b := &failingSink{closeErr: errors.New("close-b")}
		mgr := NewManager()
		if err := mgr.AddSink(a); err != nil {
			t.Fatalf("AddSink(a) error: %v", err)
		}
		if err := mgr.AddSink(b); err != nil {
			t.Fatalf("AddSink(b) error: %v", err)
		}

		err := mgr.Close()
		if err == nil {
			t.Fatalf("Close want error, got nil")
		}
		msg := err.Error()
		for _, want := range []string{"errors closing sinks", "close-a", "close-b"} {
			if !strings.Contains(msg, want) {
				t.Fatalf("Close error missing %q; got: %s", want, msg)
			}
		}
	})
}
