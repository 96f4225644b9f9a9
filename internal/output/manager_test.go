package output

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shipcheck/internal/checks"
)

type recordingSink struct {
	writes   []any
	writeErr error
	closed   bool
}

func (s *recordingSink) Write(v any) error {
	s.writes = append(s.writes, v)
	return s.writeErr
}

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

func TestManager(t *testing.T) {
	t.Run("fans out to every sink", func(t *testing.T) {
		a, b := &recordingSink{}, &recordingSink{}
		m := NewManager()
		if err := m.AddSink(a); err != nil {
			t.Fatalf("AddSink failed: %v", err)
		}
		if err := m.AddSink(b); err != nil {
			t.Fatalf("AddSink failed: %v", err)
		}
		if err := m.Write(failedResult()); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if len(a.writes) != 1 || len(b.writes) != 1 {
			t.Errorf("writes = %d, %d, want 1 each", len(a.writes), len(b.writes))
		}
		if err := m.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if !a.closed || !b.closed {
			t.Error("sinks not closed")
		}
	})

	t.Run("one failing sink does not stop the others", func(t *testing.T) {
		bad := &recordingSink{writeErr: errors.New("disk full")}
		good := &recordingSink{}
		m := NewManager()
		if err := m.AddSink(bad); err != nil {
			t.Fatalf("AddSink failed: %v", err)
		}
		if err := m.AddSink(good); err != nil {
			t.Fatalf("AddSink failed: %v", err)
		}
		if err := m.Write(failedResult()); err == nil {
			t.Error("Write swallowed the sink error")
		}
		if len(good.writes) != 1 {
			t.Errorf("healthy sink got %d writes, want 1", len(good.writes))
		}
	})

	t.Run("nil sink is rejected", func(t *testing.T) {
		m := NewManager()
		if err := m.AddSink(nil); err == nil {
			t.Error("AddSink accepted nil")
		}
	})
}

func TestFileSink(t *testing.T) {
	t.Run("json aggregate written on close", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.json")
		s, err := NewFileSink(path, "")
		if err != nil {
			t.Fatalf("NewFileSink failed: %v", err)
		}
		if err := s.Write(failedResult()); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		var results []checks.Result
		if err := json.Unmarshal(raw, &results); err != nil {
			t.Fatalf("file is not a JSON array: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("results = %v", results)
		}
	})

	t.Run("ndjson stream includes lifecycle events", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.ndjson")
		s, err := NewFileSink(path, "")
		if err != nil {
			t.Fatalf("NewFileSink failed: %v", err)
		}
		if err := s.Write(Event{Type: "run.started", Artifacts: 1}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := s.Write(failedResult()); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
		if len(lines) != 2 {
			t.Fatalf("got %d lines, want 2:\n%s", len(lines), raw)
		}
	})

	t.Run("missing parent directory is created", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "deep", "report.json")
		s, err := NewFileSink(path, "")
		if err != nil {
			t.Fatalf("NewFileSink failed: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	})

	t.Run("uninferable extension is rejected", func(t *testing.T) {
		if _, err := NewFileSink(filepath.Join(t.TempDir(), "report.txt"), ""); err == nil {
			t.Error("NewFileSink accepted an uninferable extension")
		}
	})
}

func TestEmitSink(t *testing.T) {
	t.Run("rejects unknown format", func(t *testing.T) {
		if _, err := NewEmitSink(os.Stdout, "yaml"); err != nil {
			return
		}
		t.Error("NewEmitSink accepted an unknown format")
	})

	t.Run("json aggregates until close", func(t *testing.T) {
		var buf strings.Builder
		s, err := NewEmitSink(&buf, "json")
		if err != nil {
			t.Fatalf("NewEmitSink failed: %v", err)
		}
		if err := s.Write(failedResult()); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if buf.Len() != 0 {
			t.Fatalf("json emit wrote before Close: %q", buf.String())
		}
		if err := s.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		var results []checks.Result
		if err := json.Unmarshal([]byte(buf.String()), &results); err != nil {
			t.Fatalf("emit output is not a JSON array: %v", err)
		}
	})
}
