package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"shipcheck/internal/checks"

	"github.com/fatih/color"
)

// maxEvidenceLines bounds how much raw evidence a failed check prints.
// Enough to locate the problem without re-running with verbose flags.
const maxEvidenceLines = 10

var statusColors = map[checks.Status]*color.Color{
	checks.StatusPass:    color.New(color.FgGreen),
	checks.StatusFail:    color.New(color.FgRed),
	checks.StatusSkipped: color.New(color.FgYellow),
	checks.StatusError:   color.New(color.FgMagenta),
}

type ConsoleSink struct {
	writer          io.Writer
	format          string // "text", "json", "ndjson"
	mu              sync.Mutex
	results         []checks.Result // For JSON array output
	allowedStatuses map[string]bool
}

func NewConsoleSink(w io.Writer, format string, filterStatuses []string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	s := &ConsoleSink{
		writer: w,
		format: format,
	}

	if len(filterStatuses) > 0 {
		s.allowedStatuses = make(map[string]bool)
		for _, st := range filterStatuses {
			s.allowedStatuses[strings.ToUpper(st)] = true
		}
	}

	return s
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	// Apply filtering if configured
	if len(s.allowedStatuses) > 0 {
		if r, ok := v.(checks.Result); ok {
			if !s.allowedStatuses[string(r.Status)] {
				return nil
			}
		}
	}

	switch s.format {
	case "json":
		r, ok := v.(checks.Result)
		if !ok {
			// Ignore non-result events in JSON console mode.
			return nil
		}
		s.results = append(s.results, r)
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			if err := encoder.Encode(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case checks.Result:
			if err := encoder.Encode(eventFromResult(t)); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			return nil
		}
	case "text":
		r, ok := v.(checks.Result)
		if !ok {
			// Ignore events in text mode.
			return nil
		}
		return s.writeText(r)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) writeText(r checks.Result) error {
	tag := string(r.Status)
	if c, ok := statusColors[r.Status]; ok {
		tag = c.Sprint(tag)
	}
	if _, err := fmt.Fprintf(s.writer, "[%s] %s: %s", tag, r.Artifact, r.CheckID); err != nil {
		return err
	}
	if r.Message != "" {
		if _, err := fmt.Fprintf(s.writer, " - %s", r.Message); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(s.writer); err != nil {
		return err
	}

	// Evidence is printed only for non-passing results, truncated.
	if r.Status == checks.StatusFail || r.Status == checks.StatusError {
		for _, line := range TruncateEvidence(r.Evidence, maxEvidenceLines) {
			if _, err := fmt.Fprintf(s.writer, "    | %s\n", line); err != nil {
				return err
			}
		}
	}
	return flushIfPossible(s.writer)
}

// TruncateEvidence bounds an evidence listing for display, appending a
// summary line when entries were dropped.
func TruncateEvidence(evidence []string, max int) []string {
	if len(evidence) <= max {
		return evidence
	}
	out := make([]string, max, max+1)
	copy(out, evidence[:max])
	return append(out, fmt.Sprintf("... (%d more lines)", len(evidence)-max))
}

func (s *ConsoleSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s.results); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}
