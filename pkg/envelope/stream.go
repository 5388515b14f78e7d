package envelope

import (
	"encoding/json"
	"fmt"
	"io"
)

// Stream line types.
const (
	LineItem    = "item"
	LineSummary = "summary"
)

// Line is one NDJSON record in streaming mode.
type Line struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// SummaryData terminates a stream with the total item count.
type SummaryData struct {
	Count int `json:"count"`
}

// StreamWriter emits NDJSON: one item line per result, terminated by exactly
// one summary line. It replaces the envelope for streamed invocations.
type StreamWriter struct {
	enc    *json.Encoder
	count  int
	closed bool
}

// NewStreamWriter creates a stream writer over the primary output channel.
func NewStreamWriter(out io.Writer) *StreamWriter {
	return &StreamWriter{enc: json.NewEncoder(out)}
}

// Item emits one result line and increments the running count.
func (s *StreamWriter) Item(data any) error {
	if s.closed {
		return fmt.Errorf("stream already closed")
	}
	if err := s.enc.Encode(Line{Type: LineItem, Data: data}); err != nil {
		return fmt.Errorf("writing stream item: %w", err)
	}
	s.count++
	return nil
}

// Count returns the number of items emitted so far.
func (s *StreamWriter) Count() int {
	return s.count
}

// Close writes the terminal summary line. It is idempotent so the harness
// can close defensively after a handler that already closed.
func (s *StreamWriter) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.enc.Encode(Line{Type: LineSummary, Data: SummaryData{Count: s.count}}); err != nil {
		return fmt.Errorf("writing stream summary: %w", err)
	}
	return nil
}
