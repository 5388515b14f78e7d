// Package envelope defines the single JSON artifact every canvasctl
// invocation writes to stdout, plus the NDJSON streaming variant used by
// paginated commands. Automated callers parse these shapes on every run, so
// any change to them requires a SchemaVersion bump.
package envelope

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/canvas-tools/canvasctl/pkg/errcode"
)

// SchemaVersion increments on any change to the output shapes below.
const SchemaVersion = 1

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusError   = "error"
)

// Metadata describes the invocation that produced an envelope.
type Metadata struct {
	Command       string `json:"command"`
	DurationMS    int64  `json:"duration_ms"`
	Version       string `json:"version"`
	SchemaVersion int    `json:"schema_version"`
}

// ErrorDetail is the serialized form of a taxonomy error.
type ErrorDetail struct {
	Code            string         `json:"code"`
	Message         string         `json:"message"`
	Recoverable     bool           `json:"recoverable"`
	SuggestedAction string         `json:"suggested_action,omitempty"`
	Context         map[string]any `json:"context,omitempty"`
}

// PartialData is the payload of a partial envelope: per-item outcomes of a
// bulk operation that neither fully succeeded nor fully failed.
type PartialData struct {
	Succeeded []any `json:"succeeded"`
	Failed    []any `json:"failed"`
}

// Envelope is the closed tagged union written once per invocation.
type Envelope struct {
	Status   string       `json:"status"`
	Data     any          `json:"data,omitempty"`
	Warnings []string     `json:"warnings"`
	Error    *ErrorDetail `json:"error,omitempty"`
	Metadata Metadata     `json:"metadata"`
}

// Success wraps a result payload. Warnings is always non-nil so the field
// serializes as an empty array rather than being omitted.
func Success(data any, warnings []string, meta Metadata) Envelope {
	if warnings == nil {
		warnings = []string{}
	}
	return Envelope{
		Status:   StatusSuccess,
		Data:     data,
		Warnings: warnings,
		Metadata: meta,
	}
}

// Partial wraps the outcome of a bulk operation with mixed results.
func Partial(data PartialData, meta Metadata) Envelope {
	if data.Succeeded == nil {
		data.Succeeded = []any{}
	}
	if data.Failed == nil {
		data.Failed = []any{}
	}
	return Envelope{
		Status:   StatusPartial,
		Data:     data,
		Metadata: meta,
	}
}

// FromError wraps a taxonomy error.
func FromError(err *errcode.Error, meta Metadata) Envelope {
	return Envelope{
		Status: StatusError,
		Error: &ErrorDetail{
			Code:            string(err.Code),
			Message:         err.Message,
			Recoverable:     err.Recoverable(),
			SuggestedAction: err.SuggestedAction,
			Context:         err.Context,
		},
		Metadata: meta,
	}
}

// Writer serializes envelopes onto the primary output channel and,
// optionally, into a byte-identical file copy.
type Writer struct {
	Out    io.Writer
	Pretty bool

	// CopyPath, when non-empty, receives an identical copy of every envelope
	// written. FS must be set when CopyPath is.
	CopyPath string
	FS       afero.Fs
}

// CopyError reports a failed CopyPath write. The primary channel already
// holds valid output when this is returned, so callers should warn rather
// than fail the invocation.
type CopyError struct {
	Path string
	Err  error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("writing envelope copy to %s: %v", e.Path, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }

// Write emits exactly one envelope. The file copy is best-effort only after
// the primary write succeeded; a copy failure is surfaced as a *CopyError so
// the caller can warn, but the primary channel already holds valid output by
// then.
func (w *Writer) Write(env Envelope) error {
	var (
		b   []byte
		err error
	)
	if w.Pretty {
		b, err = json.MarshalIndent(env, "", "  ")
	} else {
		b, err = json.Marshal(env)
	}
	if err != nil {
		return fmt.Errorf("marshaling envelope: %w", err)
	}
	b = append(b, '\n')

	if _, err := w.Out.Write(b); err != nil {
		return fmt.Errorf("writing envelope: %w", err)
	}

	if w.CopyPath != "" {
		if err := afero.WriteFile(w.FS, w.CopyPath, b, 0o644); err != nil {
			return &CopyError{Path: w.CopyPath, Err: err}
		}
	}
	return nil
}
