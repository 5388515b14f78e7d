// Package ops tracks asynchronous operations in a durable, append-only
// registry: one JSON receipt per line, rewritten in full on every mutation,
// with a 30-day retention window enforced lazily on access.
package ops

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an operation.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Terminal reports whether the status never changes again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// PollDescriptor tells the wait command how to re-check remote status.
type PollDescriptor struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// OpError is the terminal failure detail of a FAILED operation.
type OpError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Receipt is one asynchronous operation's durable record.
type Receipt struct {
	OpID         string          `json:"op_id"`
	Type         string          `json:"type"`
	Status       Status          `json:"status"`
	ResourceID   string          `json:"resource_id,omitempty"`
	ResourceType string          `json:"resource_type,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Metadata     map[string]any  `json:"metadata,omitempty"`
	Poll         *PollDescriptor `json:"poll,omitempty"`
	Error        *OpError        `json:"error,omitempty"`
}

// Update is the set of fields Touch overlays onto a receipt. Zero values
// leave the receipt's field unchanged; Metadata is merged, not replaced.
type Update struct {
	Status       Status
	ResourceID   string
	ResourceType string
	Metadata     map[string]any
	Poll         *PollDescriptor
	Error        *OpError
}

// NewReceipt creates a fresh PENDING receipt with a unique op_id and both
// timestamps set to now.
func NewReceipt(opType string) Receipt {
	now := time.Now().UTC()
	return Receipt{
		OpID:      uuid.NewString(),
		Type:      opType,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch returns a copy of the receipt with u overlaid and updated_at
// refreshed. The input receipt is not mutated. The refreshed timestamp is
// clamped to never move backwards so updated_at >= created_at holds even
// under clock skew.
func (r Receipt) Touch(u Update) Receipt {
	out := r

	if u.Status != "" {
		out.Status = u.Status
	}
	if u.ResourceID != "" {
		out.ResourceID = u.ResourceID
	}
	if u.ResourceType != "" {
		out.ResourceType = u.ResourceType
	}
	if u.Poll != nil {
		out.Poll = u.Poll
	}
	if u.Error != nil {
		out.Error = u.Error
	}
	if len(u.Metadata) > 0 {
		merged := make(map[string]any, len(r.Metadata)+len(u.Metadata))
		for k, v := range r.Metadata {
			merged[k] = v
		}
		for k, v := range u.Metadata {
			merged[k] = v
		}
		out.Metadata = merged
	}

	now := time.Now().UTC()
	if now.Before(out.UpdatedAt) {
		now = out.UpdatedAt
	}
	out.UpdatedAt = now
	return out
}
