package audit

import (
	"context"
	"time"

	"qualitydesk/pkg/domain"
)

// AuditEvent names an action on a project's edit history.
type AuditEvent string

const (
	EventSessionOpened      AuditEvent = "edit_session_opened"
	EventEditsApplied       AuditEvent = "edits_applied"
	EventIndicatorRenamed   AuditEvent = "indicator_renamed"
	EventEditSessionCleared AuditEvent = "edit_session_cleared"
)

// Event is emitted by the edits service after a change is persisted. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time        `json:"timestamp"`
	ProjectID domain.ProjectID `json:"project_id"`
	Action    AuditEvent       `json:"action"`
	ActorID   string           `json:"actor_id,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
	// EditCount is the number of submitted edits for EventEditsApplied.
	EditCount int `json:"edit_count,omitempty"`
	// Detail is free text, e.g. "GDP -> Gross domestic product" for renames.
	Detail string `json:"detail,omitempty"`
}

// Store persists or forwards audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}
