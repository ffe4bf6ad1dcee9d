package domain

import (
	"github.com/google/uuid"

	dErrors "qualitydesk/pkg/domain-errors"
)

// ProjectID identifies the dashboard project that owns an edit session.
// Invariant: a parsed ProjectID is never the nil UUID.
type ProjectID uuid.UUID

// NewProjectID returns a random ProjectID.
func NewProjectID() ProjectID {
	return ProjectID(uuid.New())
}

// ParseProjectID constructs a ProjectID from external input.
//
// Errors: returns CodeInvalidInput when the value is empty, malformed, or the
// nil UUID.
func ParseProjectID(s string) (ProjectID, error) {
	if s == "" {
		return ProjectID{}, dErrors.New(dErrors.CodeInvalidInput, "project id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return ProjectID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid project id")
	}
	if parsed == uuid.Nil {
		return ProjectID{}, dErrors.New(dErrors.CodeInvalidInput, "project id cannot be nil")
	}
	return ProjectID(parsed), nil
}

func (id ProjectID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the ID is the zero value.
func (id ProjectID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id ProjectID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *ProjectID) UnmarshalText(data []byte) error {
	parsed, err := ParseProjectID(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
