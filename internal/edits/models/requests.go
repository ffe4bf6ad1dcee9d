package models

import (
	"fmt"

	"qualitydesk/pkg/domain"
	dErrors "qualitydesk/pkg/domain-errors"
	"qualitydesk/pkg/platform/audit"
)

// ApplyEditsRequest is the body of POST /projects/{projectID}/edits.
type ApplyEditsRequest struct {
	Edits []ValueEdit `json:"edits"`
}

// Validate checks every edit in the batch. Identity ambiguity (both month and
// quarter set) is not an error.
func (r *ApplyEditsRequest) Validate() error {
	if len(r.Edits) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "edits must not be empty")
	}
	for i, e := range r.Edits {
		if err := validateValueEdit(e); err != nil {
			return dErrors.Wrap(err, dErrors.CodeBadRequest, fmt.Sprintf("edits[%d]", i))
		}
	}
	return nil
}

func validateValueEdit(e ValueEdit) error {
	switch {
	case e.IndicatorName == "":
		return dErrors.New(dErrors.CodeInvalidInput, "indicatorName is required")
	case e.FilterName == "":
		return dErrors.New(dErrors.CodeInvalidInput, "filterName is required")
	case e.Year <= 0:
		return dErrors.New(dErrors.CodeInvalidInput, "year must be positive")
	case e.Month < 0 || e.Month > 12:
		return dErrors.New(dErrors.CodeInvalidInput, "month must be between 1 and 12")
	case e.Quarter < 0 || e.Quarter > 4:
		return dErrors.New(dErrors.CodeInvalidInput, "quarter must be between 1 and 4")
	}
	return nil
}

// OpenSessionRequest is the body of PUT /projects/{projectID}/edits.
type OpenSessionRequest struct {
	FileName string `json:"fileName"`
}

func (r *OpenSessionRequest) Validate() error {
	if r.FileName == "" {
		return dErrors.New(dErrors.CodeBadRequest, "fileName is required")
	}
	return nil
}

// Validate checks a rename edit.
func (e *IndicatorRenameEdit) Validate() error {
	if e.OldName == "" || e.NewName == "" {
		return dErrors.New(dErrors.CodeBadRequest, "oldName and newName are required")
	}
	return nil
}

// ClearProjectsRequest is the body of POST /edits/clear.
type ClearProjectsRequest struct {
	ProjectIDs []string `json:"projectIds"`
}

// Parse validates and converts the listed project IDs.
func (r *ClearProjectsRequest) Parse() ([]domain.ProjectID, error) {
	if len(r.ProjectIDs) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "projectIds must not be empty")
	}
	ids := make([]domain.ProjectID, 0, len(r.ProjectIDs))
	for i, raw := range r.ProjectIDs {
		id, err := domain.ParseProjectID(raw)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, fmt.Sprintf("projectIds[%d]", i))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ClearProjectsResponse reports how many sessions existed and were removed.
type ClearProjectsResponse struct {
	Deleted int `json:"deleted"`
}

// AuditTrailResponse lists the audit events an instance still retains for a
// project, oldest first.
type AuditTrailResponse struct {
	Events []audit.Event `json:"events"`
}
