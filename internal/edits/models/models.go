package models

import (
	"fmt"
	"time"

	"qualitydesk/pkg/domain"
	"qualitydesk/pkg/format"
)

// ValueEdit is a correction to one observed indicator value.
//
// Month (1-12) and Quarter (1-4) are zero when not set. At most one should be
// set; when both are, identity is derived from Month.
type ValueEdit struct {
	IndicatorName string  `json:"indicatorName"`
	FilterName    string  `json:"filterName"`
	Year          int     `json:"year"`
	Month         int     `json:"month,omitempty"`
	Quarter       int     `json:"quarter,omitempty"`
	OldValue      float64 `json:"oldValue"`
	NewValue      float64 `json:"newValue"`
	Timestamp     int64   `json:"timestamp"`
	TableNumber   string  `json:"tableNumber,omitempty"`
	Comment       string  `json:"comment,omitempty"`
}

// EditIdentity is the logical cell an edit applies to. Two edits with equal
// identities are the same cell and only the latest one is kept.
type EditIdentity struct {
	IndicatorName string
	FilterName    string
	Year          int
	Period        string
}

// Identity returns the edit's logical identity.
func (e ValueEdit) Identity() EditIdentity {
	return EditIdentity{
		IndicatorName: e.IndicatorName,
		FilterName:    e.FilterName,
		Year:          e.Year,
		Period:        domain.PeriodToken(e.Month, e.Quarter),
	}
}

// PeriodKey returns the canonical period key, e.g. "2020-Q1". It groups
// edits in the summary and agrees with the identity used by MergeDataEdits.
func (e ValueEdit) PeriodKey() string {
	return format.CreatePeriodKey(e.Year, e.Month, e.Quarter)
}

// IndicatorRenameEdit is a correction to an indicator's display name.
type IndicatorRenameEdit struct {
	OldName   string `json:"oldName"`
	NewName   string `json:"newName"`
	Timestamp int64  `json:"timestamp"`
}

// EditSession is the edit history a project owns.
type EditSession struct {
	FileName       string                `json:"fileName"`
	DataEdits      []ValueEdit           `json:"dataEdits"`
	IndicatorEdits []IndicatorRenameEdit `json:"indicatorEdits"`
	LastUpdated    int64                 `json:"lastUpdated"`
}

// EditSummary is a read model over a session for the dashboard header.
type EditSummary struct {
	FileName         string   `json:"fileName"`
	TotalEdits       int      `json:"totalEdits"`
	MonthlyEdits     int      `json:"monthlyEdits"`
	QuarterlyEdits   int      `json:"quarterlyEdits"`
	AnnualEdits      int      `json:"annualEdits"`
	RenameCount      int      `json:"renameCount"`
	EditedIndicators []string `json:"editedIndicators"`
	// EditedPeriods counts edits per period, ordered by period key.
	EditedPeriods []EditedPeriod `json:"editedPeriods"`
	LastUpdated   int64          `json:"lastUpdated"`
}

// EditedPeriod is one period touched by the session's edits.
type EditedPeriod struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	FullLabel string `json:"fullLabel"`
	Edits     int    `json:"edits"`
}

// Describe renders the edit for audit trails, e.g.
// "GDP / Total, Jan 2020: 1.2K -> 1.5K".
func (e ValueEdit) Describe() string {
	return fmt.Sprintf("%s / %s, %s: %s -> %s",
		e.IndicatorName, e.FilterName,
		format.FormatPeriodLabel(e.Year, e.Month, e.Quarter),
		format.FormatNumber(e.OldValue), format.FormatNumber(e.NewValue),
	)
}

// ToMillis converts t to epoch milliseconds, the unit of every timestamp in
// this package.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}
