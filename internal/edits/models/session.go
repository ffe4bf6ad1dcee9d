package models

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"qualitydesk/pkg/format"
	pstrings "qualitydesk/pkg/platform/strings"
)

// NewEditSession returns an empty session for fileName.
func NewEditSession(fileName string) *EditSession {
	return &EditSession{
		FileName:       fileName,
		DataEdits:      []ValueEdit{},
		IndicatorEdits: []IndicatorRenameEdit{},
	}
}

// SessionOrDefault treats an absent session as an empty one with
// LastUpdated zero.
func SessionOrDefault(s *EditSession) *EditSession {
	if s == nil {
		return NewEditSession("")
	}
	return s
}

// Clone returns a deep copy of the session.
func (s *EditSession) Clone() *EditSession {
	if s == nil {
		return nil
	}
	return &EditSession{
		FileName:       s.FileName,
		DataEdits:      cloneOrEmpty(s.DataEdits),
		IndicatorEdits: cloneOrEmpty(s.IndicatorEdits),
		LastUpdated:    s.LastUpdated,
	}
}

// ApplyEdits merges incoming into the session's data edits and stamps
// LastUpdated with now. FileName and IndicatorEdits carry over untouched.
// The receiver is not modified.
func (s *EditSession) ApplyEdits(incoming []ValueEdit, now time.Time) *EditSession {
	base := SessionOrDefault(s)
	next := base.Clone()
	next.DataEdits = MergeDataEdits(base.DataEdits, incoming, now)
	next.LastUpdated = ToMillis(now)
	return next
}

// ApplyIndicatorRename appends edit to the rename history. Renames are kept in
// call order and never deduplicated. The receiver is not modified.
func (s *EditSession) ApplyIndicatorRename(edit IndicatorRenameEdit) *EditSession {
	next := SessionOrDefault(s).Clone()
	next.IndicatorEdits = append(next.IndicatorEdits, edit)
	return next
}

// Summarize builds the dashboard summary for the session.
func (s *EditSession) Summarize() *EditSummary {
	base := SessionOrDefault(s)
	summary := &EditSummary{
		FileName:    base.FileName,
		TotalEdits:  len(base.DataEdits),
		RenameCount: len(base.IndicatorEdits),
		LastUpdated: base.LastUpdated,
	}
	names := make([]string, 0, len(base.DataEdits))
	periods := make(map[string]*periodCount)
	for _, e := range base.DataEdits {
		key := e.PeriodKey()
		if p, ok := periods[key]; ok {
			p.Edits++
		} else {
			periods[key] = &periodCount{
				EditedPeriod: EditedPeriod{
					Key:       key,
					Label:     format.FormatPeriodLabel(e.Year, e.Month, e.Quarter),
					FullLabel: format.FormatPeriodFullLabel(e.Year, e.Month, e.Quarter),
					Edits:     1,
				},
				order: periodOrderOf(e),
			}
		}
		switch {
		case e.Month != 0:
			summary.MonthlyEdits++
		case e.Quarter != 0:
			summary.QuarterlyEdits++
		default:
			summary.AnnualEdits++
		}
		names = append(names, e.IndicatorName)
	}
	summary.EditedIndicators = pstrings.DedupeAndTrimFold(names)
	slices.SortFunc(summary.EditedIndicators, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	counts := make([]*periodCount, 0, len(periods))
	for _, p := range periods {
		counts = append(counts, p)
	}
	slices.SortFunc(counts, func(a, b *periodCount) int {
		return a.order.compare(b.order)
	})
	summary.EditedPeriods = make([]EditedPeriod, 0, len(counts))
	for _, p := range counts {
		summary.EditedPeriods = append(summary.EditedPeriods, p.EditedPeriod)
	}
	return summary
}

type periodCount struct {
	EditedPeriod
	order periodOrder
}

// periodOrder sorts edited periods by year; within a year months come first,
// then quarters, then the annual figure.
type periodOrder struct {
	year        int
	granularity int
	position    int
}

func periodOrderOf(e ValueEdit) periodOrder {
	switch {
	case e.Month != 0:
		return periodOrder{year: e.Year, granularity: 0, position: e.Month}
	case e.Quarter != 0:
		return periodOrder{year: e.Year, granularity: 1, position: e.Quarter}
	default:
		return periodOrder{year: e.Year, granularity: 2}
	}
}

func (o periodOrder) compare(other periodOrder) int {
	if c := cmp.Compare(o.year, other.year); c != 0 {
		return c
	}
	if c := cmp.Compare(o.granularity, other.granularity); c != 0 {
		return c
	}
	return cmp.Compare(o.position, other.position)
}

func cloneOrEmpty[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
