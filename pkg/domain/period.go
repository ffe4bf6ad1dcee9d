package domain

import "fmt"

// Period granularity tokens.
const (
	AnnualToken = "Y"
)

// PeriodToken encodes the granularity and position of a reporting period
// within its year: "M01".."M12" for months, "Q1".."Q4" for quarters, "Y" for
// annual values. Zero means "not set".
//
// When both month and quarter are set the month wins. This is a tie-break,
// not an error: callers never need to validate before encoding.
func PeriodToken(month, quarter int) string {
	switch {
	case month != 0:
		return fmt.Sprintf("M%02d", month)
	case quarter != 0:
		return fmt.Sprintf("Q%d", quarter)
	default:
		return AnnualToken
	}
}

// PeriodKey is the canonical identity string for a period, e.g. "2020-M01",
// "2020-Q1", "2020-Y". Both edit deduplication and display keys use it.
func PeriodKey(year, month, quarter int) string {
	return fmt.Sprintf("%d-%s", year, PeriodToken(month, quarter))
}
