// Package format renders numbers and reporting periods for the dashboard.
//
// Period precedence matches edit identity: a month wins over a quarter when
// both are set, and CreatePeriodKey is the same key used to deduplicate edits.
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"qualitydesk/pkg/domain"
)

var compactUnits = []struct {
	threshold float64
	suffix    string
}{
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatNumber renders n compactly: 1500 -> "1.5K", -2300000 -> "-2.3M".
// Values under one thousand keep up to one decimal ("999", "12.5").
func FormatNumber(n float64) string {
	abs := math.Abs(n)
	for _, u := range compactUnits {
		if abs >= u.threshold {
			return strconv.FormatFloat(n/u.threshold, 'f', 1, 64) + u.suffix
		}
	}
	if n == math.Trunc(n) {
		return strconv.FormatFloat(n, 'f', 0, 64)
	}
	return strconv.FormatFloat(n, 'f', 1, 64)
}

// Formatter renders locale-grouped numbers.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter returns a Formatter for tag.
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag)}
}

var defaultFormatter = NewFormatter(language.English)

// FormatNumberFull renders n with the locale's digit grouping and up to two
// fraction digits.
func (f *Formatter) FormatNumberFull(n float64) string {
	return f.printer.Sprint(number.Decimal(n, number.MaxFractionDigits(2)))
}

// FormatNumberFull renders n grouped for English: 1234567.5 -> "1,234,567.5".
func FormatNumberFull(n float64) string {
	return defaultFormatter.FormatNumberFull(n)
}

var quarterMonths = map[int]string{
	1: "Jan–Mar",
	2: "Apr–Jun",
	3: "Jul–Sep",
	4: "Oct–Dec",
}

// FormatPeriodLabel renders a short label: "Jan 2020", "Q1 2020", "2020".
func FormatPeriodLabel(year, month, quarter int) string {
	switch {
	case month != 0:
		if validMonth(month) {
			return fmt.Sprintf("%s %d", time.Month(month).String()[:3], year)
		}
		return fmt.Sprintf("M%02d %d", month, year)
	case quarter != 0:
		return fmt.Sprintf("Q%d %d", quarter, year)
	default:
		return strconv.Itoa(year)
	}
}

// FormatPeriodFullLabel renders a long label: "January 2020",
// "Q1 (Jan–Mar) 2020", "Year 2020".
func FormatPeriodFullLabel(year, month, quarter int) string {
	switch {
	case month != 0:
		if validMonth(month) {
			return fmt.Sprintf("%s %d", time.Month(month), year)
		}
		return fmt.Sprintf("Month %d %d", month, year)
	case quarter != 0:
		if span, ok := quarterMonths[quarter]; ok {
			return fmt.Sprintf("Q%d (%s) %d", quarter, span, year)
		}
		return fmt.Sprintf("Q%d %d", quarter, year)
	default:
		return fmt.Sprintf("Year %d", year)
	}
}

// CreatePeriodKey returns the canonical period key shared with edit identity.
func CreatePeriodKey(year, month, quarter int) string {
	return domain.PeriodKey(year, month, quarter)
}

func validMonth(m int) bool {
	return m >= 1 && m <= 12
}
