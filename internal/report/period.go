package report

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/utils"
)

type PeriodType string

const (
	PeriodSingle   PeriodType = "single"
	PeriodMultiple PeriodType = "multiple"
	PeriodAnnual   PeriodType = "annual"
)

// Period selects the events a report covers.
type Period struct {
	Type   PeriodType `json:"type"`
	Year   int        `json:"year"`
	Month  int        `json:"month,omitempty"`
	Months []int      `json:"months,omitempty"`
}

// Validate checks the period and sorts and dedupes Months.
func (p *Period) Validate() error {
	if p.Year < 1900 || p.Year > 9999 {
		return domain.NewValidationError("year", "invalid year %d", p.Year)
	}
	switch p.Type {
	case PeriodSingle:
		if p.Month < 1 || p.Month > 12 {
			return domain.NewValidationError("month", "month must be between 1 and 12")
		}
	case PeriodMultiple:
		if len(p.Months) == 0 {
			return domain.NewValidationError("months", "select at least one month")
		}
		seen := map[int]bool{}
		var months []int
		for _, m := range p.Months {
			if m < 1 || m > 12 {
				return domain.NewValidationError("months", "month must be between 1 and 12")
			}
			if !seen[m] {
				seen[m] = true
				months = append(months, m)
			}
		}
		sort.Ints(months)
		p.Months = months
	case PeriodAnnual:
	default:
		return domain.NewValidationError("type", "unknown report type %q", p.Type)
	}
	return nil
}

// months lists the calendar months covered, ascending.
func (p Period) months() []int {
	switch p.Type {
	case PeriodSingle:
		return []int{p.Month}
	case PeriodMultiple:
		return p.Months
	default:
		return []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	}
}

// Range returns the first and last day covered. Multiple-month periods may
// contain months outside the selection; use Contains for exact membership.
func (p Period) Range(loc *time.Location) (from, to time.Time) {
	ms := p.months()
	first := time.Date(p.Year, time.Month(ms[0]), 1, 0, 0, 0, 0, loc)
	last := time.Date(p.Year, time.Month(ms[len(ms)-1]), utils.DaysInMonth(p.Year, ms[len(ms)-1]), 0, 0, 0, 0, loc)
	return first, last
}

// Spans returns the covered time as half-open [from, to) intervals, with
// consecutive months merged.
func (p Period) Spans(loc *time.Location) [][2]time.Time {
	var spans [][2]time.Time
	for _, m := range p.months() {
		start := time.Date(p.Year, time.Month(m), 1, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 1, 0)
		if n := len(spans); n > 0 && spans[n-1][1].Equal(start) {
			spans[n-1][1] = end
			continue
		}
		spans = append(spans, [2]time.Time{start, end})
	}
	return spans
}

// Contains reports whether the calendar day of t lies in the period.
func (p Period) Contains(t time.Time) bool {
	if t.Year() != p.Year {
		return false
	}
	for _, m := range p.months() {
		if int(t.Month()) == m {
			return true
		}
	}
	return false
}

// Label is the human readable period, e.g. "June 2024" or "Jan, Mar 2024".
func (p Period) Label() string {
	switch p.Type {
	case PeriodSingle:
		return fmt.Sprintf("%s %d", time.Month(p.Month), p.Year)
	case PeriodMultiple:
		names := make([]string, 0, len(p.Months))
		for _, m := range p.Months {
			names = append(names, time.Month(m).String()[:3])
		}
		return fmt.Sprintf("%s %d", strings.Join(names, ", "), p.Year)
	default:
		return fmt.Sprintf("January - December %d", p.Year)
	}
}

// Title is the cover page heading.
func (p Period) Title() string {
	switch p.Type {
	case PeriodSingle:
		return "Monthly Volunteer Report"
	case PeriodMultiple:
		return "Multi-Month Volunteer Report"
	default:
		return "Annual Volunteer Report"
	}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func fileToken(s string) string {
	s = strings.Join(strings.Fields(s), "_")
	return strings.Trim(unsafeFileChars.ReplaceAllString(s, ""), "_")
}

// FileName builds the download name:
//
//	single:   {Org}_{Month}_Report_{Year}-{MM}.pdf
//	multiple: {Org}_{Mon-Mon}_Report_{Year}.pdf
//	annual:   {Org}_Annual_Report_{Year}.pdf
func FileName(orgName string, p Period) string {
	org := fileToken(orgName)
	if org == "" {
		org = "Organization"
	}
	switch p.Type {
	case PeriodSingle:
		return fmt.Sprintf("%s_%s_Report_%d-%02d.pdf", org, time.Month(p.Month), p.Year, p.Month)
	case PeriodMultiple:
		names := make([]string, 0, len(p.Months))
		for _, m := range p.Months {
			names = append(names, time.Month(m).String()[:3])
		}
		return fmt.Sprintf("%s_%s_Report_%d.pdf", org, strings.Join(names, "-"), p.Year)
	default:
		return fmt.Sprintf("%s_Annual_Report_%d.pdf", org, p.Year)
	}
}
