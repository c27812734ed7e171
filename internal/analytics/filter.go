package analytics

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/utils"
)

type DateRange string

const (
	DateRangeAll            DateRange = "all"
	DateRangeToday          DateRange = "today"
	DateRangeYesterday      DateRange = "yesterday"
	DateRangeWeek           DateRange = "1week"
	DateRangeMonth          DateRange = "1month"
	DateRangeThisMonth      DateRange = "thisMonth"
	DateRangeLastMonth      DateRange = "lastMonth"
	DateRangeCustom         DateRange = "custom"
	DateRangeSpecificMonths DateRange = "specific-months"
)

type VolunteerRange string

const (
	VolunteerRangeAll      VolunteerRange = "all"
	VolunteerRange1To50    VolunteerRange = "1-50"
	VolunteerRange51To100  VolunteerRange = "51-100"
	VolunteerRange101To200 VolunteerRange = "101-200"
	VolunteerRange201Plus  VolunteerRange = "201+"
)

// Any is the "no restriction" value for the event, status and gender fields.
const Any = "all"

// FilterSpec is the dashboard filter selection. All criteria are ANDed.
type FilterSpec struct {
	DateRange      DateRange      `json:"dateRange"`
	CustomFrom     string         `json:"customFrom,omitempty"` // YYYY-MM-DD
	CustomTo       string         `json:"customTo,omitempty"`   // YYYY-MM-DD
	Months         []string       `json:"months,omitempty"`     // YYYY-MM
	EventID        string         `json:"selectedEvent"`
	Status         string         `json:"status"`
	VolunteerRange VolunteerRange `json:"volunteerRange"`
	Gender         string         `json:"gender"`
}

// Filtered is the outcome of applying a FilterSpec.
type Filtered struct {
	Events       []domain.Event `json:"events"`
	VolunteerIDs []string       `json:"volunteerIds"`
}

// FilteredMetrics are the dashboard rates recomputed over a Filtered set.
type FilteredMetrics struct {
	EventCount        int          `json:"eventCount"`
	VolunteerCount    int          `json:"volunteerCount"`
	CompletionRate    int          `json:"completionRate"`
	ParticipationRate int          `json:"participationRate"`
	MonthlyVolunteers []TrendPoint `json:"monthlyVolunteers"`
}

func normalizeAny(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return Any
	}
	return v
}

// Validate checks the filter and fills defaults for empty fields.
func (f *FilterSpec) Validate() error {
	if f.DateRange == "" {
		f.DateRange = DateRangeAll
	}
	f.EventID = normalizeAny(f.EventID)
	f.Status = normalizeAny(f.Status)
	f.Gender = normalizeAny(f.Gender)
	if f.VolunteerRange == "" {
		f.VolunteerRange = VolunteerRangeAll
	}

	switch f.DateRange {
	case DateRangeAll, DateRangeToday, DateRangeYesterday, DateRangeWeek, DateRangeMonth,
		DateRangeThisMonth, DateRangeLastMonth:
	case DateRangeCustom:
		if f.CustomFrom == "" && f.CustomTo == "" {
			return domain.NewValidationError("dateRange", "custom range needs a start or end date")
		}
		for field, v := range map[string]string{"customFrom": f.CustomFrom, "customTo": f.CustomTo} {
			if v == "" {
				continue
			}
			if _, err := utils.ParseDate(v); err != nil {
				return domain.NewValidationError(field, "%v", err)
			}
		}
	case DateRangeSpecificMonths:
		if len(f.Months) == 0 {
			return domain.NewValidationError("months", "select at least one month")
		}
		for _, m := range f.Months {
			if _, err := time.Parse("2006-01", m); err != nil {
				return domain.NewValidationError("months", "invalid month %q, expected YYYY-MM", m)
			}
		}
	default:
		return domain.NewValidationError("dateRange", "unknown date range %q", f.DateRange)
	}

	if f.EventID != Any {
		if _, err := strconv.ParseInt(f.EventID, 10, 64); err != nil {
			return domain.NewValidationError("selectedEvent", "invalid event id %q", f.EventID)
		}
	}
	if f.Status != Any && !domain.EventStatus(strings.ToUpper(f.Status)).Valid() {
		return domain.NewValidationError("status", "unknown event status %q", f.Status)
	}
	if _, _, ok := f.VolunteerRange.bounds(); !ok {
		return domain.NewValidationError("volunteerRange", "unknown volunteer range %q", f.VolunteerRange)
	}
	return nil
}

// Bounds returns the inclusive date window for the range relative to now.
// Ranges without a window (all, specific-months) return nil bounds.
func (f FilterSpec) Bounds(now time.Time) (from, to *time.Time) {
	today := utils.StartOfDay(now)
	span := func(a, b time.Time) (*time.Time, *time.Time) { return &a, &b }

	switch f.DateRange {
	case DateRangeToday:
		return span(today, today)
	case DateRangeYesterday:
		y := today.AddDate(0, 0, -1)
		return span(y, y)
	case DateRangeWeek:
		return span(today.AddDate(0, 0, -7), today)
	case DateRangeMonth:
		return span(today.AddDate(0, -1, 0), today)
	case DateRangeThisMonth:
		return span(utils.StartOfMonth(today), utils.StartOfDay(utils.EndOfMonth(today)))
	case DateRangeLastMonth:
		prev := utils.StartOfMonth(today).AddDate(0, -1, 0)
		return span(prev, utils.StartOfDay(utils.EndOfMonth(prev)))
	case DateRangeCustom:
		if d, err := utils.ParseDate(f.CustomFrom); err == nil {
			t := d.Time(now.Location())
			from = &t
		}
		if d, err := utils.ParseDate(f.CustomTo); err == nil {
			t := d.Time(now.Location())
			to = &t
		}
		return from, to
	}
	return nil, nil
}

// Query returns the predicates that can be pushed into the event store.
// Month sets and volunteer ranges are applied afterwards by ApplyFilter.
func (f FilterSpec) Query(now time.Time) domain.EventQuery {
	var q domain.EventQuery
	q.From, q.To = f.Bounds(now)
	if id, err := strconv.ParseInt(f.EventID, 10, 64); err == nil {
		q.EventID = &id
	}
	if f.Status != "" && f.Status != Any {
		q.Status = domain.EventStatus(strings.ToUpper(f.Status))
	}
	return q
}

func (r VolunteerRange) bounds() (lo, hi int, ok bool) {
	switch r {
	case VolunteerRangeAll, "":
		return 0, -1, true
	case VolunteerRange1To50:
		return 1, 50, true
	case VolunteerRange51To100:
		return 51, 100, true
	case VolunteerRange101To200:
		return 101, 200, true
	case VolunteerRange201Plus:
		return 201, -1, true
	}
	return 0, 0, false
}

// Contains reports whether n volunteers falls inside the range.
func (r VolunteerRange) Contains(n int) bool {
	lo, hi, ok := r.bounds()
	if !ok {
		return false
	}
	return n >= lo && (hi < 0 || n <= hi)
}

// MatchesEvent reports whether e passes every event criterion of the spec.
func (f FilterSpec) MatchesEvent(e domain.Event, now time.Time) bool {
	q := f.Query(now)
	// Stored dates carry no time zone; compare the calendar day as written.
	day := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, now.Location())
	if q.From != nil && day.Before(*q.From) {
		return false
	}
	if q.To != nil && day.After(*q.To) {
		return false
	}
	if q.EventID != nil && e.ID != *q.EventID {
		return false
	}
	if q.Status != "" && e.Status != q.Status {
		return false
	}
	if f.DateRange == DateRangeSpecificMonths && !containsString(f.Months, e.MonthKey()) {
		return false
	}
	return f.VolunteerRange.Contains(e.VolunteerJoined)
}

// ApplyFilter selects the events and volunteers of ds matching spec. The
// inputs are not modified and the result only depends on its arguments.
// Events are ordered by date, newest first; same-date order is not defined.
func ApplyFilter(ds Dataset, spec FilterSpec, now time.Time) Filtered {
	events := make([]domain.Event, 0, len(ds.Events))
	for _, e := range ds.Events {
		if spec.MatchesEvent(e, now) {
			events = append(events, e)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.After(events[j].Date)
	})

	ids := []string{}
	for _, v := range OrgVolunteers(ds.Volunteers, ds.OrgCode) {
		if spec.Gender != "" && spec.Gender != Any && !v.IsGender(spec.Gender) {
			continue
		}
		ids = append(ids, v.UserID)
	}

	return Filtered{Events: events, VolunteerIDs: ids}
}

// Recompute derives the dashboard rates over the filtered sets, using only
// participation rows on the filtered events.
func Recompute(ds Dataset, f Filtered, now time.Time) FilteredMetrics {
	eventIDs := make(map[int64]bool, len(f.Events))
	for _, e := range f.Events {
		eventIDs[e.ID] = true
	}
	allowed := make(map[string]bool, len(f.VolunteerIDs))
	for _, id := range f.VolunteerIDs {
		allowed[id] = true
	}

	var scoped []domain.Participation
	for _, p := range ds.Participations {
		if eventIDs[p.EventID] && allowed[p.UserID] {
			scoped = append(scoped, p)
		}
	}

	return FilteredMetrics{
		EventCount:        len(f.Events),
		VolunteerCount:    len(f.VolunteerIDs),
		CompletionRate:    CompletionRate(countCompleted(f.Events), len(f.Events)),
		ParticipationRate: ParticipationRate(scoped, f.VolunteerIDs),
		MonthlyVolunteers: GrowthTrend(scoped, now, TrendMonths),
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
