package domain

import (
	"strings"
	"time"
)

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "UPCOMING"
	EventStatusOngoing   EventStatus = "ONGOING"
	EventStatusCompleted EventStatus = "COMPLETED"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusUpcoming, EventStatusOngoing, EventStatusCompleted:
		return true
	}
	return false
}

// ParseEventStatus normalizes a stored status value. Unknown values map to "".
func ParseEventStatus(raw string) EventStatus {
	s := EventStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if s.Valid() {
		return s
	}
	return ""
}

type Event struct {
	ID              int64       `json:"id"`
	OrgCode         string      `json:"ngo_code"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Date            time.Time   `json:"date"`
	StartTime       string      `json:"start_time"` // HH:MM
	EndTime         string      `json:"end_time"`   // HH:MM
	Location        string      `json:"location"`
	Capacity        int         `json:"capacity"`
	Status          EventStatus `json:"status"`
	VolunteerJoined int         `json:"volunteer_joined"`
	CreatedOn       time.Time   `json:"created_on"`
}

// MonthKey returns the event date truncated to YYYY-MM.
func (e Event) MonthKey() string {
	return e.Date.Format("2006-01")
}

// DeriveEventStatus computes the lifecycle status from the event's date and
// times. It is only used by the status sync job; readers use the stored status.
func DeriveEventStatus(e Event, now time.Time) EventStatus {
	loc := now.Location()
	day := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, loc)

	start := day
	if t, ok := ParseClock(e.StartTime); ok {
		start = day.Add(t)
	}
	end := day.AddDate(0, 0, 1)
	if t, ok := ParseClock(e.EndTime); ok {
		end = day.Add(t)
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}
	}

	switch {
	case now.Before(start):
		return EventStatusUpcoming
	case now.Before(end):
		return EventStatusOngoing
	default:
		return EventStatusCompleted
	}
}

// ParseClock reads an HH:MM or HH:MM:SS time of day as an offset from midnight.
func ParseClock(hhmm string) (time.Duration, bool) {
	hhmm = strings.TrimSpace(hhmm)
	if hhmm == "" {
		return 0, false
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, hhmm); err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, true
		}
	}
	return 0, false
}

// EventQuery holds the predicates pushed down into the event store. Nil or
// empty fields do not filter.
type EventQuery struct {
	From    *time.Time
	To      *time.Time
	EventID *int64
	Status  EventStatus
}
