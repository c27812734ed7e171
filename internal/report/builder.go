// Package report assembles per-period volunteer reports and renders them as
// paginated PDF documents.
package report

import (
	"sort"
	"strings"
	"time"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/utils"
)

// DefaultTopLocations is the number of locations listed when Input does not
// say otherwise.
const DefaultTopLocations = 5

const (
	AgeUnder18 = "Under 18"
	Age18To24  = "18-24"
	Age25To34  = "25-34"
	Age35To44  = "35-44"
	Age45To54  = "45-54"
	Age55Plus  = "55+"
	AgeUnknown = "Unknown"
)

// AgeGroups is the fixed bucket order used in every age table.
var AgeGroups = []string{AgeUnder18, Age18To24, Age25To34, Age35To44, Age45To54, Age55Plus, AgeUnknown}

// Input is everything fetched for one report.
type Input struct {
	Organization       domain.Organization
	Period             Period
	Events             []domain.Event
	Participations     map[int64][]domain.Participation
	Submissions        map[int64][]domain.TaskSubmission
	Certificates       map[int64]int
	Volunteers         map[string]domain.Volunteer
	NewApplications    int
	TotalOrgVolunteers int
	TopLocations       int
}

type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Demographics struct {
	Gender   []Bucket `json:"gender"`
	Age      []Bucket `json:"age"`
	Location []Bucket `json:"location"`
}

type EventMetrics struct {
	Signups           int    `json:"signups"`
	Approved          int    `json:"approved"`
	Pending           int    `json:"pending"`
	Rejected          int    `json:"rejected"`
	Attendance        int    `json:"attendance"`
	AttendanceRate    string `json:"attendanceRate"`
	ParticipationRate string `json:"participationRate"`
	Certificates      int    `json:"certificates"`
}

type EventDetail struct {
	Event        domain.Event `json:"event"`
	Metrics      EventMetrics `json:"metrics"`
	Demographics Demographics `json:"demographics"`
}

type Summary struct {
	TotalEvents          int `json:"totalEvents"`
	TotalSignups         int `json:"totalSignups"`
	UniqueApproved       int `json:"uniqueApproved"`
	UniqueAttended       int `json:"uniqueAttended"`
	NewApplications      int `json:"newApplications"`
	RegisteredVolunteers int `json:"registeredVolunteers"`
}

// Document is a fully computed report, ready to render.
type Document struct {
	OrgName      string        `json:"orgName"`
	Title        string        `json:"title"`
	PeriodLabel  string        `json:"periodLabel"`
	GeneratedAt  time.Time     `json:"generatedAt"`
	Summary      Summary       `json:"summary"`
	Demographics Demographics  `json:"demographics"`
	Events       []EventDetail `json:"events"`
}

// Build computes the report document. It returns domain.ErrNoEvents when no
// event falls in the period, in which case nothing must be rendered.
func Build(in Input, now time.Time) (*Document, error) {
	var events []domain.Event
	for _, e := range in.Events {
		if in.Period.Contains(e.Date) {
			events = append(events, e)
		}
	}
	if len(events) == 0 {
		return nil, domain.ErrNoEvents
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date.Equal(events[j].Date) {
			return events[i].ID < events[j].ID
		}
		return events[i].Date.Before(events[j].Date)
	})

	top := in.TopLocations
	if top <= 0 {
		top = DefaultTopLocations
	}

	doc := &Document{
		OrgName:     in.Organization.Name,
		Title:       in.Period.Title(),
		PeriodLabel: in.Period.Label(),
		GeneratedAt: now,
	}

	approvedAll := map[string]bool{}
	attendedAll := map[string]bool{}
	for _, e := range events {
		parts := in.Participations[e.ID]
		subs := in.Submissions[e.ID]

		m, approvedIDs := eventMetrics(parts, subs, in.TotalOrgVolunteers)
		m.Certificates = in.Certificates[e.ID]
		for _, id := range approvedIDs {
			approvedAll[id] = true
		}
		for id := range attendees(subs) {
			attendedAll[id] = true
		}

		doc.Summary.TotalSignups += m.Signups
		doc.Events = append(doc.Events, EventDetail{
			Event:        e,
			Metrics:      m,
			Demographics: demographics(profiles(in.Volunteers, approvedIDs), now.Year(), top),
		})
	}

	doc.Summary.TotalEvents = len(events)
	doc.Summary.UniqueApproved = len(approvedAll)
	doc.Summary.UniqueAttended = len(attendedAll)
	doc.Summary.NewApplications = in.NewApplications
	doc.Summary.RegisteredVolunteers = in.TotalOrgVolunteers
	doc.Demographics = demographics(profiles(in.Volunteers, sortedKeys(approvedAll)), now.Year(), top)

	return doc, nil
}

// eventMetrics computes the per-event counts. Approved rows include the
// legacy ONGOING value, which ingestion maps onto APPROVED.
func eventMetrics(parts []domain.Participation, subs []domain.TaskSubmission, orgVolunteers int) (EventMetrics, []string) {
	var m EventMetrics
	var approved []string
	seen := map[string]bool{}
	for _, p := range parts {
		m.Signups++
		switch p.Status {
		case domain.ParticipationApproved:
			m.Approved++
			if !seen[p.UserID] {
				seen[p.UserID] = true
				approved = append(approved, p.UserID)
			}
		case domain.ParticipationRejected:
			m.Rejected++
		default:
			m.Pending++
		}
	}
	m.Attendance = len(attendees(subs))
	m.AttendanceRate = AttendanceRate(m.Attendance, m.Approved)
	m.ParticipationRate = ParticipationRate(m.Approved, orgVolunteers)
	return m, approved
}

// AttendanceRate is attended/approved as a whole percentage, "0%" when
// nobody was approved.
func AttendanceRate(attended, approved int) string {
	return utils.PercentLabel(attended, approved)
}

// ParticipationRate is approved/org volunteers with one decimal, "N/A" when
// the organization has no volunteers.
func ParticipationRate(approved, orgVolunteers int) string {
	return utils.PercentLabelOneDecimal(approved, orgVolunteers, "N/A")
}

// attendees is the set of users with at least one submission, whatever its
// status.
func attendees(subs []domain.TaskSubmission) map[string]bool {
	ids := make(map[string]bool, len(subs))
	for _, s := range subs {
		ids[s.UserID] = true
	}
	return ids
}

func profiles(vols map[string]domain.Volunteer, ids []string) []domain.Volunteer {
	out := make([]domain.Volunteer, 0, len(ids))
	for _, id := range ids {
		if v, ok := vols[id]; ok {
			out = append(out, v)
		} else {
			out = append(out, domain.Volunteer{UserID: id})
		}
	}
	return out
}

// AgeGroup buckets a birthdate by calendar year difference only.
func AgeGroup(birthDate string, currentYear int) string {
	d, err := utils.ParseDate(birthDate)
	if err != nil {
		return AgeUnknown
	}
	age := currentYear - d.Year
	switch {
	case age < 0:
		return AgeUnknown
	case age < 18:
		return AgeUnder18
	case age <= 24:
		return Age18To24
	case age <= 34:
		return Age25To34
	case age <= 44:
		return Age35To44
	case age <= 54:
		return Age45To54
	default:
		return Age55Plus
	}
}

func genderLabel(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "male":
		return "Male"
	case "female":
		return "Female"
	case "":
		return "Not specified"
	default:
		return "Other"
	}
}

func demographics(vols []domain.Volunteer, currentYear, topN int) Demographics {
	gender := map[string]int{}
	age := map[string]int{}
	location := map[string]int{}
	for _, v := range vols {
		gender[genderLabel(v.Gender)]++
		age[AgeGroup(v.BirthDate, currentYear)]++
		loc := strings.TrimSpace(v.Location)
		if loc == "" {
			loc = "Unknown"
		}
		location[loc]++
	}

	var d Demographics
	for _, label := range []string{"Male", "Female", "Other", "Not specified"} {
		if n := gender[label]; n > 0 {
			d.Gender = append(d.Gender, Bucket{Label: label, Count: n})
		}
	}
	for _, label := range AgeGroups {
		d.Age = append(d.Age, Bucket{Label: label, Count: age[label]})
	}
	d.Location = topBuckets(location, topN)
	return d
}

// topBuckets returns the n largest buckets, ties broken by label.
func topBuckets(counts map[string]int, n int) []Bucket {
	buckets := make([]Bucket, 0, len(counts))
	for label, c := range counts {
		buckets = append(buckets, Bucket{Label: label, Count: c})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Label < buckets[j].Label
	})
	if len(buckets) > n {
		buckets = buckets[:n]
	}
	return buckets
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
