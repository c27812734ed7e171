// Package analytics derives dashboard metrics from rows already fetched from
// the data store. Nothing here performs I/O.
package analytics

import (
	"time"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/utils"
)

// TrendMonths is the number of calendar months in the growth trend, ending
// with the current month.
const TrendMonths = 5

// forecastWeight scales the trailing daily average onto today's count.
const forecastWeight = 0.3

// Dataset is the raw data for one organization.
type Dataset struct {
	OrgCode        string
	Events         []domain.Event
	Volunteers     []domain.Volunteer
	Participations []domain.Participation
	Applications   []domain.Application
}

type GenderBreakdown struct {
	Male             int `json:"male"`
	Female           int `json:"female"`
	MalePercentage   int `json:"malePercentage"`
	FemalePercentage int `json:"femalePercentage"`
}

type TrendPoint struct {
	Month string `json:"month"` // YYYY-MM
	Label string `json:"label"`
	Count int    `json:"count"`
}

type Forecast struct {
	Today     int `json:"today"`
	AvgPerDay int `json:"avgPerDay"`
	Predicted int `json:"predicted"`
}

type Snapshot struct {
	OrgCode             string          `json:"ngoCode"`
	TotalVolunteers     int             `json:"totalVolunteers"`
	PendingApplications int             `json:"pendingApplications"`
	TotalEvents         int             `json:"totalEvents"`
	CompletedEvents     int             `json:"completedEvents"`
	CompletionRate      int             `json:"completionRate"`
	ParticipationRate   int             `json:"participationRate"`
	ActiveEvents        int             `json:"activeEvents"`
	BeneficiaryReach    int             `json:"beneficiaryReach"`
	Gender              GenderBreakdown `json:"gender"`
	GrowthTrend         []TrendPoint    `json:"growthTrend"`
	Forecast            Forecast        `json:"forecast"`
}

// Aggregate computes the dashboard snapshot for ds.OrgCode.
func Aggregate(ds Dataset, now time.Time) Snapshot {
	members := OrgVolunteers(ds.Volunteers, ds.OrgCode)
	ids := volunteerIDs(members)
	completed := countCompleted(ds.Events)

	return Snapshot{
		OrgCode:             ds.OrgCode,
		TotalVolunteers:     len(members),
		PendingApplications: len(ds.Applications),
		TotalEvents:         len(ds.Events),
		CompletedEvents:     completed,
		CompletionRate:      CompletionRate(completed, len(ds.Events)),
		ParticipationRate:   ParticipationRate(ds.Participations, ids),
		ActiveEvents:        countActive(ds.Events),
		BeneficiaryReach:    beneficiaryReach(ds.Events),
		Gender:              Gender(members),
		GrowthTrend:         GrowthTrend(ds.Participations, now, TrendMonths),
		Forecast:            ForecastApplications(ds.Applications, now),
	}
}

// OrgVolunteers returns the registration rows whose membership contains code.
func OrgVolunteers(vols []domain.Volunteer, code string) []domain.Volunteer {
	var out []domain.Volunteer
	for _, v := range vols {
		if v.Membership.Contains(code) {
			out = append(out, v)
		}
	}
	return out
}

// CompletionRate is round(100*completed/total), 0 when there are no events.
func CompletionRate(completed, total int) int {
	return utils.Percent(completed, total)
}

// ParticipationRate is the share of volunteers with at least one
// participation row. Participants outside volunteerIDs are ignored.
func ParticipationRate(parts []domain.Participation, volunteerIDs []string) int {
	if len(volunteerIDs) == 0 {
		return 0
	}
	allowed := make(map[string]bool, len(volunteerIDs))
	for _, id := range volunteerIDs {
		allowed[id] = true
	}
	seen := make(map[string]bool)
	for _, p := range parts {
		if allowed[p.UserID] {
			seen[p.UserID] = true
		}
	}
	return utils.Percent(len(seen), len(allowed))
}

// Gender counts volunteers by gender. Percentages are rounded independently
// and may not add up to 100.
func Gender(vols []domain.Volunteer) GenderBreakdown {
	var g GenderBreakdown
	for _, v := range vols {
		switch {
		case v.IsGender("male"):
			g.Male++
		case v.IsGender("female"):
			g.Female++
		}
	}
	g.MalePercentage = utils.Percent(g.Male, len(vols))
	g.FemalePercentage = utils.Percent(g.Female, len(vols))
	return g
}

// GrowthTrend returns one point per month, oldest first, ending with now's
// month. Each point counts all participation rows joined on or before the
// end of that month.
func GrowthTrend(parts []domain.Participation, now time.Time, months int) []TrendPoint {
	points := make([]TrendPoint, 0, months)
	first := utils.StartOfMonth(now).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		month := first.AddDate(0, i, 0)
		end := utils.EndOfMonth(month)
		count := 0
		for _, p := range parts {
			if !p.JoinedAt.After(end) {
				count++
			}
		}
		points = append(points, TrendPoint{
			Month: month.Format("2006-01"),
			Label: month.Format("Jan"),
			Count: count,
		})
	}
	return points
}

// ForecastApplications predicts today's application total from the
// applications created today and over the trailing seven days.
func ForecastApplications(apps []domain.Application, now time.Time) Forecast {
	today := utils.StartOfDay(now)
	weekAgo := now.AddDate(0, 0, -7)

	var todayCount, weekCount int
	for _, a := range apps {
		if !a.CreatedAt.Before(today) && !a.CreatedAt.After(now) {
			todayCount++
		}
		if a.CreatedAt.After(weekAgo) && !a.CreatedAt.After(now) {
			weekCount++
		}
	}

	avg := utils.RoundHalfUp(float64(weekCount) / 7)
	return Forecast{
		Today:     todayCount,
		AvgPerDay: avg,
		Predicted: ForecastCount(todayCount, avg),
	}
}

// ForecastCount is today + round(0.3*avgPerDay).
func ForecastCount(today, avgPerDay int) int {
	return today + utils.RoundHalfUp(forecastWeight*float64(avgPerDay))
}

func countCompleted(events []domain.Event) int {
	n := 0
	for _, e := range events {
		if e.Status == domain.EventStatusCompleted {
			n++
		}
	}
	return n
}

func countActive(events []domain.Event) int {
	n := 0
	for _, e := range events {
		if e.Status == domain.EventStatusUpcoming || e.Status == domain.EventStatusOngoing {
			n++
		}
	}
	return n
}

func beneficiaryReach(events []domain.Event) int {
	n := 0
	for _, e := range events {
		n += e.VolunteerJoined
	}
	return n
}

func volunteerIDs(vols []domain.Volunteer) []string {
	ids := make([]string, 0, len(vols))
	for _, v := range vols {
		ids = append(ids, v.UserID)
	}
	return ids
}
