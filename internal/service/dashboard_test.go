package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ngo-admin-backend/internal/analytics"
	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

type dashboardFixture struct {
	events *MockEventRepo
	vols   *MockVolunteerRepo
	parts  *MockParticipationRepo
	apps   *MockApplicationRepo
	svc    service.DashboardService
}

func newDashboardFixture() *dashboardFixture {
	f := &dashboardFixture{
		events: new(MockEventRepo),
		vols:   new(MockVolunteerRepo),
		parts:  new(MockParticipationRepo),
		apps:   new(MockApplicationRepo),
	}
	f.svc = service.NewDashboardService(f.events, f.vols, f.parts, f.apps, clock)
	return f
}

func (f *dashboardFixture) seed(ctx context.Context, q any) {
	events := make([]domain.Event, 0, 10)
	for i := 1; i <= 10; i++ {
		status := domain.EventStatusUpcoming
		if i <= 6 {
			status = domain.EventStatusCompleted
		}
		events = append(events, domain.Event{ID: int64(i), OrgCode: "NGO1", Date: day(2024, 6, i), Status: status, VolunteerJoined: 10})
	}
	f.events.On("ListByOrg", ctx, "NGO1", q).Return(events, nil)
	f.vols.On("ListByOrg", ctx, "NGO1").Return([]domain.Volunteer{
		{UserID: "u1", Gender: "male", Membership: domain.ParseMembership("NGO1-NGO2")},
		{UserID: "u2", Gender: "Female", Membership: domain.ParseMembership("NGO1")},
	}, nil)
	f.parts.On("ListByOrg", ctx, "NGO1").Return([]domain.Participation{
		{EventID: 1, UserID: "u1", Status: domain.ParticipationApproved, JoinedAt: day(2024, 6, 1)},
	}, nil)
	f.apps.On("ListPending", ctx, "NGO1").Return([]domain.Application{
		{ID: 1, CreatedAt: fixedNow.Add(-time.Hour)},
	}, nil)
}

func TestDashboardService_GetSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("Scenario A completion rate", func(t *testing.T) {
		f := newDashboardFixture()
		f.seed(ctx, domain.EventQuery{})

		snap, err := f.svc.GetSnapshot(ctx, adminSession)
		require.NoError(t, err)
		assert.Equal(t, 60, snap.CompletionRate)
		assert.Equal(t, 2, snap.TotalVolunteers)
		assert.Equal(t, 50, snap.ParticipationRate)
		assert.Equal(t, 1, snap.PendingApplications)
		assert.Equal(t, 100, snap.BeneficiaryReach)
	})

	t.Run("Store error is returned", func(t *testing.T) {
		f := newDashboardFixture()
		f.events.On("ListByOrg", ctx, "NGO1", domain.EventQuery{}).Return([]domain.Event(nil), errors.New("timeout"))

		_, err := f.svc.GetSnapshot(ctx, adminSession)
		assert.Error(t, err)
	})

	t.Run("No organization in session", func(t *testing.T) {
		f := newDashboardFixture()
		_, err := f.svc.GetSnapshot(ctx, domain.Session{AdminID: 1})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestDashboardService_ApplyFilter(t *testing.T) {
	ctx := context.Background()

	t.Run("Pushes status down and recomputes", func(t *testing.T) {
		f := newDashboardFixture()
		f.seed(ctx, mock.MatchedBy(func(q domain.EventQuery) bool {
			return q.Status == domain.EventStatusCompleted && q.EventID == nil && q.From == nil
		}))

		res, err := f.svc.ApplyFilter(ctx, adminSession, analytics.FilterSpec{Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, "all", string(res.Filter.DateRange))
		// The mocked store ignores predicates, so post filters still apply
		assert.Len(t, res.Events, 6)
		assert.Equal(t, int64(6), res.Events[0].ID)
		assert.Equal(t, 100, res.Metrics.CompletionRate)
	})

	t.Run("Invalid filter never reaches the store", func(t *testing.T) {
		f := newDashboardFixture()
		_, err := f.svc.ApplyFilter(ctx, adminSession, analytics.FilterSpec{DateRange: "fortnight"})
		assert.True(t, domain.IsValidation(err))
		f.events.AssertNotCalled(t, "ListByOrg", mock.Anything, mock.Anything, mock.Anything)
	})
}
