package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ngo-admin-backend/internal/config"
	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/report"
	"ngo-admin-backend/internal/service"
	"ngo-admin-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEvents struct {
	mock.Mock
	service.EventService
}

func (m *mockEvents) SyncStatuses(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockReports struct {
	mock.Mock
	service.ReportService
}

func (m *mockReports) Archive(ctx context.Context, sess domain.Session, p report.Period) (string, error) {
	args := m.Called(ctx, sess, p)
	return args.String(0), args.Error(1)
}

type mockOrgs struct {
	mock.Mock
}

func (m *mockOrgs) Create(ctx context.Context, org *domain.Organization) error { return nil }
func (m *mockOrgs) GetByCode(ctx context.Context, code string) (*domain.Organization, error) {
	return nil, domain.ErrNotFound
}
func (m *mockOrgs) List(ctx context.Context) ([]domain.Organization, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Organization), args.Error(1)
}
func (m *mockOrgs) Update(ctx context.Context, org *domain.Organization) error { return nil }
func (m *mockOrgs) CountRegisteredVolunteers(ctx context.Context, code string) (int, error) {
	return 0, nil
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, msg *service.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func TestPreviousMonth(t *testing.T) {
	assert.Equal(t, report.Period{Type: report.PeriodSingle, Year: 2023, Month: 12},
		PreviousMonth(time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)))
	assert.Equal(t, report.Period{Type: report.PeriodSingle, Year: 2024, Month: 2},
		PreviousMonth(time.Date(2024, 3, 31, 6, 0, 0, 0, time.UTC)))
}

func TestSyncEventStatuses_RecoversFromPanic(t *testing.T) {
	events := new(mockEvents)
	events.On("SyncStatuses", mock.Anything).Run(func(mock.Arguments) { panic("boom") }).Return(0, nil)

	jr := NewJobRunner(&Services{Events: events}, &config.Config{}, nil)
	assert.NotPanics(t, jr.SyncEventStatuses)
	events.AssertExpectations(t)
}

func TestArchiveMonthlyReports(t *testing.T) {
	archive, err := storage.NewLocalStorage("https://api.ngo.org", t.TempDir())
	require.NoError(t, err)

	orgs := new(mockOrgs)
	reports := new(mockReports)
	mailer := new(mockMailer)
	june := report.Period{Type: report.PeriodSingle, Year: 2024, Month: 6}

	orgs.On("List", mock.Anything).Return([]domain.Organization{
		{Code: "NGO1", Name: "Green Earth", ContactEmail: "hello@green.org"},
		{Code: "NGO2", Name: "Quiet"},
		{Code: "NGO3", Name: "Broken", ContactEmail: "x@broken.org"},
		{Code: "NGO4", Name: "No mail"},
	}, nil)
	reports.On("Archive", mock.Anything, domain.Session{OrgCode: "NGO1", Role: domain.AdminRoleSuperAdmin}, june).
		Return("NGO1/Green_Earth_June_Report_2024-06.pdf", nil)
	reports.On("Archive", mock.Anything, mock.MatchedBy(func(s domain.Session) bool { return s.OrgCode == "NGO2" }), june).
		Return("", domain.ErrNoEvents)
	reports.On("Archive", mock.Anything, mock.MatchedBy(func(s domain.Session) bool { return s.OrgCode == "NGO3" }), june).
		Return("", errors.New("disk full"))
	reports.On("Archive", mock.Anything, mock.MatchedBy(func(s domain.Session) bool { return s.OrgCode == "NGO4" }), june).
		Return("NGO4/No_mail_June_Report_2024-06.pdf", nil)
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(m *service.Message) bool {
		return m.To == "hello@green.org" &&
			strings.Contains(m.Text, "https://api.ngo.org/api/v1/reports/archive/NGO1/Green_Earth_June_Report_2024-06.pdf") &&
			strings.Contains(m.Subject, "June 2024")
	})).Return("<id@ngo>", nil).Once()

	now := func() time.Time { return time.Date(2024, 7, 1, 6, 0, 0, 0, time.UTC) }
	jr := NewJobRunner(&Services{Reports: reports, Orgs: orgs, Mailer: mailer, Archive: archive}, &config.Config{}, now)
	jr.ArchiveMonthlyReports()

	reports.AssertNumberOfCalls(t, "Archive", 4)
	mailer.AssertExpectations(t)
}
