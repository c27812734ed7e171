package service_test

import (
	"context"
	"time"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockOrgRepo
type MockOrgRepo struct {
	mock.Mock
}

func (m *MockOrgRepo) Create(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}
func (m *MockOrgRepo) GetByCode(ctx context.Context, code string) (*domain.Organization, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}
func (m *MockOrgRepo) List(ctx context.Context) ([]domain.Organization, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Organization), args.Error(1)
}
func (m *MockOrgRepo) Update(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}
func (m *MockOrgRepo) CountRegisteredVolunteers(ctx context.Context, code string) (int, error) {
	args := m.Called(ctx, code)
	return args.Int(0), args.Error(1)
}

// MockEventRepo
type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) Create(ctx context.Context, e *domain.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}
func (m *MockEventRepo) Update(ctx context.Context, e *domain.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockEventRepo) UpdateStatus(ctx context.Context, id int64, status domain.EventStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockEventRepo) ListByOrg(ctx context.Context, code string, q domain.EventQuery) ([]domain.Event, error) {
	args := m.Called(ctx, code, q)
	return args.Get(0).([]domain.Event), args.Error(1)
}
func (m *MockEventRepo) ListActive(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Event), args.Error(1)
}

// MockVolunteerRepo
type MockVolunteerRepo struct {
	mock.Mock
}

func (m *MockVolunteerRepo) ListByOrg(ctx context.Context, code string) ([]domain.Volunteer, error) {
	args := m.Called(ctx, code)
	return args.Get(0).([]domain.Volunteer), args.Error(1)
}
func (m *MockVolunteerRepo) GetByID(ctx context.Context, userID string) (*domain.Volunteer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Volunteer), args.Error(1)
}
func (m *MockVolunteerRepo) ListByIDs(ctx context.Context, ids []string) ([]domain.Volunteer, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Volunteer), args.Error(1)
}
func (m *MockVolunteerRepo) RemoveMembership(ctx context.Context, userID, code string) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

// MockParticipationRepo
type MockParticipationRepo struct {
	mock.Mock
}

func (m *MockParticipationRepo) ListByOrg(ctx context.Context, code string) ([]domain.Participation, error) {
	args := m.Called(ctx, code)
	return args.Get(0).([]domain.Participation), args.Error(1)
}
func (m *MockParticipationRepo) ListByEvent(ctx context.Context, eventID int64) ([]domain.Participation, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.Participation), args.Error(1)
}

// MockApplicationRepo
type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) ListPending(ctx context.Context, code string) ([]domain.Application, error) {
	args := m.Called(ctx, code)
	return args.Get(0).([]domain.Application), args.Error(1)
}
func (m *MockApplicationRepo) CountCreatedBetween(ctx context.Context, code string, from, to time.Time) (int, error) {
	args := m.Called(ctx, code, from, to)
	return args.Int(0), args.Error(1)
}
func (m *MockApplicationRepo) Resolve(ctx context.Context, app *domain.Application, st *domain.ApplicationStatus) error {
	args := m.Called(ctx, app, st)
	return args.Error(0)
}

// MockSubmissionRepo
type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) ListByEvent(ctx context.Context, eventID int64) ([]domain.TaskSubmission, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.TaskSubmission), args.Error(1)
}

// MockCertificateRepo
type MockCertificateRepo struct {
	mock.Mock
}

func (m *MockCertificateRepo) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

// MockPrefRepo
type MockPrefRepo struct {
	mock.Mock
}

func (m *MockPrefRepo) Get(ctx context.Context, adminID int64) (*domain.Preferences, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Preferences), args.Error(1)
}
func (m *MockPrefRepo) Save(ctx context.Context, adminID int64, prefs *domain.Preferences) error {
	args := m.Called(ctx, adminID, prefs)
	return args.Error(0)
}

// MockMailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg *service.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, kind service.NoticeKind, n service.Notice) (*service.Delivery, error) {
	args := m.Called(ctx, kind, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Delivery), args.Error(1)
}
