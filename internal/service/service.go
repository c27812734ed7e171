package service

import (
	"context"
	"time"

	"ngo-admin-backend/internal/analytics"
	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/report"
)

type DashboardService interface {
	GetSnapshot(ctx context.Context, sess domain.Session) (*analytics.Snapshot, error)
	ApplyFilter(ctx context.Context, sess domain.Session, spec analytics.FilterSpec) (*FilterResult, error)
}

type ReportService interface {
	// Generate renders the report for the period. It returns
	// domain.ErrNoEvents without rendering anything when the period is empty.
	Generate(ctx context.Context, sess domain.Session, period report.Period) (*GeneratedReport, error)
	// Archive generates the report and stores it, returning the stored name.
	Archive(ctx context.Context, sess domain.Session, period report.Period) (string, error)
}

type ReviewService interface {
	ListPending(ctx context.Context, sess domain.Session) ([]domain.Application, error)
	Accept(ctx context.Context, sess domain.Session, applicationID int64) (*ReviewResult, error)
	Reject(ctx context.Context, sess domain.Session, applicationID int64, reason string) (*ReviewResult, error)
	RemoveVolunteer(ctx context.Context, sess domain.Session, userID, reason string) (*ReviewResult, error)
}

type NotificationService interface {
	Send(ctx context.Context, kind NoticeKind, notice Notice) (*Delivery, error)
}

type OrganizationService interface {
	ListOrganizations(ctx context.Context, sess domain.Session) ([]domain.Organization, error)
	GetOrganization(ctx context.Context, sess domain.Session, code string) (*domain.Organization, error)
	CreateOrganization(ctx context.Context, sess domain.Session, org *domain.Organization) error
	UpdateOrganization(ctx context.Context, sess domain.Session, org *domain.Organization) error
}

type EventService interface {
	ListEvents(ctx context.Context, sess domain.Session) ([]domain.Event, error)
	CreateEvent(ctx context.Context, sess domain.Session, event *domain.Event) error
	UpdateEvent(ctx context.Context, sess domain.Session, event *domain.Event) error
	// SyncStatuses writes the date-derived status back to every event that
	// is not yet completed and returns the number of changed events.
	SyncStatuses(ctx context.Context) (int, error)
}

type PreferencesService interface {
	GetPreferences(ctx context.Context, sess domain.Session) (*domain.Preferences, error)
	SavePreferences(ctx context.Context, sess domain.Session, prefs *domain.Preferences) (*domain.Preferences, error)
}

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time
