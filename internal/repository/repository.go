package repository

import (
	"context"
	"time"

	"ngo-admin-backend/internal/domain"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByCode(ctx context.Context, code string) (*domain.Organization, error)
	List(ctx context.Context) ([]domain.Organization, error)
	Update(ctx context.Context, org *domain.Organization) error
	CountRegisteredVolunteers(ctx context.Context, code string) (int, error)
}

type AdminRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	UpdateStatus(ctx context.Context, id int64, status domain.EventStatus) error
	// ListByOrg returns the organization's events newest first.
	ListByOrg(ctx context.Context, orgCode string, q domain.EventQuery) ([]domain.Event, error)
	// ListActive returns events across all organizations that are not yet
	// completed.
	ListActive(ctx context.Context) ([]domain.Event, error)
}

type VolunteerRepository interface {
	ListByOrg(ctx context.Context, orgCode string) ([]domain.Volunteer, error)
	GetByID(ctx context.Context, userID string) (*domain.Volunteer, error)
	ListByIDs(ctx context.Context, userIDs []string) ([]domain.Volunteer, error)
	RemoveMembership(ctx context.Context, userID, orgCode string) error
}

type ParticipationRepository interface {
	ListByOrg(ctx context.Context, orgCode string) ([]domain.Participation, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.Participation, error)
}

type ApplicationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Application, error)
	ListPending(ctx context.Context, orgCode string) ([]domain.Application, error)
	CountCreatedBetween(ctx context.Context, orgCode string, from, to time.Time) (int, error)
	// Resolve records the decision, removes the pending application and
	// applies the membership or participation change in one transaction.
	Resolve(ctx context.Context, app *domain.Application, status *domain.ApplicationStatus) error
}

type TaskSubmissionRepository interface {
	ListByEvent(ctx context.Context, eventID int64) ([]domain.TaskSubmission, error)
}

type CertificateRepository interface {
	CountByEvent(ctx context.Context, eventID int64) (int, error)
}

type PreferencesRepository interface {
	Get(ctx context.Context, adminID int64) (*domain.Preferences, error)
	Save(ctx context.Context, adminID int64, prefs *domain.Preferences) error
}
