package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.OrganizationRepository
	repository.AdminRepository
	repository.EventRepository
	repository.VolunteerRepository
	repository.ParticipationRepository
	repository.ApplicationRepository
	repository.TaskSubmissionRepository
	repository.CertificateRepository
	repository.PreferencesRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                       db,
		OrganizationRepository:   NewOrganizationRepository(db),
		AdminRepository:          NewAdminRepository(db),
		EventRepository:          NewEventRepository(db),
		VolunteerRepository:      NewVolunteerRepository(db),
		ParticipationRepository:  NewParticipationRepository(db),
		ApplicationRepository:    NewApplicationRepository(db),
		TaskSubmissionRepository: NewTaskSubmissionRepository(db),
		CertificateRepository:    NewCertificateRepository(db),
		PreferencesRepository:    NewPreferencesRepository(db),
	}
}

// Open connects to Postgres and verifies the connection.
func Open(dsn string, maxOpen, maxIdle int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// notFound maps sql.ErrNoRows onto domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// membershipMatch is the exact-token predicate on the joined_ngo column.
const membershipMatch = `$1 = ANY(string_to_array(joined_ngo, '-'))`
