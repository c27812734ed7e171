package postgres

import (
	"context"
	"database/sql"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/repository"

	"github.com/lib/pq"
)

type volunteerRepository struct {
	db *sql.DB
}

func NewVolunteerRepository(db *sql.DB) repository.VolunteerRepository {
	return &volunteerRepository{db: db}
}

const volunteerColumns = `user_id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(gender, ''), COALESCE(birthdate::text, ''),
	COALESCE(location, ''), COALESCE(joined_ngo, ''), created_at`

// scanVolunteer parses joined_ngo into a Membership set at read time.
func scanVolunteer(s interface{ Scan(...any) error }, v *domain.Volunteer) error {
	var joined string
	if err := s.Scan(&v.UserID, &v.Name, &v.Email, &v.Gender, &v.BirthDate, &v.Location, &joined, &v.CreatedOn); err != nil {
		return err
	}
	v.Membership = domain.ParseMembership(joined)
	return nil
}

func scanVolunteers(rows *sql.Rows) ([]domain.Volunteer, error) {
	defer rows.Close()
	var vols []domain.Volunteer
	for rows.Next() {
		var v domain.Volunteer
		if err := scanVolunteer(rows, &v); err != nil {
			return nil, err
		}
		vols = append(vols, v)
	}
	return vols, rows.Err()
}

func (r *volunteerRepository) ListByOrg(ctx context.Context, orgCode string) ([]domain.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE ` + membershipMatch + ` ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, orgCode)
	if err != nil {
		return nil, err
	}
	return scanVolunteers(rows)
}

func (r *volunteerRepository) GetByID(ctx context.Context, userID string) (*domain.Volunteer, error) {
	v := &domain.Volunteer{}
	query := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE user_id = $1`
	if err := scanVolunteer(r.db.QueryRowContext(ctx, query, userID), v); err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

func (r *volunteerRepository) ListByIDs(ctx context.Context, userIDs []string) ([]domain.Volunteer, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE user_id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	return scanVolunteers(rows)
}

func (r *volunteerRepository) RemoveMembership(ctx context.Context, userID, orgCode string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := updateMembership(ctx, tx, userID, func(m domain.Membership) domain.Membership {
		return m.Remove(orgCode)
	}); err != nil {
		return err
	}
	return tx.Commit()
}

// updateMembership rewrites joined_ngo under a row lock.
func updateMembership(ctx context.Context, tx *sql.Tx, userID string, change func(domain.Membership) domain.Membership) error {
	var joined string
	err := tx.QueryRowContext(ctx, `SELECT COALESCE(joined_ngo, '') FROM volunteers WHERE user_id = $1 FOR UPDATE`, userID).Scan(&joined)
	if err != nil {
		return notFound(err)
	}
	next := change(domain.ParseMembership(joined))
	_, err = tx.ExecContext(ctx, `UPDATE volunteers SET joined_ngo = $1 WHERE user_id = $2`, next.String(), userID)
	return err
}
