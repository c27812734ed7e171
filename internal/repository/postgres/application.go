package postgres

import (
	"context"
	"database/sql"
	"time"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/repository"
)

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationSelect = `SELECT a.id, a.user_id, a.ngo_code, a.event_id, COALESCE(e.title, ''), COALESCE(v.name, ''),
	COALESCE(v.email, ''), a.created_at
	FROM applications a
	LEFT JOIN volunteers v ON v.user_id = a.user_id
	LEFT JOIN events e ON e.id = a.event_id`

func scanApplication(s interface{ Scan(...any) error }, a *domain.Application) error {
	var eventID sql.NullInt64
	if err := s.Scan(&a.ID, &a.UserID, &a.OrgCode, &eventID, &a.EventTitle, &a.VolunteerName, &a.VolunteerEmail, &a.CreatedAt); err != nil {
		return err
	}
	if eventID.Valid {
		id := eventID.Int64
		a.EventID = &id
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id int64) (*domain.Application, error) {
	a := &domain.Application{}
	if err := scanApplication(r.db.QueryRowContext(ctx, applicationSelect+` WHERE a.id = $1`, id), a); err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *applicationRepository) ListPending(ctx context.Context, orgCode string) ([]domain.Application, error) {
	rows, err := r.db.QueryContext(ctx, applicationSelect+` WHERE a.ngo_code = $1 ORDER BY a.created_at`, orgCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		var a domain.Application
		if err := scanApplication(rows, &a); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// CountCreatedBetween counts applications received in [from, to), resolved
// ones included.
func (r *applicationRepository) CountCreatedBetween(ctx context.Context, orgCode string, from, to time.Time) (int, error) {
	query := `SELECT
	            (SELECT count(*) FROM applications WHERE ngo_code = $1 AND created_at >= $2 AND created_at < $3) +
	            (SELECT count(*) FROM application_status WHERE ngo_code = $1 AND applied_at >= $2 AND applied_at < $3)`
	var count int
	err := r.db.QueryRowContext(ctx, query, orgCode, from, to).Scan(&count)
	return count, err
}

func (r *applicationRepository) Resolve(ctx context.Context, app *domain.Application, st *domain.ApplicationStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Keyed by application id so a retried resolve overwrites instead of duplicating.
	statusQuery := `INSERT INTO application_status (application_id, user_id, ngo_code, event_id, result, reason, resolved_by, applied_at, resolved_at)
	                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	                ON CONFLICT (application_id) DO UPDATE SET result = EXCLUDED.result, reason = EXCLUDED.reason,
	                resolved_by = EXCLUDED.resolved_by, resolved_at = EXCLUDED.resolved_at`
	var eventID sql.NullInt64
	if st.EventID != nil {
		eventID = sql.NullInt64{Int64: *st.EventID, Valid: true}
	}
	if _, err := tx.ExecContext(ctx, statusQuery, st.ApplicationID, st.UserID, st.OrgCode, eventID, st.Approved,
		st.Reason, st.ResolvedBy, app.CreatedAt, st.ResolvedAt); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, app.ID); err != nil {
		return err
	}

	switch {
	case app.EventID != nil && st.Approved:
		err = upsertParticipation(ctx, tx, *app.EventID, app.UserID, domain.ParticipationApproved)
	case app.EventID != nil:
		err = upsertParticipation(ctx, tx, *app.EventID, app.UserID, domain.ParticipationRejected)
	case st.Approved:
		err = updateMembership(ctx, tx, app.UserID, func(m domain.Membership) domain.Membership {
			return m.Add(app.OrgCode)
		})
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}
