package postgres

import (
	"context"
	"database/sql"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/repository"
)

type participationRepository struct {
	db *sql.DB
}

func NewParticipationRepository(db *sql.DB) repository.ParticipationRepository {
	return &participationRepository{db: db}
}

func scanParticipations(rows *sql.Rows) ([]domain.Participation, error) {
	defer rows.Close()
	var parts []domain.Participation
	for rows.Next() {
		var p domain.Participation
		var status string
		if err := rows.Scan(&p.EventID, &p.UserID, &status, &p.JoinedAt); err != nil {
			return nil, err
		}
		// legacy ONGOING rows are read as APPROVED here and nowhere else
		p.Status = domain.ParseParticipationStatus(status)
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

func (r *participationRepository) ListByOrg(ctx context.Context, orgCode string) ([]domain.Participation, error) {
	query := `SELECT eu.event_id, eu.user_id, COALESCE(eu.status, ''), eu.joined_at
	          FROM event_user eu JOIN events e ON e.id = eu.event_id
	          WHERE e.ngo_code = $1 ORDER BY eu.joined_at`
	rows, err := r.db.QueryContext(ctx, query, orgCode)
	if err != nil {
		return nil, err
	}
	return scanParticipations(rows)
}

func (r *participationRepository) ListByEvent(ctx context.Context, eventID int64) ([]domain.Participation, error) {
	query := `SELECT event_id, user_id, COALESCE(status, ''), joined_at FROM event_user WHERE event_id = $1 ORDER BY joined_at`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	return scanParticipations(rows)
}

// upsertParticipation sets the user's status on an event inside tx.
func upsertParticipation(ctx context.Context, tx *sql.Tx, eventID int64, userID string, status domain.ParticipationStatus) error {
	query := `INSERT INTO event_user (event_id, user_id, status, joined_at) VALUES ($1, $2, $3, now())
	          ON CONFLICT (event_id, user_id) DO UPDATE SET status = EXCLUDED.status`
	_, err := tx.ExecContext(ctx, query, eventID, userID, status)
	return err
}
