package postgres

import (
	"context"
	"database/sql"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/repository"

	"github.com/lib/pq"
)

type taskSubmissionRepository struct {
	db *sql.DB
}

func NewTaskSubmissionRepository(db *sql.DB) repository.TaskSubmissionRepository {
	return &taskSubmissionRepository{db: db}
}

func (r *taskSubmissionRepository) ListByEvent(ctx context.Context, eventID int64) ([]domain.TaskSubmission, error) {
	query := `SELECT id, event_id, user_id, COALESCE(file_urls, '{}'), COALESCE(status, ''), submitted_at
	          FROM task_submissions WHERE event_id = $1 ORDER BY submitted_at`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.TaskSubmission
	for rows.Next() {
		var s domain.TaskSubmission
		var status string
		if err := rows.Scan(&s.ID, &s.EventID, &s.UserID, pq.Array(&s.FileURLs), &status, &s.SubmittedAt); err != nil {
			return nil, err
		}
		s.Status = domain.TaskStatus(status)
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

type certificateRepository struct {
	db *sql.DB
}

func NewCertificateRepository(db *sql.DB) repository.CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM certificates WHERE event_id = $1`, eventID).Scan(&count)
	return count, err
}
