package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/repository"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, ngo_code, title, COALESCE(description, ''), event_date, COALESCE(start_time, ''), COALESCE(end_time, ''),
	COALESCE(location, ''), COALESCE(capacity, 0), COALESCE(status, ''), COALESCE(volunteer_joined, 0), created_at`

func scanEvent(s interface{ Scan(...any) error }, e *domain.Event) error {
	var status string
	if err := s.Scan(&e.ID, &e.OrgCode, &e.Title, &e.Description, &e.Date, &e.StartTime, &e.EndTime,
		&e.Location, &e.Capacity, &status, &e.VolunteerJoined, &e.CreatedOn); err != nil {
		return err
	}
	e.Status = domain.ParseEventStatus(status)
	return nil
}

func scanEvents(rows *sql.Rows) ([]domain.Event, error) {
	defer rows.Close()
	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `INSERT INTO events (ngo_code, title, description, event_date, start_time, end_time, location, capacity, status, volunteer_joined, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, e.OrgCode, e.Title, e.Description, e.Date, e.StartTime, e.EndTime,
		e.Location, e.Capacity, e.Status, time.Now()).Scan(&e.ID, &e.CreatedOn)
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	e := &domain.Event{}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	if err := scanEvent(r.db.QueryRowContext(ctx, query, id), e); err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `UPDATE events SET title = $1, description = $2, event_date = $3, start_time = $4, end_time = $5,
	          location = $6, capacity = $7, status = $8 WHERE id = $9 AND ngo_code = $10`
	res, err := r.db.ExecContext(ctx, query, e.Title, e.Description, e.Date, e.StartTime, e.EndTime,
		e.Location, e.Capacity, e.Status, e.ID, e.OrgCode)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id int64, status domain.EventStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// ListByOrg pushes the date window, event id and status predicates into the
// query. Ties on event_date come back in whatever order Postgres returns.
func (r *eventRepository) ListByOrg(ctx context.Context, orgCode string, q domain.EventQuery) ([]domain.Event, error) {
	where := []string{"ngo_code = $1"}
	args := []any{orgCode}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if q.From != nil {
		add("event_date >= $%d", *q.From)
	}
	if q.To != nil {
		add("event_date <= $%d", *q.To)
	}
	if q.EventID != nil {
		add("id = $%d", *q.EventID)
	}
	if q.Status != "" {
		add("status = $%d", q.Status)
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE ` + strings.Join(where, " AND ") + ` ORDER BY event_date DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

func (r *eventRepository) ListActive(ctx context.Context) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE COALESCE(status, '') <> $1 ORDER BY event_date`
	rows, err := r.db.QueryContext(ctx, query, domain.EventStatusCompleted)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
