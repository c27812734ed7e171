package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/logger"
	"ngo-admin-backend/internal/repository"
)

type eventService struct {
	eventRepo repository.EventRepository
	now       Clock
}

func NewEventService(eventRepo repository.EventRepository, now Clock) EventService {
	if now == nil {
		now = time.Now
	}
	return &eventService{eventRepo: eventRepo, now: now}
}

func (s *eventService) ListEvents(ctx context.Context, sess domain.Session) ([]domain.Event, error) {
	if sess.OrgCode == "" {
		return nil, domain.ErrForbidden
	}
	return s.eventRepo.ListByOrg(ctx, sess.OrgCode, domain.EventQuery{})
}

func validateEvent(e *domain.Event) error {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return domain.NewValidationError("title", "title is required")
	}
	if e.Date.IsZero() {
		return domain.NewValidationError("date", "date is required")
	}
	for field, v := range map[string]string{"start_time": e.StartTime, "end_time": e.EndTime} {
		if v == "" {
			continue
		}
		if _, ok := domain.ParseClock(v); !ok {
			return domain.NewValidationError(field, "time must be HH:MM or HH:MM:SS")
		}
	}
	if e.Capacity < 0 {
		return domain.NewValidationError("capacity", "capacity cannot be negative")
	}
	return nil
}

// CreateEvent stores a new event for the admin's NGO. Its status is derived
// from the date and later kept current by the sync job.
func (s *eventService) CreateEvent(ctx context.Context, sess domain.Session, e *domain.Event) error {
	if sess.OrgCode == "" {
		return domain.ErrForbidden
	}
	if err := validateEvent(e); err != nil {
		return err
	}
	e.OrgCode = sess.OrgCode
	e.Status = domain.DeriveEventStatus(*e, s.now())
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (s *eventService) UpdateEvent(ctx context.Context, sess domain.Session, e *domain.Event) error {
	existing, err := s.eventRepo.GetByID(ctx, e.ID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if existing.OrgCode != sess.OrgCode {
		return domain.ErrForbidden
	}
	if err := validateEvent(e); err != nil {
		return err
	}
	e.OrgCode = existing.OrgCode
	e.Status = domain.DeriveEventStatus(*e, s.now())
	if err := s.eventRepo.Update(ctx, e); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (s *eventService) SyncStatuses(ctx context.Context) (int, error) {
	events, err := s.eventRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active events: %w", err)
	}
	now := s.now()
	changed := 0
	for _, e := range events {
		status := domain.DeriveEventStatus(e, now)
		if status == e.Status {
			continue
		}
		if err := s.eventRepo.UpdateStatus(ctx, e.ID, status); err != nil {
			logger.Error("failed to update event status", "event_id", e.ID, "error", err)
			continue
		}
		logger.Debug("event status changed", "event_id", e.ID, "from", e.Status, "to", status)
		changed++
	}
	return changed, nil
}
