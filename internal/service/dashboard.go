package service

import (
	"context"
	"fmt"
	"time"

	"ngo-admin-backend/internal/analytics"
	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/logger"
	"ngo-admin-backend/internal/repository"
)

// FilterResult is the filtered dashboard view.
type FilterResult struct {
	Filter  analytics.FilterSpec      `json:"filter"`
	Events  []domain.Event            `json:"events"`
	Metrics analytics.FilteredMetrics `json:"metrics"`
}

type dashboardService struct {
	eventRepo repository.EventRepository
	volRepo   repository.VolunteerRepository
	partRepo  repository.ParticipationRepository
	appRepo   repository.ApplicationRepository
	now       Clock
}

func NewDashboardService(
	eventRepo repository.EventRepository,
	volRepo repository.VolunteerRepository,
	partRepo repository.ParticipationRepository,
	appRepo repository.ApplicationRepository,
	now Clock,
) DashboardService {
	if now == nil {
		now = time.Now
	}
	return &dashboardService{
		eventRepo: eventRepo,
		volRepo:   volRepo,
		partRepo:  partRepo,
		appRepo:   appRepo,
		now:       now,
	}
}

// load fetches the organization rows. Events are fetched with q so the
// date window and exact-match predicates run in the store.
func (s *dashboardService) load(ctx context.Context, code string, q domain.EventQuery) (analytics.Dataset, error) {
	ds := analytics.Dataset{OrgCode: code}
	var err error

	logger.DatabaseCall("ListByOrg", "events", "ngo_code", code)
	if ds.Events, err = s.eventRepo.ListByOrg(ctx, code, q); err != nil {
		return ds, fmt.Errorf("failed to list events: %w", err)
	}
	if ds.Volunteers, err = s.volRepo.ListByOrg(ctx, code); err != nil {
		return ds, fmt.Errorf("failed to list volunteers: %w", err)
	}
	if ds.Participations, err = s.partRepo.ListByOrg(ctx, code); err != nil {
		return ds, fmt.Errorf("failed to list participations: %w", err)
	}
	if ds.Applications, err = s.appRepo.ListPending(ctx, code); err != nil {
		return ds, fmt.Errorf("failed to list applications: %w", err)
	}
	logger.DatabaseResult("ListByOrg", int64(len(ds.Events)), nil, "volunteers", len(ds.Volunteers))
	return ds, nil
}

func (s *dashboardService) GetSnapshot(ctx context.Context, sess domain.Session) (*analytics.Snapshot, error) {
	if sess.OrgCode == "" {
		return nil, domain.ErrForbidden
	}
	ds, err := s.load(ctx, sess.OrgCode, domain.EventQuery{})
	if err != nil {
		return nil, err
	}
	snap := analytics.Aggregate(ds, s.now())
	return &snap, nil
}

func (s *dashboardService) ApplyFilter(ctx context.Context, sess domain.Session, spec analytics.FilterSpec) (*FilterResult, error) {
	if sess.OrgCode == "" {
		return nil, domain.ErrForbidden
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	now := s.now()
	ds, err := s.load(ctx, sess.OrgCode, spec.Query(now))
	if err != nil {
		return nil, err
	}
	f := analytics.ApplyFilter(ds, spec, now)
	return &FilterResult{
		Filter:  spec,
		Events:  f.Events,
		Metrics: analytics.Recompute(ds, f, now),
	}, nil
}
