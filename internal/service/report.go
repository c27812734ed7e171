package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/logger"
	"ngo-admin-backend/internal/report"
	"ngo-admin-backend/internal/repository"
	"ngo-admin-backend/internal/storage"
)

// GeneratedReport is a rendered report ready for download.
type GeneratedReport struct {
	FileName string
	Content  []byte
	Document *report.Document
}

// ReportRepos groups the stores the report generator reads.
type ReportRepos struct {
	Orgs           repository.OrganizationRepository
	Events         repository.EventRepository
	Volunteers     repository.VolunteerRepository
	Participations repository.ParticipationRepository
	Applications   repository.ApplicationRepository
	Submissions    repository.TaskSubmissionRepository
	Certificates   repository.CertificateRepository
}

type reportService struct {
	repos        ReportRepos
	archive      storage.StorageInterface
	topLocations int
	now          Clock
}

func NewReportService(repos ReportRepos, archive storage.StorageInterface, topLocations int, now Clock) ReportService {
	if now == nil {
		now = time.Now
	}
	return &reportService{repos: repos, archive: archive, topLocations: topLocations, now: now}
}

func (s *reportService) Generate(ctx context.Context, sess domain.Session, period report.Period) (*GeneratedReport, error) {
	log := logger.WithService("ReportService")
	if sess.OrgCode == "" {
		return nil, domain.ErrForbidden
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	in, err := s.collect(ctx, sess.OrgCode, period, now.Location())
	if err != nil {
		return nil, err
	}

	doc, err := report.Build(*in, now)
	if err != nil {
		return nil, err
	}
	content, err := report.Render(doc)
	if err != nil {
		log.Error("report rendering failed", "ngo_code", sess.OrgCode, "error", err)
		return nil, err
	}

	name := report.FileName(in.Organization.Name, period)
	log.Info("report generated", "ngo_code", sess.OrgCode, "file", name, "events", len(doc.Events), "bytes", len(content))
	return &GeneratedReport{FileName: name, Content: content, Document: doc}, nil
}

// collect fetches everything the builder needs. Per-event rows are only
// fetched once at least one event is known to fall in the period.
func (s *reportService) collect(ctx context.Context, code string, period report.Period, loc *time.Location) (*report.Input, error) {
	org, err := s.repos.Orgs.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	from, to := period.Range(loc)
	all, err := s.repos.Events.ListByOrg(ctx, code, domain.EventQuery{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	var events []domain.Event
	for _, e := range all {
		if period.Contains(e.Date) {
			events = append(events, e)
		}
	}
	if len(events) == 0 {
		return nil, domain.ErrNoEvents
	}

	in := &report.Input{
		Organization:   *org,
		Period:         period,
		Events:         events,
		Participations: make(map[int64][]domain.Participation, len(events)),
		Submissions:    make(map[int64][]domain.TaskSubmission, len(events)),
		Certificates:   make(map[int64]int, len(events)),
		Volunteers:     map[string]domain.Volunteer{},
		TopLocations:   s.topLocations,
	}

	seen := map[string]bool{}
	var userIDs []string
	for _, e := range events {
		parts, err := s.repos.Participations.ListByEvent(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list participations for event %d: %w", e.ID, err)
		}
		in.Participations[e.ID] = parts
		for _, p := range parts {
			if p.Status == domain.ParticipationApproved && !seen[p.UserID] {
				seen[p.UserID] = true
				userIDs = append(userIDs, p.UserID)
			}
		}

		if in.Submissions[e.ID], err = s.repos.Submissions.ListByEvent(ctx, e.ID); err != nil {
			return nil, fmt.Errorf("failed to list submissions for event %d: %w", e.ID, err)
		}
		if in.Certificates[e.ID], err = s.repos.Certificates.CountByEvent(ctx, e.ID); err != nil {
			return nil, fmt.Errorf("failed to count certificates for event %d: %w", e.ID, err)
		}
	}

	vols, err := s.repos.Volunteers.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}
	for _, v := range vols {
		in.Volunteers[v.UserID] = v
	}

	for _, span := range period.Spans(loc) {
		n, err := s.repos.Applications.CountCreatedBetween(ctx, code, span[0], span[1])
		if err != nil {
			return nil, fmt.Errorf("failed to count applications: %w", err)
		}
		in.NewApplications += n
	}
	if in.TotalOrgVolunteers, err = s.repos.Orgs.CountRegisteredVolunteers(ctx, code); err != nil {
		return nil, fmt.Errorf("failed to count volunteers: %w", err)
	}
	return in, nil
}

func (s *reportService) Archive(ctx context.Context, sess domain.Session, period report.Period) (string, error) {
	rep, err := s.Generate(ctx, sess, period)
	if err != nil {
		return "", err
	}
	key := path.Join(sess.OrgCode, rep.FileName)
	if err := s.archive.SaveFile(ctx, key, bytes.NewReader(rep.Content)); err != nil {
		return "", fmt.Errorf("failed to archive report: %w", err)
	}
	return key, nil
}
