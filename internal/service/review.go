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

// ReviewResult reports a committed review action. Warning is set when the
// follow-up email could not be sent; the action itself is not undone.
type ReviewResult struct {
	ApplicationID int64  `json:"applicationId,omitempty"`
	UserID        string `json:"userId"`
	Outcome       string `json:"outcome"`
	EmailSent     bool   `json:"emailSent"`
	Warning       string `json:"warning,omitempty"`
}

type reviewService struct {
	appRepo  repository.ApplicationRepository
	volRepo  repository.VolunteerRepository
	orgRepo  repository.OrganizationRepository
	notifier NotificationService
	now      Clock
}

func NewReviewService(
	appRepo repository.ApplicationRepository,
	volRepo repository.VolunteerRepository,
	orgRepo repository.OrganizationRepository,
	notifier NotificationService,
	now Clock,
) ReviewService {
	if now == nil {
		now = time.Now
	}
	return &reviewService{
		appRepo:  appRepo,
		volRepo:  volRepo,
		orgRepo:  orgRepo,
		notifier: notifier,
		now:      now,
	}
}

func (s *reviewService) ListPending(ctx context.Context, sess domain.Session) ([]domain.Application, error) {
	if sess.OrgCode == "" {
		return nil, domain.ErrForbidden
	}
	apps, err := s.appRepo.ListPending(ctx, sess.OrgCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// pending loads the application and checks it belongs to the admin's NGO.
func (s *reviewService) pending(ctx context.Context, sess domain.Session, id int64) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if app.OrgCode != sess.OrgCode {
		return nil, domain.ErrForbidden
	}
	return app, nil
}

func (s *reviewService) resolve(ctx context.Context, sess domain.Session, app *domain.Application, approved bool, reason string) error {
	st := &domain.ApplicationStatus{
		ApplicationID: app.ID,
		UserID:        app.UserID,
		OrgCode:       app.OrgCode,
		EventID:       app.EventID,
		Approved:      approved,
		Reason:        reason,
		ResolvedBy:    sess.AdminID,
		ResolvedAt:    s.now(),
	}
	if err := s.appRepo.Resolve(ctx, app, st); err != nil {
		return fmt.Errorf("failed to resolve application: %w", err)
	}
	return nil
}

func (s *reviewService) Accept(ctx context.Context, sess domain.Session, applicationID int64) (*ReviewResult, error) {
	logger.EnterMethod("ReviewService.Accept", "application_id", applicationID)
	app, err := s.pending(ctx, sess, applicationID)
	if err != nil {
		logger.ExitMethodWithError("ReviewService.Accept", err)
		return nil, err
	}
	if err := s.resolve(ctx, sess, app, true, ""); err != nil {
		logger.ExitMethodWithError("ReviewService.Accept", err)
		return nil, err
	}
	logger.ExitMethod("ReviewService.Accept", "user_id", app.UserID, "kind", app.Kind())
	return &ReviewResult{ApplicationID: app.ID, UserID: app.UserID, Outcome: "accepted"}, nil
}

func (s *reviewService) Reject(ctx context.Context, sess domain.Session, applicationID int64, reason string) (*ReviewResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "a rejection reason is required")
	}

	logger.EnterMethod("ReviewService.Reject", "application_id", applicationID)
	app, err := s.pending(ctx, sess, applicationID)
	if err != nil {
		logger.ExitMethodWithError("ReviewService.Reject", err)
		return nil, err
	}
	if err := s.resolve(ctx, sess, app, false, reason); err != nil {
		logger.ExitMethodWithError("ReviewService.Reject", err)
		return nil, err
	}

	res := &ReviewResult{ApplicationID: app.ID, UserID: app.UserID, Outcome: "rejected"}
	kind := NoticeOrgRejection
	if app.Kind() == domain.ApplicationKindEvent {
		kind = NoticeEventRejection
	}
	s.notify(ctx, res, kind, Notice{
		RecipientEmail: app.VolunteerEmail,
		VolunteerName:  app.VolunteerName,
		Reason:         reason,
		NGOName:        s.orgName(ctx, app.OrgCode),
		EventTitle:     app.EventTitle,
	})
	logger.ExitMethod("ReviewService.Reject", "user_id", app.UserID, "email_sent", res.EmailSent)
	return res, nil
}

func (s *reviewService) RemoveVolunteer(ctx context.Context, sess domain.Session, userID, reason string) (*ReviewResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "a removal reason is required")
	}
	if sess.OrgCode == "" {
		return nil, domain.ErrForbidden
	}

	vol, err := s.volRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer: %w", err)
	}
	if !vol.Membership.Contains(sess.OrgCode) {
		return nil, domain.ErrNotFound
	}
	if err := s.volRepo.RemoveMembership(ctx, userID, sess.OrgCode); err != nil {
		return nil, fmt.Errorf("failed to remove volunteer: %w", err)
	}

	res := &ReviewResult{UserID: userID, Outcome: "removed"}
	s.notify(ctx, res, NoticeRemoval, Notice{
		RecipientEmail: vol.Email,
		VolunteerName:  vol.Name,
		Reason:         reason,
		NGOName:        s.orgName(ctx, sess.OrgCode),
	})
	return res, nil
}

// notify sends the email after the change has been committed. Failures only
// become a warning on the result.
func (s *reviewService) notify(ctx context.Context, res *ReviewResult, kind NoticeKind, n Notice) {
	if _, err := s.notifier.Send(ctx, kind, n); err != nil {
		logger.Warn("review email not sent", "kind", kind, "user_id", res.UserID, "error", err)
		res.Warning = fmt.Sprintf("%s completed but the email could not be sent: %v", res.Outcome, err)
		return
	}
	res.EmailSent = true
}

func (s *reviewService) orgName(ctx context.Context, code string) string {
	org, err := s.orgRepo.GetByCode(ctx, code)
	if err != nil || org.Name == "" {
		return code
	}
	return org.Name
}
