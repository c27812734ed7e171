package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/logger"
	"ngo-admin-backend/internal/repository"
)

var orgCodePattern = regexp.MustCompile(`^[A-Za-z0-9_]{2,32}$`)

type organizationService struct {
	orgRepo repository.OrganizationRepository
}

func NewOrganizationService(orgRepo repository.OrganizationRepository) OrganizationService {
	return &organizationService{orgRepo: orgRepo}
}

func (s *organizationService) ListOrganizations(ctx context.Context, sess domain.Session) ([]domain.Organization, error) {
	if !sess.IsSuperAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.orgRepo.List(ctx)
}

func (s *organizationService) GetOrganization(ctx context.Context, sess domain.Session, code string) (*domain.Organization, error) {
	if !sess.IsSuperAdmin() && sess.OrgCode != code {
		return nil, domain.ErrForbidden
	}
	return s.orgRepo.GetByCode(ctx, code)
}

// validateOrg normalizes the editable fields. The code may not contain the
// membership separator, since it is stored inside joined_ngo.
func validateOrg(org *domain.Organization) error {
	org.Code = strings.TrimSpace(org.Code)
	org.Name = strings.TrimSpace(org.Name)
	org.ContactEmail = strings.TrimSpace(org.ContactEmail)
	if !orgCodePattern.MatchString(org.Code) {
		return domain.NewValidationError("code", "code must be 2-32 letters, digits or underscores")
	}
	if org.Name == "" {
		return domain.NewValidationError("name", "name is required")
	}
	if org.ContactEmail != "" {
		if err := ValidateEmail(org.ContactEmail); err != nil {
			return domain.NewValidationError("contact_email", "invalid email format")
		}
	}
	var cats []string
	for _, c := range org.Categories {
		if c = strings.TrimSpace(c); c != "" {
			cats = append(cats, c)
		}
	}
	org.Categories = cats
	return nil
}

func (s *organizationService) CreateOrganization(ctx context.Context, sess domain.Session, org *domain.Organization) error {
	if !sess.IsSuperAdmin() {
		return domain.ErrForbidden
	}
	if err := validateOrg(org); err != nil {
		return err
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}
	logger.Info("organization created", "ngo_code", org.Code, "admin_id", sess.AdminID)
	return nil
}

// UpdateOrganization lets super admins edit any NGO and admins edit their own.
func (s *organizationService) UpdateOrganization(ctx context.Context, sess domain.Session, org *domain.Organization) error {
	if !sess.IsSuperAdmin() && sess.OrgCode != org.Code {
		return domain.ErrForbidden
	}
	if err := validateOrg(org); err != nil {
		return err
	}
	if err := s.orgRepo.Update(ctx, org); err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}
	return nil
}
