package service

import (
	"context"
	"fmt"

	"ngo-admin-backend/internal/domain"
	"ngo-admin-backend/internal/repository"
)

type preferencesService struct {
	prefRepo repository.PreferencesRepository
}

func NewPreferencesService(prefRepo repository.PreferencesRepository) PreferencesService {
	return &preferencesService{prefRepo: prefRepo}
}

func (s *preferencesService) GetPreferences(ctx context.Context, sess domain.Session) (*domain.Preferences, error) {
	prefs, err := s.prefRepo.Get(ctx, sess.AdminID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	return prefs, nil
}

// SavePreferences stores the normalized card order and returns what was saved.
func (s *preferencesService) SavePreferences(ctx context.Context, sess domain.Session, prefs *domain.Preferences) (*domain.Preferences, error) {
	saved := &domain.Preferences{
		DashboardCardOrder: domain.NormalizeCardOrder(prefs.DashboardCardOrder),
		SidebarCollapsed:   prefs.SidebarCollapsed,
	}
	if err := s.prefRepo.Save(ctx, sess.AdminID, saved); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}
	return saved, nil
}
