package service

import (
	"context"
	"fmt"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/Renan360Brasil/melody-academy-control/internal/repository"
)

// SettingService handles the global key-value application settings.
type SettingService struct {
	settings *repository.SettingRepository
}

// NewSettingService creates a SettingService.
func NewSettingService(settings *repository.SettingRepository) *SettingService {
	return &SettingService{settings: settings}
}

// GetAll returns every setting.
func (s *SettingService) GetAll(ctx context.Context) ([]model.AppSetting, error) {
	return s.settings.GetAll(ctx)
}

// Update upserts the given settings and returns the full updated set.
func (s *SettingService) Update(ctx context.Context, req model.UpdateSettingsRequest) ([]model.AppSetting, error) {
	for key, value := range req.Settings {
		if err := s.settings.Upsert(ctx, key, value); err != nil {
			return nil, fmt.Errorf("upsert %s: %w", key, err)
		}
	}
	return s.settings.GetAll(ctx)
}
