package service

import (
	"context"
	"time"

	"github.com/Renan360Brasil/melody-academy-control/internal/model"
	"github.com/Renan360Brasil/melody-academy-control/internal/repository"
)

// DashboardService aggregates the home page statistics.
type DashboardService struct {
	dashboard *repository.DashboardRepository
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(dashboard *repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboard: dashboard}
}

// Stats returns the headline numbers as of now.
func (s *DashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	return s.dashboard.GetStats(ctx, time.Now())
}
