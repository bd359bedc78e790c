package service

import (
	"context"

	"dockpass/internal/domain"
	"dockpass/internal/port"
)

// StatsService provides the floor dashboard aggregates.
type StatsService interface {
	Dashboard(ctx context.Context) (*domain.DashboardCounts, error)
}

type statsService struct {
	statsRepo port.StatsRepository
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(statsRepo port.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) Dashboard(ctx context.Context) (*domain.DashboardCounts, error) {
	return s.statsRepo.DashboardCounts(ctx)
}
