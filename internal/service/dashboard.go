package service

import (
	"myhouse/internal/connection"
	"myhouse/internal/models"
	"myhouse/internal/presence"
)

type StateReader interface {
	Current() models.HomeState
}

type JudgmentReader interface {
	Current() presence.Judgment
}

type StatusReader interface {
	Status() connection.Status
}

type DashboardService struct {
	store     StateReader
	estimator JudgmentReader
	manager   StatusReader
}

func NewDashboardService(store StateReader, estimator JudgmentReader, manager StatusReader) *DashboardService {
	return &DashboardService{store: store, estimator: estimator, manager: manager}
}

func (s *DashboardService) State() models.HomeState       { return s.store.Current() }
func (s *DashboardService) Presence() presence.Judgment   { return s.estimator.Current() }
func (s *DashboardService) Connection() connection.Status { return s.manager.Status() }
