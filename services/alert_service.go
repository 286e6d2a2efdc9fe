package services

import (
	"context"

	"inventory-order-service/models"
	"inventory-order-service/repository"
)

type AlertService interface {
	ListAlerts(ctx context.Context, filter models.AlertFilter) (*models.Page[models.LowStockAlert], error)
}

type alertService struct {
	repo repository.AlertRepository
}

func NewAlertService(repo repository.AlertRepository) AlertService {
	return &alertService{repo: repo}
}

func (s *alertService) ListAlerts(ctx context.Context, filter models.AlertFilter) (*models.Page[models.LowStockAlert], error) {
	alerts, total, err := s.repo.GetLogs(ctx, filter)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return models.NewPage(alerts, filter.Page, filter.PageSize, total), nil
}
