package repository

import (
	"context"

	"inventory-order-service/models"

	"gorm.io/gorm"
)

type AlertRepository interface {
	SaveLog(ctx context.Context, alert *models.LowStockAlert) error
	GetLogs(ctx context.Context, filter models.AlertFilter) ([]models.LowStockAlert, int64, error)
}

type alertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) SaveLog(ctx context.Context, alert *models.LowStockAlert) error {
	return translateError(r.db.WithContext(ctx).Create(alert).Error)
}

func (r *alertRepository) GetLogs(ctx context.Context, filter models.AlertFilter) ([]models.LowStockAlert, int64, error) {
	var logs []models.LowStockAlert
	var total int64

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	query := r.db.WithContext(ctx).Model(&models.LowStockAlert{})

	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Channel != "" {
		query = query.Where("channel = ?", filter.Channel)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	err := paginate(query, page, pageSize).
		Order("created_at DESC").
		Find(&logs).Error

	return logs, total, translateError(err)
}
