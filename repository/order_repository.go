package repository

import (
	"context"

	"inventory-order-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines the read side of orders and order items. Every
// write to an order goes through InventoryStore.
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindAll(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error)
	FindItems(ctx context.Context, filter models.OrderItemFilter) ([]models.OrderItem, int64, error)
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new instance of GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

var orderOrdering = map[string]string{
	"created_at": "created_at",
	"status":     "status",
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Preload("Product")
}

// FindByID retrieves an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order

	if err := r.db.WithContext(ctx).
		Preload("OrderItems", preloadItems).
		Where("id = ?", id).
		Take(&order).Error; err != nil {
		return nil, translateError(err)
	}

	return &order, nil
}

// FindAll retrieves orders with pagination, newest first unless told otherwise
func (r *GormOrderRepository) FindAll(ctx context.Context, filter models.OrderFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	page, limit := normalizePage(filter.Page, filter.Limit)
	query := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	if err := paginate(query, page, limit).
		Preload("OrderItems", preloadItems).
		Order(orderClause(filter.Ordering, orderOrdering, "created_at DESC")).
		Find(&orders).Error; err != nil {
		return nil, 0, translateError(err)
	}

	return orders, total, nil
}

// FindItems lists order items filtered by order and/or product
func (r *GormOrderRepository) FindItems(ctx context.Context, filter models.OrderItemFilter) ([]models.OrderItem, int64, error) {
	var items []models.OrderItem
	var total int64

	page, limit := normalizePage(filter.Page, filter.Limit)
	query := r.db.WithContext(ctx).Model(&models.OrderItem{})
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	err := paginate(query, page, limit).
		Preload("Product").
		Order("order_id ASC, product_id ASC").
		Find(&items).Error
	return items, total, translateError(err)
}
