package repository

import (
	"context"

	"inventory-order-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	FindAll(ctx context.Context, filter models.CatalogFilter) ([]models.Supplier, int64, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormSupplierRepository struct {
	db *gorm.DB
}

func NewGormSupplierRepository(db *gorm.DB) SupplierRepository {
	return &GormSupplierRepository{db: db}
}

var supplierOrdering = map[string]string{
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
}

func (r *GormSupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	return translateError(r.db.WithContext(ctx).Create(supplier).Error)
}

func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&supplier).Error; err != nil {
		return nil, translateError(err)
	}
	return &supplier, nil
}

// FindAll lists suppliers, searching on name and email.
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter models.CatalogFilter) ([]models.Supplier, int64, error) {
	var suppliers []models.Supplier
	var total int64

	page, limit := normalizePage(filter.Page, filter.Limit)
	query := r.db.WithContext(ctx).Model(&models.Supplier{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	err := paginate(query, page, limit).
		Order(orderClause(filter.Ordering, supplierOrdering, "name ASC")).
		Find(&suppliers).Error
	return suppliers, total, translateError(err)
}

func (r *GormSupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	res := r.db.WithContext(ctx).Model(supplier).
		Select("name", "phone", "email", "address").
		Updates(supplier)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a supplier; products keep existing with no supplier.
func (r *GormSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Supplier{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
