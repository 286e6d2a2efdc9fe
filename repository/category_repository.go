package repository

import (
	"context"

	"inventory-order-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindAll(ctx context.Context, filter models.CatalogFilter) ([]models.Category, int64, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

var categoryOrdering = map[string]string{
	"name":       "name",
	"created_at": "created_at",
}

func (r *GormCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return translateError(r.db.WithContext(ctx).Create(category).Error)
}

func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&category).Error; err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

// FindAll lists categories, searching on name.
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter models.CatalogFilter) ([]models.Category, int64, error) {
	var categories []models.Category
	var total int64

	page, limit := normalizePage(filter.Page, filter.Limit)
	query := r.db.WithContext(ctx).Model(&models.Category{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", likePattern(filter.Search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	err := paginate(query, page, limit).
		Order(orderClause(filter.Ordering, categoryOrdering, "name ASC")).
		Find(&categories).Error
	return categories, total, translateError(err)
}

func (r *GormCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	res := r.db.WithContext(ctx).Model(category).Select("name").Updates(category)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category. Categories that still have products are refused
// by the foreign key and reported as ErrForeignKey.
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
