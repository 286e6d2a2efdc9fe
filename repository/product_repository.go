package repository

import (
	"context"

	"inventory-order-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository covers catalog reads and writes of products. It never
// writes current_stock after creation; stock changes go through InventoryStore.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindAll(ctx context.Context, filter models.ProductFilter) ([]models.Product, int64, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindMovements(ctx context.Context, productID uuid.UUID, page, limit int) ([]models.StockMovement, int64, error)
}

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

var productOrdering = map[string]string{
	"name":          "name",
	"current_stock": "current_stock",
	"price":         "price",
	"created_at":    "created_at",
}

func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return translateError(r.db.WithContext(ctx).Omit("Category", "Supplier").Create(product).Error)
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Supplier").
		Where("id = ?", id).
		Take(&product).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &product, nil
}

// FindAll lists products with the category, supplier, search and stock_lt
// filters applied.
func (r *GormProductRepository) FindAll(ctx context.Context, filter models.ProductFilter) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	page, limit := normalizePage(filter.Page, filter.Limit)
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("name ILIKE ? OR sku ILIKE ?", pattern, pattern)
	}
	if filter.StockLessThan != nil {
		query = query.Where("current_stock < ?", *filter.StockLessThan)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	err := paginate(query, page, limit).
		Preload("Category").
		Preload("Supplier").
		Order(orderClause(filter.Ordering, productOrdering, "name ASC")).
		Find(&products).Error
	return products, total, translateError(err)
}

// Update writes the catalog fields of product. current_stock is never part
// of the statement.
func (r *GormProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(product).
		Select("name", "sku", "price", "category_id", "supplier_id").
		Updates(product)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a product. Products referenced by order items are refused by
// the foreign key and reported as ErrForeignKey.
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormProductRepository) FindMovements(ctx context.Context, productID uuid.UUID, page, limit int) ([]models.StockMovement, int64, error) {
	var movements []models.StockMovement
	var total int64

	page, limit = normalizePage(page, limit)
	query := r.db.WithContext(ctx).Model(&models.StockMovement{}).Where("product_id = ?", productID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	err := paginate(query, page, limit).Order("created_at DESC").Find(&movements).Error
	return movements, total, translateError(err)
}
