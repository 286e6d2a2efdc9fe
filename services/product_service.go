package services

import (
	"context"
	"errors"
	"fmt"

	"inventory-order-service/apperrors"
	"inventory-order-service/models"
	awspkg "inventory-order-service/pkg/aws"
	"inventory-order-service/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, filter models.ProductFilter) (*models.Page[models.Product], error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	// UpdateProductStock is the admin override of a product's stock. It goes
	// through the stock ledger like every other stock change.
	UpdateProductStock(ctx context.Context, id uuid.UUID, newStock int) (*models.Product, error)
	ListMovements(ctx context.Context, id uuid.UUID, page, limit int) (*models.Page[models.StockMovement], error)
}

type productService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	suppliers  repository.SupplierRepository
	store      repository.InventoryStore
	ledger     *StockLedger
	notifier   StockNotifier
	cache      ProductCache
	metrics    MetricsRecorder
	validator  *RequestValidator
	logger     *zap.Logger
}

func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	suppliers repository.SupplierRepository,
	store repository.InventoryStore,
	notifier StockNotifier,
	cache ProductCache,
	metrics MetricsRecorder,
	logger *zap.Logger,
) ProductService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if cache == nil {
		cache = noopCache{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &productService{
		products:   products,
		categories: categories,
		suppliers:  suppliers,
		store:      store,
		ledger:     NewStockLedger(),
		notifier:   notifier,
		cache:      cache,
		metrics:    metrics,
		validator:  NewRequestValidator(),
		logger:     logger,
	}
}

func (s *productService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.CategoryID, req.SupplierID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:         req.Name,
		SKU:          req.SKU,
		Price:        req.Price,
		CurrentStock: req.CurrentStock,
		CategoryID:   req.CategoryID,
		SupplierID:   req.SupplierID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(fmt.Sprintf("A product with SKU %q already exists", req.SKU), err)
		}
		return nil, mapError(err, nil)
	}

	s.logger.Info("product created", zap.String("product_id", product.ID.String()), zap.String("sku", product.SKU))
	s.cache.InvalidateLists(ctx)
	return s.reload(ctx, product), nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if cached, ok := s.cache.GetProduct(ctx, id); ok {
		s.recordCount(ctx, awspkg.MetricCacheHits)
		return cached, nil
	}
	s.recordCount(ctx, awspkg.MetricCacheMisses)

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err, apperrors.ProductNotFound(id))
	}
	s.cache.SetProduct(ctx, product)
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, filter models.ProductFilter) (*models.Page[models.Product], error) {
	key := productListKey(filter)
	var cached models.Page[models.Product]
	if s.cache.GetList(ctx, key, &cached) {
		s.recordCount(ctx, awspkg.MetricCacheHits)
		return &cached, nil
	}
	s.recordCount(ctx, awspkg.MetricCacheMisses)

	products, total, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, mapError(err, nil)
	}
	page := models.NewPage(products, filter.Page, filter.Limit, total)
	s.cache.SetList(ctx, key, page)
	return page, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req models.UpdateProductRequest) (*models.Product, error) {
	if err := s.validator.Struct(&req); err != nil {
		return nil, err
	}
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.CategoryID, req.SupplierID); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:         id,
		Name:       req.Name,
		SKU:        req.SKU,
		Price:      req.Price,
		CategoryID: req.CategoryID,
		SupplierID: req.SupplierID,
	}
	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(fmt.Sprintf("A product with SKU %q already exists", req.SKU), err)
		}
		return nil, mapError(err, apperrors.ProductNotFound(id))
	}

	s.logger.Info("product updated", zap.String("product_id", id.String()))
	s.cache.InvalidateProduct(ctx, id)
	s.cache.InvalidateLists(ctx)
	return s.reload(ctx, product), nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return apperrors.Conflict("Product is referenced by order items and cannot be deleted", err)
		}
		return mapError(err, apperrors.ProductNotFound(id))
	}

	s.logger.Info("product deleted", zap.String("product_id", id.String()))
	s.cache.InvalidateProduct(ctx, id)
	s.cache.InvalidateLists(ctx)
	return nil
}

func (s *productService) UpdateProductStock(ctx context.Context, id uuid.UUID, newStock int) (*models.Product, error) {
	if newStock < 0 {
		return nil, apperrors.Validation("current_stock must be a non-negative integer")
	}

	var (
		product  models.Product
		previous int
	)
	err := s.store.WithinTransaction(ctx, func(tx repository.InventoryTx) error {
		locked, err := tx.LockProducts([]uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("lock product: %w", err)
		}
		if len(locked) == 0 {
			return apperrors.ProductNotFound(id)
		}
		product = locked[0]
		previous = product.CurrentStock
		return s.ledger.Set(tx, &product, newStock, models.MovementReasonAdminOverride)
	})
	if err != nil {
		return nil, mapError(err, apperrors.ProductNotFound(id))
	}

	s.logger.Info("product stock overridden",
		zap.String("product_id", id.String()),
		zap.Int("previous", previous),
		zap.Int("current", product.CurrentStock),
	)
	s.recordCount(ctx, awspkg.MetricStockOverrides)
	s.cache.InvalidateProduct(ctx, id)
	s.cache.InvalidateLists(ctx)
	if product.CurrentStock < previous {
		s.notifier.Notify(ctx, product)
	}
	return s.reload(ctx, &product), nil
}

func (s *productService) ListMovements(ctx context.Context, id uuid.UUID, page, limit int) (*models.Page[models.StockMovement], error) {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return nil, mapError(err, apperrors.ProductNotFound(id))
	}
	movements, total, err := s.products.FindMovements(ctx, id, page, limit)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return models.NewPage(movements, page, limit, total), nil
}

func (s *productService) checkReferences(ctx context.Context, categoryID uuid.UUID, supplierID *uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.Validation(fmt.Sprintf("Category %s does not exist", categoryID))
		}
		return mapError(err, nil)
	}
	if supplierID == nil {
		return nil
	}
	if _, err := s.suppliers.FindByID(ctx, *supplierID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.Validation(fmt.Sprintf("Supplier %s does not exist", *supplierID))
		}
		return mapError(err, nil)
	}
	return nil
}

// reload returns the stored product with its category and supplier, falling
// back to p when the read fails.
func (s *productService) reload(ctx context.Context, p *models.Product) *models.Product {
	fresh, err := s.products.FindByID(ctx, p.ID)
	if err != nil {
		s.logger.Warn("failed to reload product", zap.String("product_id", p.ID.String()), zap.Error(err))
		return p
	}
	return fresh
}

func (s *productService) recordCount(ctx context.Context, metric string) {
	if err := s.metrics.RecordCount(ctx, metric, map[string]string{"Service": "inventory-order-service"}); err != nil {
		s.logger.Debug("failed to record metric", zap.String("metric", metric), zap.Error(err))
	}
}

// validatePrice enforces decimal(10,2): positive, two decimal places, eight
// integer digits.
func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return apperrors.Validation("price must be greater than 0")
	}
	if !price.Equal(price.Round(2)) {
		return apperrors.Validation("price must have at most 2 decimal places")
	}
	if price.GreaterThanOrEqual(decimal.New(1, 8)) {
		return apperrors.Validation("price must be less than 100000000")
	}
	return nil
}

func productListKey(f models.ProductFilter) string {
	key := fmt.Sprintf("q=%s:o=%s:p=%d:l=%d", f.Search, f.Ordering, f.Page, f.Limit)
	if f.CategoryID != nil {
		key += ":c=" + f.CategoryID.String()
	}
	if f.SupplierID != nil {
		key += ":s=" + f.SupplierID.String()
	}
	if f.StockLessThan != nil {
		key += fmt.Sprintf(":lt=%d", *f.StockLessThan)
	}
	return key
}
