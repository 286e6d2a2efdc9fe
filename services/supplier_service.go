package services

import (
	"context"
	"errors"

	"inventory-order-service/apperrors"
	"inventory-order-service/models"
	"inventory-order-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SupplierService interface {
	CreateSupplier(ctx context.Context, req models.SupplierRequest) (*models.Supplier, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	ListSuppliers(ctx context.Context, filter models.CatalogFilter) (*models.Page[models.Supplier], error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, req models.SupplierRequest) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	repo   repository.SupplierRepository
	cache  ProductCache
	logger *zap.Logger
}

func NewSupplierService(repo repository.SupplierRepository, cache ProductCache, logger *zap.Logger) SupplierService {
	if cache == nil {
		cache = noopCache{}
	}
	return &supplierService{repo: repo, cache: cache, logger: logger}
}

func supplierFromRequest(id uuid.UUID, req models.SupplierRequest) *models.Supplier {
	return &models.Supplier{
		ID:      id,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}
}

func (s *supplierService) CreateSupplier(ctx context.Context, req models.SupplierRequest) (*models.Supplier, error) {
	supplier := supplierFromRequest(uuid.Nil, req)
	if err := s.repo.Create(ctx, supplier); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("A supplier with the same name, phone or email already exists", err)
		}
		return nil, mapError(err, nil)
	}
	s.logger.Info("supplier created", zap.String("supplier_id", supplier.ID.String()))
	return supplier, nil
}

func (s *supplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err, apperrors.NotFound("Supplier"))
	}
	return supplier, nil
}

func (s *supplierService) ListSuppliers(ctx context.Context, filter models.CatalogFilter) (*models.Page[models.Supplier], error) {
	suppliers, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return models.NewPage(suppliers, filter.Page, filter.Limit, total), nil
}

func (s *supplierService) UpdateSupplier(ctx context.Context, id uuid.UUID, req models.SupplierRequest) (*models.Supplier, error) {
	if err := s.repo.Update(ctx, supplierFromRequest(id, req)); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("A supplier with the same name, phone or email already exists", err)
		}
		return nil, mapError(err, apperrors.NotFound("Supplier"))
	}
	s.cache.InvalidateLists(ctx)
	return s.GetSupplier(ctx, id)
}

// DeleteSupplier removes the supplier; its products keep existing without one.
func (s *supplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err, apperrors.NotFound("Supplier"))
	}
	s.logger.Info("supplier deleted", zap.String("supplier_id", id.String()))
	s.cache.InvalidateLists(ctx)
	return nil
}
