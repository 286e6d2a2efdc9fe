package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inventory-order-service/apperrors"
	"inventory-order-service/models"
	"inventory-order-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, req models.CategoryRequest) (*models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context, filter models.CatalogFilter) (*models.Page[models.Category], error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req models.CategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo   repository.CategoryRepository
	cache  ProductCache
	logger *zap.Logger
}

func NewCategoryService(repo repository.CategoryRepository, cache ProductCache, logger *zap.Logger) CategoryService {
	if cache == nil {
		cache = noopCache{}
	}
	return &categoryService{repo: repo, cache: cache, logger: logger}
}

func (s *categoryService) CreateCategory(ctx context.Context, req models.CategoryRequest) (*models.Category, error) {
	category := &models.Category{Name: strings.TrimSpace(req.Name)}
	if category.Name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(fmt.Sprintf("Category %q already exists", category.Name), err)
		}
		return nil, mapError(err, nil)
	}
	s.logger.Info("category created", zap.String("category_id", category.ID.String()))
	return category, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err, apperrors.NotFound("Category"))
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, filter models.CatalogFilter) (*models.Page[models.Category], error) {
	categories, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return models.NewPage(categories, filter.Page, filter.Limit, total), nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req models.CategoryRequest) (*models.Category, error) {
	category := &models.Category{ID: id, Name: strings.TrimSpace(req.Name)}
	if category.Name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict(fmt.Sprintf("Category %q already exists", category.Name), err)
		}
		return nil, mapError(err, apperrors.NotFound("Category"))
	}
	// Product reads embed the category name.
	s.cache.InvalidateLists(ctx)
	return s.GetCategory(ctx, id)
}

// DeleteCategory refuses categories that still have products.
func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return apperrors.Conflict("Category has products and cannot be deleted", err)
		}
		return mapError(err, apperrors.NotFound("Category"))
	}
	s.logger.Info("category deleted", zap.String("category_id", id.String()))
	return nil
}
