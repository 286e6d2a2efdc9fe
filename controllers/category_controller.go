package controllers

import (
	"net/http"

	"inventory-order-service/models"
	"inventory-order-service/services"

	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	service services.CategoryService
}

func NewCategoryController(service services.CategoryService) *CategoryController {
	return &CategoryController{service: service}
}

// ListCategories GET /categories
func (cc *CategoryController) ListCategories(c *gin.Context) {
	page, limit := pagination(c)
	result, err := cc.service.ListCategories(c.Request.Context(), models.CatalogFilter{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCategory GET /categories/:id
func (cc *CategoryController) GetCategory(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	category, err := cc.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory POST /categories
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req models.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := cc.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created successfully", "category": category})
}

// UpdateCategory PUT /categories/:id
func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req models.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := cc.service.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated successfully", "category": category})
}

// DeleteCategory DELETE /categories/:id
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := cc.service.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
