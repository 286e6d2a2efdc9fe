package controllers

import (
	"net/http"
	"strconv"

	"inventory-order-service/apperrors"
	"inventory-order-service/models"
	"inventory-order-service/services"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	service services.ProductService
}

func NewProductController(service services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// ListProducts GET /products
// Filters: category, supplier, search (name or sku), stock_lt, ordering.
func (pc *ProductController) ListProducts(c *gin.Context) {
	categoryID, ok := optionalUUIDQuery(c, "category")
	if !ok {
		return
	}
	supplierID, ok := optionalUUIDQuery(c, "supplier")
	if !ok {
		return
	}

	var stockLessThan *int
	if raw := c.Query("stock_lt"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, apperrors.Validation("stock_lt must be an integer"))
			return
		}
		stockLessThan = &n
	}

	page, limit := pagination(c)
	result, err := pc.service.ListProducts(c.Request.Context(), models.ProductFilter{
		CategoryID:    categoryID,
		SupplierID:    supplierID,
		Search:        c.Query("search"),
		StockLessThan: stockLessThan,
		Ordering:      c.Query("ordering"),
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetProduct GET /products/:id
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	product, err := pc.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct POST /products
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := pc.service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "product": product})
}

// UpdateProduct PUT /products/:id
// Stock is not accepted here; use the stock endpoint.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req models.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := pc.service.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// DeleteProduct DELETE /products/:id
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := pc.service.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// UpdateProductStock PATCH|PUT /products/:id/stock
func (pc *ProductController) UpdateProductStock(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req models.UpdateStockRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := pc.service.UpdateProductStock(c.Request.Context(), id, *req.CurrentStock)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated successfully", "product": product})
}

// ListMovements GET /products/:id/movements
func (pc *ProductController) ListMovements(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	page, limit := pagination(c)
	result, err := pc.service.ListMovements(c.Request.Context(), id, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
