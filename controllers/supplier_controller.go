package controllers

import (
	"net/http"

	"inventory-order-service/models"
	"inventory-order-service/services"

	"github.com/gin-gonic/gin"
)

type SupplierController struct {
	service services.SupplierService
}

func NewSupplierController(service services.SupplierService) *SupplierController {
	return &SupplierController{service: service}
}

// ListSuppliers GET /suppliers
func (sc *SupplierController) ListSuppliers(c *gin.Context) {
	page, limit := pagination(c)
	result, err := sc.service.ListSuppliers(c.Request.Context(), models.CatalogFilter{
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

// GetSupplier GET /suppliers/:id
func (sc *SupplierController) GetSupplier(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	supplier, err := sc.service.GetSupplier(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

// CreateSupplier POST /suppliers
func (sc *SupplierController) CreateSupplier(c *gin.Context) {
	var req models.SupplierRequest
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := sc.service.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Supplier created successfully", "supplier": supplier})
}

// UpdateSupplier PUT /suppliers/:id
func (sc *SupplierController) UpdateSupplier(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req models.SupplierRequest
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := sc.service.UpdateSupplier(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Supplier updated successfully", "supplier": supplier})
}

// DeleteSupplier DELETE /suppliers/:id
func (sc *SupplierController) DeleteSupplier(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := sc.service.DeleteSupplier(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
}
