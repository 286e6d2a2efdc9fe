package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one {product_id, quantity} pair. Quantity is checked by
// the order item assembler so that a non-positive value reports invalid_quantity.
type LineItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity"`
}

type CreateOrderRequest struct {
	Items []LineItemRequest `json:"items" binding:"omitempty,dive"`
}

type AddOrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity"`
}

type AddOrderItemsRequest struct {
	Items []LineItemRequest `json:"items" binding:"required,dive"`
}

type UpdateStockRequest struct {
	CurrentStock *int `json:"current_stock" binding:"required"`
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type SupplierRequest struct {
	Name    string  `json:"name" binding:"required,max=100"`
	Phone   string  `json:"phone" binding:"required,max=20"`
	Email   string  `json:"email" binding:"required,email,max=254"`
	Address *string `json:"address" binding:"omitempty,max=250"`
}

// CreateProductRequest is validated by the product service.
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,max=100"`
	SKU          string          `json:"sku" validate:"required,max=50"`
	Price        decimal.Decimal `json:"price"`
	CurrentStock int             `json:"current_stock" validate:"gte=0"`
	CategoryID   uuid.UUID       `json:"category_id" validate:"required"`
	SupplierID   *uuid.UUID      `json:"supplier_id"`
}

// UpdateProductRequest has no stock field; stock changes go through the
// stock endpoint.
type UpdateProductRequest struct {
	Name       string          `json:"name" validate:"required,max=100"`
	SKU        string          `json:"sku" validate:"required,max=50"`
	Price      decimal.Decimal `json:"price"`
	CategoryID uuid.UUID       `json:"category_id" validate:"required"`
	SupplierID *uuid.UUID      `json:"supplier_id"`
}
