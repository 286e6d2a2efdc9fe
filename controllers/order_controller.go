package controllers

import (
	"net/http"

	"inventory-order-service/models"
	"inventory-order-service/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	service services.OrderService
}

func NewOrderController(service services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// ListOrders GET /orders?status=&ordering=
func (oc *OrderController) ListOrders(c *gin.Context) {
	page, limit := pagination(c)
	result, err := oc.service.ListOrders(c.Request.Context(), models.OrderFilter{
		Status:   c.Query("status"),
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

// GetOrder GET /orders/:id
func (oc *OrderController) GetOrder(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	order, err := oc.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CreateOrder POST /orders
// The body is optional; an empty body creates an empty pending order.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if c.Request.ContentLength != 0 {
		if !bindJSON(c, &req) {
			return
		}
	}
	order, err := oc.service.CreateOrder(c.Request.Context(), req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "order": order})
}

// AddOrderItem POST /orders/:id/items
func (oc *OrderController) AddOrderItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req models.AddOrderItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := oc.service.AddOrderItem(c.Request.Context(), id, models.LineItemRequest{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item added successfully", "item": item})
}

// AddOrderItems POST /orders/:id/items/batch
func (oc *OrderController) AddOrderItems(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req models.AddOrderItemsRequest
	if !bindJSON(c, &req) {
		return
	}
	items, err := oc.service.AddOrderItems(c.Request.Context(), id, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Items added successfully", "items": items})
}

// CancelOrder POST /orders/:id/cancel
func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	order, err := oc.service.CancelOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order": order})
}

// CompleteOrder POST /orders/:id/complete
func (oc *OrderController) CompleteOrder(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	order, err := oc.service.CompleteOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order completed successfully", "order": order})
}

// DeleteOrder DELETE /orders/:id
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := oc.service.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

// ListOrderItems GET /order-items?order=&product=
func (oc *OrderController) ListOrderItems(c *gin.Context) {
	orderID, ok := optionalUUIDQuery(c, "order")
	if !ok {
		return
	}
	productID, ok := optionalUUIDQuery(c, "product")
	if !ok {
		return
	}
	page, limit := pagination(c)
	result, err := oc.service.ListOrderItems(c.Request.Context(), models.OrderItemFilter{
		OrderID:   orderID,
		ProductID: productID,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
