package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-order-service/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Mock services ---

type mockOrderService struct {
	createFn    func(ctx context.Context, items []models.LineItemRequest) (*models.Order, error)
	addItemFn   func(ctx context.Context, orderID uuid.UUID, item models.LineItemRequest) (*models.OrderItem, error)
	addItemsFn  func(ctx context.Context, orderID uuid.UUID, items []models.LineItemRequest) ([]models.OrderItem, error)
	completeFn  func(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	cancelFn    func(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	deleteFn    func(ctx context.Context, orderID uuid.UUID) error
	getFn       func(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	listFn      func(ctx context.Context, filter models.OrderFilter) (*models.Page[models.Order], error)
	listItemsFn func(ctx context.Context, filter models.OrderItemFilter) (*models.Page[models.OrderItem], error)
}

func (m *mockOrderService) CreateOrder(ctx context.Context, items []models.LineItemRequest) (*models.Order, error) {
	return m.createFn(ctx, items)
}
func (m *mockOrderService) AddOrderItem(ctx context.Context, orderID uuid.UUID, item models.LineItemRequest) (*models.OrderItem, error) {
	return m.addItemFn(ctx, orderID, item)
}
func (m *mockOrderService) AddOrderItems(ctx context.Context, orderID uuid.UUID, items []models.LineItemRequest) ([]models.OrderItem, error) {
	return m.addItemsFn(ctx, orderID, items)
}
func (m *mockOrderService) CompleteOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return m.completeFn(ctx, orderID)
}
func (m *mockOrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return m.cancelFn(ctx, orderID)
}
func (m *mockOrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	return m.deleteFn(ctx, orderID)
}
func (m *mockOrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return m.getFn(ctx, orderID)
}
func (m *mockOrderService) ListOrders(ctx context.Context, filter models.OrderFilter) (*models.Page[models.Order], error) {
	return m.listFn(ctx, filter)
}
func (m *mockOrderService) ListOrderItems(ctx context.Context, filter models.OrderItemFilter) (*models.Page[models.OrderItem], error) {
	return m.listItemsFn(ctx, filter)
}

type mockProductService struct {
	createFn    func(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	getFn       func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	listFn      func(ctx context.Context, filter models.ProductFilter) (*models.Page[models.Product], error)
	updateFn    func(ctx context.Context, id uuid.UUID, req models.UpdateProductRequest) (*models.Product, error)
	deleteFn    func(ctx context.Context, id uuid.UUID) error
	stockFn     func(ctx context.Context, id uuid.UUID, newStock int) (*models.Product, error)
	movementsFn func(ctx context.Context, id uuid.UUID, page, limit int) (*models.Page[models.StockMovement], error)
}

func (m *mockProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	return m.createFn(ctx, req)
}
func (m *mockProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return m.getFn(ctx, id)
}
func (m *mockProductService) ListProducts(ctx context.Context, filter models.ProductFilter) (*models.Page[models.Product], error) {
	return m.listFn(ctx, filter)
}
func (m *mockProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req models.UpdateProductRequest) (*models.Product, error) {
	return m.updateFn(ctx, id, req)
}
func (m *mockProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}
func (m *mockProductService) UpdateProductStock(ctx context.Context, id uuid.UUID, newStock int) (*models.Product, error) {
	return m.stockFn(ctx, id, newStock)
}
func (m *mockProductService) ListMovements(ctx context.Context, id uuid.UUID, page, limit int) (*models.Page[models.StockMovement], error) {
	return m.movementsFn(ctx, id, page, limit)
}

type mockCategoryService struct {
	createFn func(ctx context.Context, req models.CategoryRequest) (*models.Category, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
	listFn   func(ctx context.Context, filter models.CatalogFilter) (*models.Page[models.Category], error)
}

func (m *mockCategoryService) CreateCategory(ctx context.Context, req models.CategoryRequest) (*models.Category, error) {
	return m.createFn(ctx, req)
}
func (m *mockCategoryService) GetCategory(context.Context, uuid.UUID) (*models.Category, error) {
	return nil, nil
}
func (m *mockCategoryService) ListCategories(ctx context.Context, filter models.CatalogFilter) (*models.Page[models.Category], error) {
	return m.listFn(ctx, filter)
}
func (m *mockCategoryService) UpdateCategory(context.Context, uuid.UUID, models.CategoryRequest) (*models.Category, error) {
	return nil, nil
}
func (m *mockCategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

type mockAlertService struct {
	listFn func(ctx context.Context, filter models.AlertFilter) (*models.Page[models.LowStockAlert], error)
}

func (m *mockAlertService) ListAlerts(ctx context.Context, filter models.AlertFilter) (*models.Page[models.LowStockAlert], error) {
	return m.listFn(ctx, filter)
}

// --- Helpers ---

func perform(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
