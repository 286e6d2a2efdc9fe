package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-order-service/controllers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter() *gin.Engine {
	r := gin.New()
	RegisterRoutes(r, Controllers{
		Categories: controllers.NewCategoryController(nil),
		Suppliers:  controllers.NewSupplierController(nil),
		Products:   controllers.NewProductController(nil),
		Orders:     controllers.NewOrderController(nil),
		Alerts:     controllers.NewAlertController(nil),
	}, "secret")
	return r
}

func TestRegisterRoutes_Table(t *testing.T) {
	r := newRouter()
	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /api/v1/categories", "POST /api/v1/categories", "DELETE /api/v1/categories/:id",
		"GET /api/v1/suppliers/:id", "PUT /api/v1/suppliers/:id",
		"GET /api/v1/products", "PATCH /api/v1/products/:id/stock", "PUT /api/v1/products/:id/stock",
		"GET /api/v1/products/:id/movements",
		"POST /api/v1/orders", "POST /api/v1/orders/:id/items", "POST /api/v1/orders/:id/items/batch",
		"POST /api/v1/orders/:id/cancel", "POST /api/v1/orders/:id/complete", "DELETE /api/v1/orders/:id",
		"GET /api/v1/order-items", "GET /api/v1/alerts",
	} {
		assert.True(t, registered[want], want)
	}
}

func TestRegisterRoutes_Guards(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/products/x/stock", nil)
	req.Header.Set("X-User-ID", "u-1")
	req.Header.Set("X-User-Role", "staff")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil)
	req.Header.Set("X-User-ID", "u-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
