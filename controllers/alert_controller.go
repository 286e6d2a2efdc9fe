package controllers

import (
	"net/http"

	"inventory-order-service/models"
	"inventory-order-service/services"

	"github.com/gin-gonic/gin"
)

type AlertController struct {
	service services.AlertService
}

func NewAlertController(service services.AlertService) *AlertController {
	return &AlertController{service: service}
}

// ListAlerts GET /alerts?status=&channel=&product=
func (ac *AlertController) ListAlerts(c *gin.Context) {
	productID, ok := optionalUUIDQuery(c, "product")
	if !ok {
		return
	}
	page, limit := pagination(c)
	result, err := ac.service.ListAlerts(c.Request.Context(), models.AlertFilter{
		ProductID: productID,
		Status:    c.Query("status"),
		Channel:   c.Query("channel"),
		Page:      page,
		PageSize:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
