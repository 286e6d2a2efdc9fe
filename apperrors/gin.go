package apperrors

import (
	"github.com/gin-gonic/gin"
)

// Respond writes err as a JSON error body with the matching status code.
func Respond(c *gin.Context, err error) {
	appErr := From(err)
	body := gin.H{
		"error": appErr.Message,
		"code":  appErr.Kind,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	if appErr.Retryable() {
		c.Header("Retry-After", "1")
	}
	c.AbortWithStatusJSON(appErr.Code, body)
}
