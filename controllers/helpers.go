package controllers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"inventory-order-service/apperrors"
	"inventory-order-service/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// respondError renders err and logs it when it is a server-side failure.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr.Code >= 500 {
		logger.Error(c, "Request failed", err, zap.String("kind", string(appErr.Kind)))
	}
	_ = c.Error(err)
	apperrors.Respond(c, appErr)
}

// uuidParam parses the named path parameter, responding 400 when malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		respondError(c, apperrors.Validation(fmt.Sprintf("Invalid %s format", name)))
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUIDQuery parses an optional uuid query parameter.
func optionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, apperrors.Validation(fmt.Sprintf("Invalid %s format", name)))
		return nil, false
	}
	return &id, true
}

// pagination reads page and limit, clamping limit to maxLimit.
func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// bindJSON decodes the request body into dst, responding 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		appErr := apperrors.Validation("Invalid request body")
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			appErr.Details = make(map[string]interface{}, len(verrs))
			for _, fe := range verrs {
				appErr.Details[jsonFieldName(fe)] = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
			}
		} else {
			appErr.Details = map[string]interface{}{"body": err.Error()}
		}
		respondError(c, appErr)
		return false
	}
	return true
}

func jsonFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	}
}
