package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	customerdomain "github.com/indowater/tirta/internal/customer/domain"
	meterdomain "github.com/indowater/tirta/internal/meter/domain"
	pricingdomain "github.com/indowater/tirta/internal/pricing/domain"
	propertydomain "github.com/indowater/tirta/internal/property/domain"
	tariffdomain "github.com/indowater/tirta/internal/tariff/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware renders the last error a handler recorded, so
// handlers only ever call AbortWithError and never shape status codes.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Code:    err.Error(),
			Message: validationMessage(err.Error()),
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Code:    err.Error(),
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Code:    err.Error(),
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, tariffdomain.ErrInvalidClient),
		errors.Is(err, tariffdomain.ErrInvalidName),
		errors.Is(err, tariffdomain.ErrInvalidPropertyType),
		errors.Is(err, tariffdomain.ErrInvalidTiers),
		errors.Is(err, tariffdomain.ErrInvalidAdjustment),
		errors.Is(err, tariffdomain.ErrInvalidDateRange),
		errors.Is(err, tariffdomain.ErrInvalidVolumeRange),
		errors.Is(err, tariffdomain.ErrInvalidRuleType),
		errors.Is(err, tariffdomain.ErrMalformedConditions),
		errors.Is(err, tariffdomain.ErrInvalidMinimumCharge),
		errors.Is(err, customerdomain.ErrInvalidClient),
		errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, customerdomain.ErrInvalidEmail),
		errors.Is(err, meterdomain.ErrInvalidCustomer),
		errors.Is(err, meterdomain.ErrInvalidSerial),
		errors.Is(err, meterdomain.ErrInvalidType),
		errors.Is(err, propertydomain.ErrInvalidClient),
		errors.Is(err, propertydomain.ErrInvalidCustomer),
		errors.Is(err, propertydomain.ErrInvalidName),
		errors.Is(err, propertydomain.ErrInvalidPropertyType),
		errors.Is(err, propertydomain.ErrInvalidDateRange),
		errors.Is(err, propertydomain.ErrPropertyTypeMismatch),
		errors.Is(err, pricingdomain.ErrInvalidVolume),
		errors.Is(err, pricingdomain.ErrInvalidReference):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, tariffdomain.ErrOverlappingDates),
		errors.Is(err, tariffdomain.ErrOverlappingVolumes),
		errors.Is(err, propertydomain.ErrOverlappingWindows),
		errors.Is(err, meterdomain.ErrDuplicateSerial):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, tariffdomain.ErrNotFound),
		errors.Is(err, tariffdomain.ErrRateNotFound),
		errors.Is(err, tariffdomain.ErrBulkTierNotFound),
		errors.Is(err, tariffdomain.ErrRuleNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, meterdomain.ErrNotFound),
		errors.Is(err, propertydomain.ErrNotFound),
		errors.Is(err, propertydomain.ErrTariffNotFound),
		errors.Is(err, propertydomain.ErrNoActiveAssignment),
		errors.Is(err, pricingdomain.ErrTariffNotFound),
		errors.Is(err, pricingdomain.ErrCustomerNotFound),
		errors.Is(err, pricingdomain.ErrMeterNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationMessage(code string) string {
	if code == "invalid_request" {
		return "invalid request"
	}
	if strings.HasPrefix(code, "invalid_") || strings.HasPrefix(code, "malformed_") {
		return "invalid value"
	}
	return "validation error"
}
