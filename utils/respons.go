package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/restaurant-ops/domain"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// BadRequest marks err as a problem with the caller's input.
type BadRequest struct{ Err error }

func (e BadRequest) Error() string { return e.Err.Error() }
func (e BadRequest) Unwrap() error { return e.Err }

// StatusFor maps an error returned by the services to an HTTP status.
func StatusFor(err error) int {
	var bad BadRequest
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBusinessRule):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondServiceError writes err with its mapped status. Internal failures
// are logged and hidden from the client.
func RespondServiceError(c *gin.Context, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		ErrorLogger.WithField("path", c.FullPath()).Errorf("request failed: %v", err)
		RespondError(c, code, errors.New("internal server error"))
		return
	}
	RespondError(c, code, err)
}

// FormatCurrency renders an amount with dot thousand separators and a
// comma before the two decimals, e.g. 15000.5 -> "15.000,50".
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	formatted := amount.StringFixed(2)

	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	var result []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		result = append([]string{integerPart[start:i]}, result...)
	}

	return fmt.Sprintf("%s%s,%s", sign, strings.Join(result, "."), decimalPart)
}
