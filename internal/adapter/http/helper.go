package http

import (
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"annuity-exchange/internal/domain/agreement"
	"annuity-exchange/internal/domain/custody"
	"annuity-exchange/internal/domain/oracle"
	"annuity-exchange/internal/domain/swapvenue"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("agreement_id"), 10, 64)
}

// amounts arrive pre-validated by the "amount" rule; parse is still checked
func parseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.New("invalid amount")
	}
	return v, nil
}

// statusFor maps domain errors to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, agreement.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, agreement.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, agreement.ErrAlreadyActivated),
		errors.Is(err, agreement.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, agreement.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, agreement.ErrInsufficientCollateral),
		errors.Is(err, agreement.ErrBelowMinimumCollateral),
		errors.Is(err, agreement.ErrOverRepayment),
		errors.Is(err, custody.ErrInsufficientFunds),
		errors.Is(err, custody.ErrUnknownToken):
		return http.StatusUnprocessableEntity
	case errors.Is(err, oracle.ErrUnavailable),
		errors.Is(err, oracle.ErrStalePrice),
		errors.Is(err, oracle.ErrInvalidPrice),
		errors.Is(err, swapvenue.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func domainError(c echo.Context, err error) error {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	return c.JSON(code, ErrorResponse{Error: msg})
}
