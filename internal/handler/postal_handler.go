package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "clegacy/internal/errors"
	"clegacy/internal/model"
)

// AddressLookup resolves a postal code to an address.
type AddressLookup interface {
	Lookup(ctx context.Context, code string) (*model.Address, bool)
}

// PostalHandler serves address autofill.
type PostalHandler struct {
	lookup AddressLookup
}

// NewPostalHandler creates a postal handler.
func NewPostalHandler(lookup AddressLookup) *PostalHandler {
	return &PostalHandler{lookup: lookup}
}

// Lookup godoc
// @Summary Address of a postal code
// @Tags postal
// @Produce json
// @Param code path string true "Postal code, punctuation allowed"
// @Success 200 {object} model.Address
// @Failure 404 {object} errors.ErrorResponse
// @Router /postal/{code} [get]
func (h *PostalHandler) Lookup(c echo.Context) error {
	addr, ok := h.lookup.Lookup(c.Request().Context(), c.Param("code"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound,
			apperrors.NewHTTPError(http.StatusNotFound, "postal code not found", "POSTAL_CODE_NOT_FOUND").ToErrorResponse())
	}
	return c.JSON(http.StatusOK, addr)
}
