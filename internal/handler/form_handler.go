package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "clegacy/internal/errors"
	"clegacy/internal/service"
	"clegacy/internal/validation"
)

// FormHandler validates form submissions against the built-in rule sets.
type FormHandler struct {
	users service.UserService
}

// NewFormHandler creates a form handler.
func NewFormHandler(users service.UserService) *FormHandler {
	return &FormHandler{users: users}
}

// FormValidationResponse lists the failing fields of a form.
type FormValidationResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// Validate godoc
// @Summary Validate a form
// @Tags forms
// @Accept json
// @Produce json
// @Param form path string true "Rule set name" Enums(registration, login)
// @Param values body object true "Field values"
// @Success 200 {object} FormValidationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /forms/{form}/validate [post]
func (h *FormHandler) Validate(c echo.Context) error {
	rs, err := validation.BuiltinRuleSet(c.Param("form"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, apperrors.NewHTTPError(http.StatusNotFound, err.Error(), "FORM_NOT_FOUND").ToErrorResponse())
	}
	values := map[string]any{}
	if err := bindBody(c, &values); err != nil {
		return badRequest("invalid request body")
	}

	ok, fields := validation.ValidateData(rs, stringify(values), uniqueEmail(c.Request().Context(), h.users))
	return c.JSON(http.StatusOK, FormValidationResponse{Valid: ok, Errors: fields})
}

// uniqueEmail backs the uniqueEmail rule with the users collection. Lookup
// failures count as taken.
func uniqueEmail(ctx context.Context, users service.UserService) map[string]validation.CustomValidator {
	return map[string]validation.CustomValidator{
		"uniqueEmail": func(value string, _ map[string]any, _ validation.Field) bool {
			if value == "" {
				return true
			}
			exists, err := users.EmailExists(ctx, value)
			return err == nil && !exists
		},
	}
}

func stringify(values map[string]any) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		switch t := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = t
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}
