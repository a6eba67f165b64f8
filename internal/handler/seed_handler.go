package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clegacy/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	users    service.UserService
	projects service.ProjectService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(users service.UserService, projects service.ProjectService) *SeedHandler {
	return &SeedHandler{users: users, projects: projects}
}

// Seed godoc
// @Summary Write the demonstration users and projects into an empty store
// @Tags seed
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.SeedResult
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed [post]
func (h *SeedHandler) Seed(c echo.Context) error {
	res, err := service.SeedDemoData(c.Request().Context(), h.users, h.projects)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
