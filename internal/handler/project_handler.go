package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"clegacy/internal/model"
	"clegacy/internal/service"
)

// ProjectHandler serves the project catalogue.
type ProjectHandler struct {
	svc service.ProjectService
}

// NewProjectHandler creates a project handler.
func NewProjectHandler(svc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ProjectResponse adds the derived funding percentage to a project.
type ProjectResponse struct {
	model.Project
	FundingPercentage string `json:"fundingPercentage"`
}

func toProjectResponse(p model.Project) ProjectResponse {
	return ProjectResponse{Project: p, FundingPercentage: p.FundingPercentage().StringFixed(1)}
}

// ListProjects godoc
// @Summary List projects
// @Tags projects
// @Produce json
// @Success 200 {array} ProjectResponse
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	projects, err := h.svc.ListProjects(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	return c.JSON(http.StatusOK, out)
}

// GetProject godoc
// @Summary Get project by id
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} ProjectResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	project, err := h.svc.GetProject(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toProjectResponse(*project))
}

// CreateProject godoc
// @Summary Create project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param project body model.Project true "Project payload"
// @Success 201 {object} ProjectResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	var project model.Project
	if err := bindBody(c, &project); err != nil {
		return badRequest("invalid request body")
	}
	if project.Title == "" {
		return badRequest("title is required")
	}
	created, err := h.svc.CreateProject(c.Request().Context(), &project)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toProjectResponse(*created))
}

// UpdateProject godoc
// @Summary Patch project fields
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param patch body object true "Fields to replace"
// @Success 200 {object} ProjectResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	patch := map[string]any{}
	if err := bindBody(c, &patch); err != nil {
		return badRequest("invalid request body")
	}
	project, err := h.svc.UpdateProject(c.Request().Context(), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toProjectResponse(*project))
}

// DeleteProject godoc
// @Summary Delete project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} ProjectResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	project, err := h.svc.DeleteProject(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toProjectResponse(*project))
}
