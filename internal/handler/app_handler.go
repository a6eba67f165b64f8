package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"clegacy/internal/logging"
	"clegacy/internal/pages"
	"clegacy/internal/spa"
)

// AppHandler renders client-side routes on the server. Each request drives
// its own router over the shared route table.
type AppHandler struct {
	table   *spa.Table
	timeout time.Duration
}

// NewAppHandler creates an app handler. A zero timeout leaves page handlers
// unbounded.
func NewAppHandler(table *spa.Table, timeout time.Duration) *AppHandler {
	return &AppHandler{table: table, timeout: timeout}
}

// AppResponse is one rendered navigation.
type AppResponse struct {
	Route   string       `json:"route"`
	Content string       `json:"content"`
	Scripts []spa.Script `json:"scripts"`
	Error   string       `json:"error,omitempty"`
}

// Render godoc
// @Summary Render a page route
// @Tags app
// @Produce json
// @Param route query string false "Route, e.g. /projects/detail?id=2" default(/)
// @Success 200 {object} AppResponse
// @Router /app [get]
func (h *AppHandler) Render(c echo.Context) error {
	route, query := pages.SplitRoute(c.QueryParam("route"))
	ctx := pages.WithQuery(c.Request().Context(), query)

	resp := AppResponse{Scripts: []spa.Script{}}
	view := &spa.MemoryView{}
	router := spa.NewRouter(h.table, view,
		spa.WithTimeout(h.timeout),
		spa.WithLogger(logging.FromContext(ctx)),
		spa.WithScriptRunner(spa.ScriptRunnerFunc(func(_ string, scripts []spa.Script) error {
			resp.Scripts = scripts
			return nil
		})),
	)

	if err := router.NavigateTo(ctx, route, false); err != nil {
		resp.Error = view.Error()
	}
	resp.Route = router.CurrentRoute()
	resp.Content = view.Content()
	return c.JSON(http.StatusOK, resp)
}
