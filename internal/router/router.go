package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"clegacy/docs"
	"clegacy/internal/auth"
	"clegacy/internal/config"
	"clegacy/internal/handler"
	"clegacy/internal/model"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Projects   *handler.ProjectHandler
	Statistics *handler.StatisticsHandler
	Postal     *handler.PostalHandler
	Forms      *handler.FormHandler
	App        *handler.AppHandler
	Seed       *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, jwtSvc *auth.JWTService, tokens auth.TokenStoreInterface, h Handlers) {
	e.Use(handler.RequestID())
	e.Use(handler.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(handler.ClientInfo())

	e.Validator = &CustomValidator{validator: validator.New()}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	optional := handler.OptionalSession(jwtSvc, tokens)
	required := handler.RequireSession(jwtSvc, tokens)
	admin := handler.RequireRole(model.RoleAdmin)

	e.GET("/app", h.App.Render, optional)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/volunteers/register", h.Users.RegisterVolunteer, optional)
	api.GET("/projects", h.Projects.ListProjects)
	api.GET("/projects/:id", h.Projects.GetProject)
	api.GET("/statistics", h.Statistics.GetStatistics)
	api.GET("/postal/:code", h.Postal.Lookup)
	api.POST("/forms/:form/validate", h.Forms.Validate)

	// Secured routes (require JWT authentication)
	secured := api.Group("", required)
	secured.POST("/auth/logout", h.Auth.Logout)
	secured.GET("/session", h.Auth.Session)

	// Admin routes
	restricted := secured.Group("", admin)
	restricted.GET("/volunteers", h.Users.ListVolunteers)
	restricted.GET("/users", h.Users.ListUsers)
	restricted.POST("/users", h.Users.CreateUser)
	restricted.GET("/users/:id", h.Users.GetUser)
	restricted.PUT("/users/:id", h.Users.UpdateUser)
	restricted.DELETE("/users/:id", h.Users.DeleteUser)
	restricted.POST("/projects", h.Projects.CreateProject)
	restricted.PUT("/projects/:id", h.Projects.UpdateProject)
	restricted.DELETE("/projects/:id", h.Projects.DeleteProject)
	restricted.GET("/access-log", h.Statistics.RecentAccesses)
	restricted.POST("/seed", h.Seed.Seed)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
