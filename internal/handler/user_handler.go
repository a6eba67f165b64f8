package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "clegacy/internal/errors"
	"clegacy/internal/model"
	"clegacy/internal/service"
	"clegacy/internal/validation"
)

// UserHandler bundles user management and volunteer sign-up handlers.
type UserHandler struct {
	svc          service.UserService
	registration *validation.RuleSet
}

// NewUserHandler creates a handler layer. Sign-ups are checked against the
// built-in registration rule set.
func NewUserHandler(svc service.UserService) (*UserHandler, error) {
	rs, err := validation.BuiltinRuleSet(validation.RuleSetRegistration)
	if err != nil {
		return nil, err
	}
	return &UserHandler{svc: svc, registration: rs}, nil
}

// RegisterRequest is the volunteer sign-up form.
type RegisterRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	NationalID   string `json:"nationalId"`
	Phone        string `json:"phone"`
	BirthDate    string `json:"birthDate"`
	PostalCode   string `json:"postalCode"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state" validate:"omitempty,len=2"`
	Interest     string `json:"interest"`
	SkillLevel   string `json:"skillLevel"`
	Availability string `json:"availability"`
	Message      string `json:"message"`
	Terms        bool   `json:"terms"`
}

func (r RegisterRequest) formData() map[string]string {
	return map[string]string{
		"name":       r.Name,
		"email":      r.Email,
		"nationalId": r.NationalID,
		"phone":      r.Phone,
		"birthDate":  r.BirthDate,
		"postalCode": r.PostalCode,
		"street":     r.Street,
		"city":       r.City,
		"state":      r.State,
		"interest":   r.Interest,
		"terms":      strconv.FormatBool(r.Terms),
	}
}

func (r RegisterRequest) user() model.User {
	return model.User{
		Name:       r.Name,
		Email:      r.Email,
		Password:   r.Password,
		Active:     true,
		Phone:      r.Phone,
		NationalID: r.NationalID,
		BirthDate:  r.BirthDate,
		Address: &model.Address{
			PostalCode:   r.PostalCode,
			Street:       r.Street,
			Number:       r.Number,
			Complement:   r.Complement,
			Neighborhood: r.Neighborhood,
			City:         r.City,
			State:        r.State,
		},
		Interest:     r.Interest,
		SkillLevel:   r.SkillLevel,
		Availability: r.Availability,
		Message:      r.Message,
	}
}

// RegisterVolunteer godoc
// @Summary Volunteer sign-up
// @Tags volunteers
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Sign-up form"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /volunteers/register [post]
func (h *UserHandler) RegisterVolunteer(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	ok, fields := validation.ValidateData(h.registration, req.formData(), uniqueEmail(ctx, h.svc))
	if !ok {
		return respondError(c, &apperrors.ValidationError{Fields: fields})
	}

	user := req.user()
	created, err := h.svc.Register(ctx, &user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created.Sanitized())
}

// ListVolunteers godoc
// @Summary List volunteers
// @Tags volunteers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Router /volunteers [get]
func (h *UserHandler) ListVolunteers(c echo.Context) error {
	users, err := h.svc.ListVolunteers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, model.SanitizeUsers(users))
}

// CreateUser godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body model.User true "User payload"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var user model.User
	if err := c.Bind(&user); err != nil {
		return badRequest("invalid request body")
	}
	if user.Role == "" {
		user.Role = model.RoleVolunteer
	}
	created, err := h.svc.CreateUser(c.Request().Context(), &user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created.Sanitized())
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user.Sanitized())
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, model.SanitizeUsers(users))
}

// UpdateUser godoc
// @Summary Patch user fields
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param patch body object true "Fields to replace"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	patch := map[string]any{}
	if err := bindBody(c, &patch); err != nil {
		return badRequest("invalid request body")
	}
	user, err := h.svc.UpdateUser(c.Request().Context(), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user.Sanitized())
}

// DeleteUser godoc
// @Summary Delete user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.DeleteUser(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user.Sanitized())
}
