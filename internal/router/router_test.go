package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clegacy/internal/app"
	"clegacy/internal/auth"
	"clegacy/internal/cache"
	"clegacy/internal/config"
	apperrors "clegacy/internal/errors"
	"clegacy/internal/handler"
	"clegacy/internal/model"
	"clegacy/internal/pages"
	"clegacy/internal/ratelimit"
	"clegacy/internal/spa"
	"clegacy/internal/storage"
)

type fakeLookup map[string]model.Address

func (f fakeLookup) Lookup(_ context.Context, code string) (*model.Address, bool) {
	addr, ok := f[code]
	if !ok {
		return nil, false
	}
	return &addr, true
}

type server struct {
	e     *echo.Echo
	app   *app.App
	redis *miniredis.Miniredis
}

func newServer(t *testing.T, loginLimit int) *server {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	a := app.NewWithStore(storage.NewMemoryStore(), c, false, nil, time.Now)
	a.Hasher.Cost = 4
	_, err := a.Seed(context.Background())
	require.NoError(t, err)

	cfg := config.Default()
	jwtSvc := auth.NewJWTService("test-secret")
	tokens := auth.NewTokenStore(c)

	var attempts *ratelimit.Attempts
	if loginLimit > 0 {
		attempts, err = ratelimit.NewAttempts(c.Redis(), "test:login", loginLimit, time.Hour)
		require.NoError(t, err)
	}

	site, err := pages.New(a.Users, a.Projects, a.Sessions, a.Statistics, a.AccessLog)
	require.NoError(t, err)
	table := spa.NewTable()
	site.Register(table)

	users, err := handler.NewUserHandler(a.Users)
	require.NoError(t, err)

	e := echo.New()
	Register(e, cfg, jwtSvc, tokens, Handlers{
		Auth:       handler.NewAuthHandler(a.Sessions, jwtSvc, tokens, attempts),
		Users:      users,
		Projects:   handler.NewProjectHandler(a.Projects),
		Statistics: handler.NewStatisticsHandler(a.Statistics, a.AccessLog),
		Postal: handler.NewPostalHandler(fakeLookup{
			"01310100": {PostalCode: "01310-100", Street: "Avenida Paulista", City: "São Paulo", State: "SP"},
		}),
		Forms: handler.NewFormHandler(a.Users),
		App:   handler.NewAppHandler(table, time.Second),
		Seed:  handler.NewSeedHandler(a.Users, a.Projects),
	})
	return &server{e: e, app: a, redis: mr}
}

func (s *server) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *server) login(t *testing.T, email, password string) handler.AuthResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp handler.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthz(t *testing.T) {
	s := newServer(t, 0)
	rec := s.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestLoginSessionLogout(t *testing.T) {
	s := newServer(t, 0)

	auth := s.login(t, "admin@clegacy.org", "admin123")
	assert.Equal(t, "/admin", auth.Redirect)
	assert.Equal(t, model.RoleAdmin, auth.Session.Role)
	assert.NotEmpty(t, auth.RefreshToken)

	rec := s.do(t, http.MethodGet, "/api/session", auth.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var session handler.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, "Maria Silva Santos", session.Session.UserName)

	rec = s.do(t, http.MethodPost, "/api/auth/logout", auth.AccessToken, `{"refresh_token":"`+auth.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/session", auth.AccessToken, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "NOT_AUTHENTICATED", decodeError(t, rec).Code)

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", `{"refresh_token":"`+auth.RefreshToken+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	entries, err := s.app.AccessLog.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.ActionLogout, entries[1].Action)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := newServer(t, 0)

	for _, body := range []string{
		`{"email":"admin@clegacy.org","password":"wrong-password"}`,
		`{"email":"nobody@clegacy.org","password":"admin123"}`,
	} {
		rec := s.do(t, http.MethodPost, "/api/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, rec).Code)
	}

	rec := s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_RateLimited(t *testing.T) {
	s := newServer(t, 2)
	body := `{"email":"admin@clegacy.org","password":"wrong-password"}`

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/login", "", body).Code)
	}
	rec := s.do(t, http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "TOO_MANY_ATTEMPTS", decodeError(t, rec).Code)
	assert.Equal(t, "3600", rec.Header().Get(echo.HeaderRetryAfter))
}

func TestLogin_SuccessClearsAttempts(t *testing.T) {
	s := newServer(t, 2)
	bad := `{"email":"admin@clegacy.org","password":"wrong-password"}`

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/login", "", bad).Code)
	s.login(t, "admin@clegacy.org", "admin123")
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/login", "", bad).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/auth/login", "", bad).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(t, http.MethodPost, "/api/auth/login", "", bad).Code)
}

func TestRefresh_RotatesAndKeepsSession(t *testing.T) {
	s := newServer(t, 0)
	first := s.login(t, "ana.ferreira@email.com", "voluntario123")

	rec := s.do(t, http.MethodPost, "/api/auth/refresh", "", `{"refresh_token":"`+first.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var second handler.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	rec = s.do(t, http.MethodGet, "/api/session", second.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// the first refresh token was consumed
	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", `{"refresh_token":"`+first.RefreshToken+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", decodeError(t, rec).Code)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	s := newServer(t, 0)
	admin := s.login(t, "admin@clegacy.org", "admin123")

	rec := s.do(t, http.MethodGet, "/api/users", admin.RefreshToken, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/auth/refresh", "", `{"refresh_token":"`+admin.AccessToken+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", decodeError(t, rec).Code)

	rec = s.do(t, http.MethodPost, "/api/auth/logout", admin.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		path := "/api/users"
		if method == http.MethodDelete {
			path = "/api/users/2"
		}
		rec = s.do(t, method, path, admin.RefreshToken, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, method)
	}

	_, err := s.app.Users.GetUser(context.Background(), 2)
	assert.NoError(t, err)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := newServer(t, 0)
	admin := s.login(t, "admin@clegacy.org", "admin123")
	volunteer := s.login(t, "joao.oliveira@email.com", "voluntario123")

	rec := s.do(t, http.MethodGet, "/api/session", admin.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)

	rec = s.do(t, http.MethodGet, "/api/session", volunteer.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"volunteer"`)
}

func TestAdminRoutes(t *testing.T) {
	s := newServer(t, 0)
	admin := s.login(t, "admin@clegacy.org", "admin123")
	volunteer := s.login(t, "joao.oliveira@email.com", "voluntario123")

	rec := s.do(t, http.MethodGet, "/api/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/users", volunteer.AccessToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Code)

	rec = s.do(t, http.MethodGet, "/api/volunteers", admin.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "$2a$")
	var volunteers []model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &volunteers))
	assert.Len(t, volunteers, 5)
}

func TestUserCRUD(t *testing.T) {
	s := newServer(t, 0)
	token := s.login(t, "admin@clegacy.org", "admin123").AccessToken

	rec := s.do(t, http.MethodPost, "/api/users", token, `{"name":"Paula Reis","email":"paula@email.com","password":"segredo1","active":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, model.RoleVolunteer, created.Role)
	assert.Empty(t, created.Password)

	rec = s.do(t, http.MethodPut, "/api/users/7", token, `{"volunteerHours":12}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"volunteerHours":12`)
	assert.Contains(t, rec.Body.String(), `"email":"paula@email.com"`)

	rec = s.do(t, http.MethodDelete, "/api/users/7", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/users/7", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "USER_NOT_FOUND", decodeError(t, rec).Code)

	rec = s.do(t, http.MethodGet, "/api/users/abc", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjects(t *testing.T) {
	s := newServer(t, 0)
	token := s.login(t, "admin@clegacy.org", "admin123").AccessToken

	rec := s.do(t, http.MethodGet, "/api/projects/1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fundingPercentage":"84.0"`)

	rec = s.do(t, http.MethodPost, "/api/projects", "", `{"title":"Oficina"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/projects", token, `{"title":"Oficina de Ponteiros","status":"active","fundingGoal":"1000","fundingRaised":"250"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"id":6`)

	rec = s.do(t, http.MethodDelete, "/api/projects/99", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

const validRegistration = `{
	"name": "Lucas Almeida",
	"email": "lucas@email.com",
	"password": "segredo1",
	"nationalId": "529.982.247-25",
	"phone": "(11) 98765-4321",
	"birthDate": "1990-05-08",
	"postalCode": "01310-100",
	"street": "Av. Paulista",
	"number": "900",
	"city": "São Paulo",
	"state": "SP",
	"interest": "voluntario-instrutor",
	"terms": true
}`

func TestRegisterVolunteer(t *testing.T) {
	s := newServer(t, 0)

	rec := s.do(t, http.MethodPost, "/api/volunteers/register", "", validRegistration)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, model.RoleVolunteer, created.Role)
	assert.Equal(t, "São Paulo", created.Address.City)
	assert.Empty(t, created.Password)

	rec = s.do(t, http.MethodPost, "/api/volunteers/register", "", validRegistration)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Este email já está cadastrado", decodeError(t, rec).Fields["email"])

	s.login(t, "lucas@email.com", "segredo1")
}

func TestRegisterVolunteer_Invalid(t *testing.T) {
	s := newServer(t, 0)

	invalid := strings.Replace(validRegistration, `"terms": true`, `"terms": false`, 1)
	invalid = strings.Replace(invalid, "529.982.247-25", "111.111.111-11", 1)
	rec := s.do(t, http.MethodPost, "/api/volunteers/register", "", invalid)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", resp.Code)
	assert.Equal(t, "CPF inválido", resp.Fields["nationalId"])
	assert.Equal(t, "Você deve aceitar os termos de uso", resp.Fields["terms"])

	rec = s.do(t, http.MethodPost, "/api/volunteers/register", "", `{"name":"Ana"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormValidate(t *testing.T) {
	s := newServer(t, 0)

	rec := s.do(t, http.MethodPost, "/api/forms/login/validate", "", `{"email":"bad","password":"123456"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.FormValidationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Equal(t, map[string]string{"email": "Email inválido"}, resp.Errors)

	rec = s.do(t, http.MethodPost, "/api/forms/survey/validate", "", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "FORM_NOT_FOUND", decodeError(t, rec).Code)
}

func TestPostalLookup(t *testing.T) {
	s := newServer(t, 0)

	rec := s.do(t, http.MethodGet, "/api/postal/01310100", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"street":"Avenida Paulista"`)

	rec = s.do(t, http.MethodGet, "/api/postal/99999999", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "POSTAL_CODE_NOT_FOUND", decodeError(t, rec).Code)
}

func TestAccessLogAndStatistics(t *testing.T) {
	s := newServer(t, 0)
	token := s.login(t, "admin@clegacy.org", "admin123").AccessToken
	s.login(t, "ana.ferreira@email.com", "voluntario123")

	rec := s.do(t, http.MethodGet, "/api/access-log?limit=1", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []model.AccessLogEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Ana Carolina Ferreira", entries[0].UserName)

	rec = s.do(t, http.MethodGet, "/api/access-log?limit=-2", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/statistics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats model.Statistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalAccesses)
	assert.Equal(t, 2, stats.AccessesToday)
}

func TestSeedEndpoint(t *testing.T) {
	s := newServer(t, 0)
	token := s.login(t, "admin@clegacy.org", "admin123").AccessToken

	rec := s.do(t, http.MethodPost, "/api/seed", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"usersSeeded":false,"projects":5}`, rec.Body.String())
}

func TestAppRender(t *testing.T) {
	s := newServer(t, 0)

	rec := s.do(t, http.MethodGet, "/app?route=/admin", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.AppResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, pages.RouteLogin, resp.Route)

	volunteer := s.login(t, "ana.ferreira@email.com", "voluntario123")
	rec = s.do(t, http.MethodGet, "/app?route=/admin", volunteer.AccessToken, "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, pages.RouteVolunteer, resp.Route)
	assert.Contains(t, resp.Content, "Ana Carolina Ferreira")

	rec = s.do(t, http.MethodGet, "/app?route=/projects/detail?id=2", "", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, pages.RouteProjectDetail, resp.Route)
	assert.Contains(t, resp.Content, "Bootcamp Avançado")

	rec = s.do(t, http.MethodGet, "/app?route=/register", "", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Scripts, 2)
}
