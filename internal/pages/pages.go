// Package pages renders the routes of the site as HTML fragments for the
// client-side router.
package pages

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"

	apperrors "clegacy/internal/errors"
	"clegacy/internal/model"
	"clegacy/internal/service"
	"clegacy/internal/spa"
)

//go:embed templates/*.html
var templateFS embed.FS

// Routes served by Pages.
const (
	RouteHome          = "/"
	RouteProjects      = "/projects"
	RouteProjectDetail = "/projects/detail"
	RouteRegister      = "/register"
	RouteLogin         = "/login"
	RouteAdmin         = "/admin"
	RouteVolunteer     = "/volunteer"
)

const (
	featuredProjects = 3
	recentAccesses   = 20
)

// Pages renders every route from the service layer.
type Pages struct {
	users     service.UserService
	projects  service.ProjectService
	sessions  service.SessionService
	stats     service.StatisticsService
	accessLog service.AccessLogger
	tmpl      *template.Template
}

// New parses the embedded templates.
func New(users service.UserService, projects service.ProjectService, sessions service.SessionService, stats service.StatisticsService, accessLog service.AccessLogger) (*Pages, error) {
	tmpl, err := template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Pages{
		users:     users,
		projects:  projects,
		sessions:  sessions,
		stats:     stats,
		accessLog: accessLog,
		tmpl:      tmpl,
	}, nil
}

// Register adds every page, including the not-found page, to t.
func (p *Pages) Register(t *spa.Table) {
	t.Register(RouteHome, p.Home)
	t.Register(RouteProjects, p.Projects)
	t.Register(RouteProjectDetail, p.ProjectDetail)
	t.Register(RouteRegister, p.SignUp)
	t.Register(RouteLogin, p.Login)
	t.Register(RouteAdmin, p.Admin)
	t.Register(RouteVolunteer, p.Volunteer)
	t.Register(spa.NotFoundRoute, p.NotFound)
}

type queryKey struct{}

// WithQuery attaches the query string of the requested route to ctx.
func WithQuery(ctx context.Context, q url.Values) context.Context {
	return context.WithValue(ctx, queryKey{}, q)
}

// QueryFrom returns the query set by WithQuery, never nil.
func QueryFrom(ctx context.Context) url.Values {
	if q, ok := ctx.Value(queryKey{}).(url.Values); ok && q != nil {
		return q
	}
	return url.Values{}
}

// SplitRoute separates "/projects/detail?id=2" into its route and query.
// A malformed query is dropped.
func SplitRoute(raw string) (string, url.Values) {
	route, rawQuery, _ := strings.Cut(strings.TrimSpace(raw), "?")
	if route == "" {
		route = RouteHome
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		q = url.Values{}
	}
	return route, q
}

func (p *Pages) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// guard turns a failed access check into a router redirect.
func guard(err error) error {
	var redirect *apperrors.RedirectError
	if errors.As(err, &redirect) {
		return &spa.Redirect{Route: redirect.Location}
	}
	return err
}

var notFound = &spa.Redirect{Route: spa.NotFoundRoute}

type projectCard struct {
	model.Project
	Percent string
}

func cards(projects []model.Project) []projectCard {
	out := make([]projectCard, 0, len(projects))
	for _, pr := range projects {
		out = append(out, projectCard{Project: pr, Percent: pr.FundingPercentage().StringFixed(1)})
	}
	return out
}

type homeView struct {
	Stats    *model.Statistics
	Featured []projectCard
	Session  *model.Session
}

// Home renders the landing page with the live statistics.
func (p *Pages) Home(ctx context.Context) (string, error) {
	stats, err := p.stats.Compute(ctx)
	if err != nil {
		return "", err
	}
	projects, err := p.projects.ListProjects(ctx)
	if err != nil {
		return "", err
	}
	featured := make([]model.Project, 0, featuredProjects)
	for _, pr := range projects {
		if pr.Status == model.ProjectStatusActive && len(featured) < featuredProjects {
			featured = append(featured, pr)
		}
	}
	session, err := p.sessions.Current(ctx)
	if err != nil {
		return "", err
	}
	return p.render("home", homeView{Stats: stats, Featured: cards(featured), Session: session})
}

// Projects renders every project card.
func (p *Pages) Projects(ctx context.Context) (string, error) {
	projects, err := p.projects.ListProjects(ctx)
	if err != nil {
		return "", err
	}
	return p.render("projects", cards(projects))
}

// ProjectDetail renders the project named by the id query parameter.
// A missing or unknown id shows the not-found page.
func (p *Pages) ProjectDetail(ctx context.Context) (string, error) {
	id, err := strconv.Atoi(QueryFrom(ctx).Get("id"))
	if err != nil {
		return "", notFound
	}
	project, err := p.projects.GetProject(ctx, id)
	if errors.Is(err, apperrors.ErrProjectNotFound) {
		return "", notFound
	}
	if err != nil {
		return "", err
	}
	return p.render("project_detail", cards([]model.Project{*project})[0])
}

type registerView struct {
	RuleSet   string
	Interests []option
	Levels    []option
}

type option struct {
	Value string
	Label string
}

var interests = []option{
	{"voluntario-instrutor", "Instrutor de programação C"},
	{"voluntario-mentor", "Mentor de projetos"},
	{"voluntario-conteudo", "Produção de conteúdo"},
	{"voluntario-eventos", "Organização de eventos"},
	{"voluntario-tecnico", "Suporte técnico"},
}

var levels = []option{
	{"iniciante", "Iniciante"},
	{"intermediario", "Intermediário"},
	{"avancado", "Avançado"},
	{"expert", "Expert"},
}

// SignUp renders the volunteer registration form.
func (p *Pages) SignUp(_ context.Context) (string, error) {
	return p.render("register", registerView{RuleSet: "registration", Interests: interests, Levels: levels})
}

// Login renders the login form, or sends a signed-in visitor to their
// landing page.
func (p *Pages) Login(ctx context.Context) (string, error) {
	session, err := p.sessions.Current(ctx)
	if err != nil {
		return "", err
	}
	if session != nil {
		return "", &spa.Redirect{Route: service.LandingPage(session.Role)}
	}
	return p.render("login", nil)
}

type adminView struct {
	Session    *model.Session
	Stats      *model.Statistics
	Volunteers []model.User
	Projects   []projectCard
	Accesses   []model.AccessLogEntry
}

// Admin renders the administrator dashboard.
func (p *Pages) Admin(ctx context.Context) (string, error) {
	session, err := p.sessions.RequireRole(ctx, model.RoleAdmin)
	if err != nil {
		return "", guard(err)
	}
	stats, err := p.stats.Compute(ctx)
	if err != nil {
		return "", err
	}
	volunteers, err := p.users.ListVolunteers(ctx)
	if err != nil {
		return "", err
	}
	projects, err := p.projects.ListProjects(ctx)
	if err != nil {
		return "", err
	}
	accesses, err := p.accessLog.Recent(ctx, recentAccesses)
	if err != nil {
		return "", err
	}
	return p.render("admin", adminView{
		Session:    session,
		Stats:      stats,
		Volunteers: model.SanitizeUsers(volunteers),
		Projects:   cards(projects),
		Accesses:   accesses,
	})
}

type volunteerView struct {
	Session  *model.Session
	Profile  model.User
	Projects []projectCard
}

// Volunteer renders the signed-in volunteer's area.
func (p *Pages) Volunteer(ctx context.Context) (string, error) {
	session, err := p.sessions.RequireRole(ctx, model.RoleVolunteer)
	if err != nil {
		return "", guard(err)
	}
	profile, err := p.users.GetUser(ctx, session.UserID)
	if err != nil {
		return "", err
	}
	projects, err := p.projects.ListProjects(ctx)
	if err != nil {
		return "", err
	}
	active := make([]model.Project, 0, len(projects))
	for _, pr := range projects {
		if pr.Status == model.ProjectStatusActive {
			active = append(active, pr)
		}
	}
	return p.render("volunteer", volunteerView{Session: session, Profile: profile.Sanitized(), Projects: cards(active)})
}

// NotFound renders the fallback page.
func (p *Pages) NotFound(_ context.Context) (string, error) {
	return p.render("not_found", nil)
}
