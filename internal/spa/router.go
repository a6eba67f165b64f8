package spa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"
)

var (
	// ErrSuperseded is returned by a navigation whose result was discarded
	// because a newer navigation started meanwhile.
	ErrSuperseded = errors.New("navigation superseded")
	// ErrNoFallback is returned when neither the route nor NotFoundRoute
	// has a handler.
	ErrNoFallback = errors.New("no handler for " + NotFoundRoute)
	// ErrTooManyRedirects stops redirect cycles between handlers.
	ErrTooManyRedirects = errors.New("too many redirects")
)

const maxRedirects = 5

// Redirect is returned by a handler to send the router to another route.
type Redirect struct {
	Route string
}

func (r *Redirect) Error() string { return "redirect to " + r.Route }

// Navigated is broadcast after every successful navigation.
type Navigated struct {
	Route string
}

// Option configures a Router.
type Option func(*Router)

// WithHistory records navigations in h.
func WithHistory(h History) Option {
	return func(r *Router) { r.history = h }
}

// WithScriptRunner runs the scripts of rendered content.
func WithScriptRunner(s ScriptRunner) Option {
	return func(r *Router) { r.scripts = s }
}

// WithTimeout bounds every handler call. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Router) { r.timeout = d }
}

// WithLogger sets the router logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// Router drives navigation between the routes of a Table.
type Router struct {
	table   *Table
	view    View
	history History
	scripts ScriptRunner
	timeout time.Duration
	logger  *slog.Logger

	// mu guards route state only; View, History and ScriptRunner are
	// called without it so they may call back into the router.
	mu         sync.Mutex
	current    string
	generation uint64
	listeners  []func(Navigated)

	// loadingMu orders ShowLoading/HideLoading with the in-flight count.
	loadingMu sync.Mutex
	inFlight  int
}

// NewRouter builds a Router rendering into view.
func NewRouter(table *Table, view View, opts ...Option) *Router {
	r := &Router{table: table, view: view, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces a route handler.
func (r *Router) Register(route string, h Handler) {
	r.table.Register(route, h)
}

// CurrentRoute returns the route of the last applied navigation, "" before
// the first one.
func (r *Router) CurrentRoute() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Subscribe registers fn for Navigated notifications.
func (r *Router) Subscribe(fn func(Navigated)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// NavigateTo renders route, falling back to NotFoundRoute for unknown
// routes. On success the content is shown, its scripts run, a history entry
// is pushed when record is set, and Navigated is broadcast. A failing
// handler shows the error view and leaves the current route and history
// untouched. The loading indicator is cleared once no navigation is left in
// flight. Only the latest navigation is applied; older ones return
// ErrSuperseded.
func (r *Router) NavigateTo(ctx context.Context, route string, record bool) error {
	return r.navigate(ctx, route, record, 0)
}

func (r *Router) navigate(ctx context.Context, route string, record bool, redirects int) error {
	if _, ok := r.table.Lookup(route); !ok {
		r.logger.Warn("route not found", "route", route)
		route = NotFoundRoute
	}
	handler, ok := r.table.Lookup(route)

	r.mu.Lock()
	r.generation++
	gen := r.generation
	r.mu.Unlock()

	r.start()
	defer r.finish()

	if !ok {
		return r.fail(gen, ErrNoFallback)
	}

	content, err := r.run(ctx, handler)

	var redirect *Redirect
	if errors.As(err, &redirect) {
		if !r.latest(gen) {
			return ErrSuperseded
		}
		if redirects >= maxRedirects {
			return r.fail(gen, ErrTooManyRedirects)
		}
		return r.navigate(ctx, redirect.Route, record, redirects+1)
	}
	if err != nil {
		return r.fail(gen, err)
	}
	return r.apply(gen, route, content, record)
}

// run calls h, giving up when the timeout or ctx expires even if h does not
// watch its context.
func (r *Router) run(ctx context.Context, h Handler) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	type result struct {
		content string
		err     error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- result{err: fmt.Errorf("handler panic: %v", p)}
			}
		}()
		content, err := h(ctx)
		done <- result{content: content, err: err}
	}()

	select {
	case res := <-done:
		return res.content, res.err
	case <-ctx.Done():
		if r.timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("page took longer than %s to load", r.timeout)
		}
		return "", ctx.Err()
	}
}

func (r *Router) apply(gen uint64, route, content string, record bool) error {
	r.mu.Lock()
	if gen != r.generation {
		r.mu.Unlock()
		return ErrSuperseded
	}
	r.current = route
	r.mu.Unlock()

	r.view.Render(content)
	r.runScripts(route, content)
	// a script may have started another navigation
	if !r.latest(gen) {
		return ErrSuperseded
	}
	if record && r.history != nil {
		r.history.Push(HistoryState{Route: route})
	}
	r.view.ScrollToTop()

	r.mu.Lock()
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()
	for _, fn := range listeners {
		fn(Navigated{Route: route})
	}
	return nil
}

func (r *Router) fail(gen uint64, err error) error {
	if !r.latest(gen) {
		return ErrSuperseded
	}
	r.logger.Error("navigation failed", "error", err)
	r.view.RenderError(err.Error())
	return err
}

func (r *Router) runScripts(route, content string) {
	if r.scripts == nil {
		return
	}
	scripts, err := ExtractScripts(content)
	if err != nil {
		r.logger.Warn("script extraction failed", "route", route, "error", err)
		return
	}
	if len(scripts) == 0 {
		return
	}
	if err := r.scripts.Run(route, scripts); err != nil {
		r.logger.Warn("script execution failed", "route", route, "error", err)
	}
}

func (r *Router) latest(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return gen == r.generation
}

func (r *Router) start() {
	r.loadingMu.Lock()
	defer r.loadingMu.Unlock()
	r.inFlight++
	if r.inFlight == 1 {
		r.view.ShowLoading()
	}
}

func (r *Router) finish() {
	r.loadingMu.Lock()
	defer r.loadingMu.Unlock()
	r.inFlight--
	if r.inFlight == 0 {
		r.view.HideLoading()
	}
}

// HandlePopState re-renders the route of a history entry without pushing a
// new one. Entries without state are ignored.
func (r *Router) HandlePopState(ctx context.Context, state *HistoryState) error {
	if state == nil || state.Route == "" {
		return nil
	}
	return r.NavigateTo(ctx, state.Route, false)
}

// Back moves one entry back in the history.
func (r *Router) Back(ctx context.Context) error {
	if r.history == nil {
		return nil
	}
	return r.HandlePopState(ctx, r.history.Back())
}

// Forward moves one entry forward in the history.
func (r *Router) Forward(ctx context.Context) error {
	if r.history == nil {
		return nil
	}
	return r.HandlePopState(ctx, r.history.Forward())
}

// Start navigates to the route of a location hash and records it.
func (r *Router) Start(ctx context.Context, hash string) error {
	return r.NavigateTo(ctx, RouteFromHash(hash), true)
}
