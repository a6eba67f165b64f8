package spa

import (
	"context"
	"sort"
	"sync"
)

// NotFoundRoute is rendered for routes without a handler.
const NotFoundRoute = "/404"

// Handler produces the markup of one route.
type Handler func(ctx context.Context) (string, error)

// Table maps routes to handlers. Registering a route again replaces its
// handler.
type Table struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewTable returns an empty route table.
func NewTable() *Table {
	return &Table{handlers: make(map[string]Handler)}
}

func (t *Table) Register(route string, h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[route] = h
}

func (t *Table) Lookup(route string) (Handler, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, ok := t.handlers[route]
	return h, ok
}

// Routes lists the registered routes in lexical order.
func (t *Table) Routes() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	routes := make([]string, 0, len(t.handlers))
	for r := range t.handlers {
		routes = append(routes, r)
	}
	sort.Strings(routes)
	return routes
}
