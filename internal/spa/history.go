package spa

import (
	"strings"
	"sync"
)

// HistoryState is the state attached to a history entry.
type HistoryState struct {
	Route string `json:"route"`
}

// History is the browser session history.
type History interface {
	Push(state HistoryState)
	// Back and Forward move through the entries and return the state of
	// the entry moved to; nil when it has none or the move is impossible.
	Back() *HistoryState
	Forward() *HistoryState
}

// MemoryHistory is an in-process History. It starts on one entry without
// state, like a freshly loaded page.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []*HistoryState
	index   int
}

// NewMemoryHistory returns a history positioned on its initial entry.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{entries: []*HistoryState{nil}}
}

// Push drops any forward entries and appends state.
func (h *MemoryHistory) Push(state HistoryState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.index+1], &state)
	h.index = len(h.entries) - 1
}

func (h *MemoryHistory) Back() *HistoryState {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index == 0 {
		return nil
	}
	h.index--
	return h.entries[h.index]
}

func (h *MemoryHistory) Forward() *HistoryState {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index+1 >= len(h.entries) {
		return nil
	}
	h.index++
	return h.entries[h.index]
}

// Len returns the number of entries, including the initial one.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Routes lists the routes of the entries that carry state.
func (h *MemoryHistory) Routes() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var routes []string
	for _, e := range h.entries {
		if e != nil {
			routes = append(routes, e.Route)
		}
	}
	return routes
}

// RouteFromHash returns the route of a location hash such as "#/projects".
// An empty hash is the home route.
func RouteFromHash(hash string) string {
	route := strings.TrimPrefix(hash, "#")
	if route == "" {
		return "/"
	}
	return route
}
