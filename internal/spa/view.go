package spa

import "sync"

// View is the content region the router renders into.
type View interface {
	ShowLoading()
	HideLoading()
	Render(content string)
	RenderError(message string)
	ScrollToTop()
}

// MemoryView records what a browser would display.
type MemoryView struct {
	mu       sync.Mutex
	loading  bool
	content  string
	errorMsg string
	renders  int
	scrolls  int
}

func (v *MemoryView) ShowLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = true
}

func (v *MemoryView) HideLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
}

func (v *MemoryView) Render(content string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.content, v.errorMsg = content, ""
	v.renders++
}

func (v *MemoryView) RenderError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.content, v.errorMsg = errorMarkup(message), message
	v.renders++
}

func (v *MemoryView) ScrollToTop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrolls++
}

// Loading reports whether the busy indicator is visible.
func (v *MemoryView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Content returns the markup currently shown.
func (v *MemoryView) Content() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.content
}

// Error returns the message of the error view, "" when content is shown.
func (v *MemoryView) Error() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errorMsg
}

// Renders counts Render and RenderError calls.
func (v *MemoryView) Renders() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renders
}
