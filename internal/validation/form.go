package validation

import (
	"maps"
	"slices"
	"sync"
)

// Field is the current state of one form input.
type Field struct {
	Name  string
	Value string
	// Checkbox marks inputs whose submitted value depends on Checked.
	Checkbox bool
	Checked  bool
}

// Form gives the validator read access to the inputs it validates.
type Form interface {
	Field(name string) (Field, bool)
	// Names lists every input in document order.
	Names() []string
}

// Values is a concurrency-safe, ordered Form.
type Values struct {
	mu     sync.RWMutex
	order  []string
	fields map[string]Field
}

// NewValues builds a form from name/value pairs in the given order.
func NewValues(pairs ...string) *Values {
	v := &Values{fields: make(map[string]Field)}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return v
}

// FromMap builds a form from data. Names are sorted for a stable order.
func FromMap(data map[string]string) *Values {
	v := &Values{fields: make(map[string]Field)}
	for _, name := range slices.Sorted(maps.Keys(data)) {
		v.Set(name, data[name])
	}
	return v
}

// Set stores a text value, adding the input if needed.
func (v *Values) Set(name, value string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	f, ok := v.fields[name]
	if !ok {
		v.order = append(v.order, name)
		f.Name = name
	}
	f.Value = value
	v.fields[name] = f
}

// SetChecked stores a checkbox state.
func (v *Values) SetChecked(name string, checked bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	f, ok := v.fields[name]
	if !ok {
		v.order = append(v.order, name)
		f = Field{Name: name, Value: "on"}
	}
	f.Checkbox = true
	f.Checked = checked
	v.fields[name] = f
}

func (v *Values) Field(name string) (Field, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	f, ok := v.fields[name]
	return f, ok
}

func (v *Values) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]string(nil), v.order...)
}

// Reset clears every value and checkbox.
func (v *Values) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for name, f := range v.fields {
		f.Value = ""
		if f.Checkbox {
			f.Value = "on"
		}
		f.Checked = false
		v.fields[name] = f
	}
}

// Data returns the submitted values of form. Unchecked checkboxes are left out.
func Data(form Form) map[string]string {
	data := make(map[string]string)
	for _, name := range form.Names() {
		f, ok := form.Field(name)
		if !ok || (f.Checkbox && !f.Checked) {
			continue
		}
		data[name] = f.Value
	}
	return data
}
