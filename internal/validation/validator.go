package validation

import (
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// DefaultDebounce is the quiet period OnInput waits before validating.
const DefaultDebounce = 500 * time.Millisecond

// EventType identifies a validator notification.
type EventType string

const (
	EventFieldValid   EventType = "fieldValid"
	EventFieldInvalid EventType = "fieldInvalid"
	EventFieldCleared EventType = "fieldCleared"
	EventFormValid    EventType = "formValid"
	EventFormInvalid  EventType = "formInvalid"
)

// Event is delivered to subscribers. FormValid carries Data, FormInvalid
// carries Errors, field events carry Field and Message.
type Event struct {
	Type    EventType
	Field   string
	Message string
	Data    map[string]string
	Errors  map[string]string
}

// FieldState is the last outcome shown for a field.
type FieldState int

const (
	StateUnvalidated FieldState = iota
	StateValid
	StateInvalid
)

// Option configures a Validator.
type Option func(*Validator)

// WithDebounce sets the OnInput quiet period.
func WithDebounce(d time.Duration) Option {
	return func(v *Validator) { v.debounce = d }
}

// WithClock sets the time source for minAge.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// WithLogger sets the logger used for rule configuration problems.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) { v.logger = logger }
}

// Validator runs rule pipelines over the fields of one form.
type Validator struct {
	form     Form
	debounce time.Duration
	now      func() time.Time
	logger   *slog.Logger

	mu          sync.Mutex
	rules       map[string][]Rule
	custom      map[string]CustomValidator
	errors      map[string]string
	states      map[string]FieldState
	generations map[string]uint64
	timers      map[string]*time.Timer
	listeners   []func(Event)

	patterns sync.Map // pattern source -> *regexp.Regexp
	exprs    *exprCache
}

// New builds a Validator for form.
func New(form Form, opts ...Option) *Validator {
	v := &Validator{
		form:        form,
		debounce:    DefaultDebounce,
		now:         time.Now,
		logger:      slog.Default(),
		rules:       make(map[string][]Rule),
		custom:      make(map[string]CustomValidator),
		errors:      make(map[string]string),
		states:      make(map[string]FieldState),
		generations: make(map[string]uint64),
		timers:      make(map[string]*time.Timer),
		exprs:       newExprCache(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// AddRule replaces the rules of one field.
func (v *Validator) AddRule(field string, rules ...Rule) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rules[field] = append([]Rule(nil), rules...)
}

// AddRules merges a field to rules map, replacing the fields it names.
func (v *Validator) AddRules(rules map[string][]Rule) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for field, rs := range rules {
		v.rules[field] = append([]Rule(nil), rs...)
	}
}

// AddCustomValidator registers fn under name for rules of that kind.
func (v *Validator) AddCustomValidator(name string, fn CustomValidator) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.custom[name] = fn
}

// Subscribe registers fn for every event. Field events may arrive from the
// debounce timer goroutine.
func (v *Validator) Subscribe(fn func(Event)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, fn)
}

// ValidateField applies the rules of name in order and stops at the first
// failure. Fields without rules are valid.
func (v *Validator) ValidateField(name string) (bool, string) {
	v.mu.Lock()
	rules := v.rules[name]
	v.mu.Unlock()
	if len(rules) == 0 {
		return true, ""
	}

	field, _ := v.form.Field(name)
	value := strings.TrimSpace(field.Value)

	valid, message := true, ""
	for _, rule := range rules {
		if !v.apply(rule, value, field) {
			valid, message = false, rule.message()
			break
		}
	}

	ev := Event{Type: EventFieldValid, Field: name}
	v.mu.Lock()
	if valid {
		delete(v.errors, name)
		v.states[name] = StateValid
	} else {
		v.errors[name] = message
		v.states[name] = StateInvalid
		ev.Type, ev.Message = EventFieldInvalid, message
	}
	v.mu.Unlock()

	v.emit(ev)
	return valid, message
}

// ValidateAll validates every field of the form, collecting all failures,
// and emits FormValid or FormInvalid.
func (v *Validator) ValidateAll() bool {
	v.mu.Lock()
	v.errors = make(map[string]string)
	v.mu.Unlock()

	valid := true
	for _, name := range v.form.Names() {
		if ok, _ := v.ValidateField(name); !ok {
			valid = false
		}
	}

	if valid {
		v.emit(Event{Type: EventFormValid, Data: Data(v.form)})
	} else {
		v.emit(Event{Type: EventFormInvalid, Errors: v.Errors()})
	}
	return valid
}

// OnBlur validates the field immediately.
func (v *Validator) OnBlur(name string) (bool, string) {
	v.cancelPending(name)
	return v.ValidateField(name)
}

// OnInput clears the field error and validates the field once no newer
// input arrived for the debounce period.
func (v *Validator) OnInput(name string) {
	v.mu.Lock()
	v.generations[name]++
	gen := v.generations[name]
	if t := v.timers[name]; t != nil {
		t.Stop()
	}
	delete(v.errors, name)
	v.states[name] = StateUnvalidated
	v.timers[name] = time.AfterFunc(v.debounce, func() {
		v.mu.Lock()
		current := v.generations[name] == gen
		if current {
			delete(v.timers, name)
		}
		v.mu.Unlock()
		if current {
			v.ValidateField(name)
		}
	})
	v.mu.Unlock()

	v.emit(Event{Type: EventFieldCleared, Field: name})
}

func (v *Validator) cancelPending(name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generations[name]++
	if t := v.timers[name]; t != nil {
		t.Stop()
		delete(v.timers, name)
	}
}

// Reset drops errors, states and pending validations. A form with a Reset
// method is cleared too.
func (v *Validator) Reset() {
	v.mu.Lock()
	for name, t := range v.timers {
		t.Stop()
		v.generations[name]++
	}
	v.timers = make(map[string]*time.Timer)
	v.errors = make(map[string]string)
	v.states = make(map[string]FieldState)
	v.mu.Unlock()

	if r, ok := v.form.(interface{ Reset() }); ok {
		r.Reset()
	}
}

// Errors returns a copy of the current field errors.
func (v *Validator) Errors() map[string]string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return maps.Clone(v.errors)
}

// State returns the last outcome of a field.
func (v *Validator) State(name string) FieldState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.states[name]
}

func (v *Validator) emit(ev Event) {
	v.mu.Lock()
	listeners := slices.Clone(v.listeners)
	v.mu.Unlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

// apply reports whether value satisfies rule.
func (v *Validator) apply(rule Rule, value string, field Field) bool {
	switch rule.kind() {
	case KindRequired:
		return value != ""
	case KindEmail:
		return value == "" || ValidEmail(value)
	case KindNationalID:
		return value == "" || ValidCPF(value)
	case KindPhone:
		return value == "" || ValidPhone(value)
	case KindPostalCode:
		return value == "" || ValidPostalCode(value)
	case KindMinLength:
		return value == "" || utf8.RuneCountInString(value) >= rule.Length
	case KindMaxLength:
		return value == "" || utf8.RuneCountInString(value) <= rule.Length
	case KindMin:
		if value == "" {
			return true
		}
		n, ok := parseNumber(value)
		return ok && n >= rule.Value
	case KindMax:
		if value == "" {
			return true
		}
		n, ok := parseNumber(value)
		return ok && n <= rule.Value
	case KindPattern:
		if value == "" {
			return true
		}
		re, err := v.pattern(rule.Pattern)
		if err != nil {
			v.logger.Warn("invalid validation pattern", "pattern", rule.Pattern, "error", err)
			return false
		}
		return re.MatchString(value)
	case KindMatch:
		// The sibling is compared as typed, so "abc " never matches "abc".
		other, ok := v.form.Field(rule.Field)
		return !ok || value == other.Value
	case KindDate:
		if value == "" {
			return true
		}
		_, ok := ParseDate(value)
		return ok
	case KindMinAge:
		if value == "" {
			return true
		}
		birth, ok := ParseDate(value)
		return ok && AgeOn(birth, v.now()) >= rule.Age
	case KindCustom:
		return rule.Predicate == nil || rule.Predicate(value, field)
	case KindExpr:
		ok, err := v.exprs.eval(rule.Expression, value, field, rule.Params, Data(v.form))
		if err != nil {
			v.logger.Warn("validation expression failed", "expression", rule.Expression, "error", err)
			return false
		}
		return ok
	default:
		v.mu.Lock()
		fn := v.custom[string(rule.Kind)]
		v.mu.Unlock()
		return fn == nil || fn(value, rule.Params, field)
	}
}

func (v *Validator) pattern(src string) (*regexp.Regexp, error) {
	if re, ok := v.patterns.Load(src); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, err
	}
	v.patterns.Store(src, re)
	return re, nil
}
