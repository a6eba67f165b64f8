package validation

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return today }

func validate(t *testing.T, rule Rule, value string) (bool, string) {
	t.Helper()
	form := NewValues("field", value, "other", "segredo")
	v := New(form, WithClock(fixedNow))
	v.AddRule("field", rule)
	return v.ValidateField("field")
}

func TestValidateField_RequiredThenMinLength(t *testing.T) {
	tests := []struct {
		value   string
		valid   bool
		message string
	}{
		{value: "", message: "Este campo é obrigatório"},
		{value: "   ", message: "Este campo é obrigatório"},
		{value: "ab", message: "Mínimo de 3 caracteres"},
		{value: "abc", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			form := NewValues("name", tt.value)
			v := New(form)
			v.AddRule("name", Required(), MinLength(3))

			valid, message := v.ValidateField("name")
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		value string
		valid bool
	}{
		{name: "email ok", rule: Email(), value: "ana@email.com", valid: true},
		{name: "email bad", rule: Email(), value: "ana@email"},
		{name: "email empty passes", rule: Email(), value: "", valid: true},
		{name: "cpf ok", rule: NationalID(), value: "111.444.777-35", valid: true},
		{name: "cpf repeated digits", rule: NationalID(), value: "111.111.111-11"},
		{name: "cpf alias", rule: Rule{Kind: "cpf"}, value: "111.444.777-36"},
		{name: "phone mobile", rule: Phone(), value: "(11) 98765-4321", valid: true},
		{name: "phone landline", rule: Phone(), value: "(11) 3456-7890", valid: true},
		{name: "phone bad", rule: Phone(), value: "11987654321"},
		{name: "postal code ok", rule: PostalCode(), value: "01310-100", valid: true},
		{name: "postal code alias bad", rule: Rule{Kind: "cep"}, value: "01310100"},
		{name: "max length counts runes", rule: MaxLength(4), value: "ação", valid: true},
		{name: "max length over", rule: MaxLength(3), value: "ação"},
		{name: "min ok", rule: Min(18), value: "18", valid: true},
		{name: "min under", rule: Min(18), value: "17.5"},
		{name: "min non numeric fails", rule: Min(18), value: "abc"},
		{name: "max ok", rule: Max(10), value: "9.99", valid: true},
		{name: "max non numeric fails", rule: Max(10), value: "5x"},
		{name: "pattern ok", rule: Pattern(`^[a-zA-ZÀ-ÿ\s]+$`), value: "João Pedro", valid: true},
		{name: "pattern bad", rule: Pattern(`^[a-zA-ZÀ-ÿ\s]+$`), value: "R2D2"},
		{name: "invalid pattern fails", rule: Pattern(`(`), value: "x"},
		{name: "match ok", rule: Match("other"), value: "segredo", valid: true},
		{name: "match bad", rule: Match("other"), value: "segredo2"},
		{name: "match missing sibling passes", rule: Match("missing"), value: "x", valid: true},
		{name: "date iso", rule: Date(), value: "1995-03-20", valid: true},
		{name: "date br", rule: Date(), value: "20/03/1995", valid: true},
		{name: "date bad", rule: Date(), value: "1995-02-30"},
		{name: "min age birthday today", rule: MinAge(16), value: "2009-03-14", valid: true},
		{name: "min age birthday tomorrow", rule: MinAge(16), value: "2009-03-15"},
		{name: "min age unparsable", rule: MinAge(16), value: "ontem"},
		{name: "custom", rule: Custom(func(value string, _ Field) bool { return strings.HasPrefix(value, "x") }), value: "xyz", valid: true},
		{name: "custom fails", rule: Custom(func(string, Field) bool { return false }), value: "xyz"},
		{name: "expr", rule: Expr(`len(value) > 2 && form.other == "segredo"`), value: "abc", valid: true},
		{name: "expr false", rule: Expr(`value startsWith "z"`), value: "abc"},
		{name: "expr compile error fails", rule: Expr(`value ==`), value: "abc"},
		{name: "unknown named passes", rule: Named("nobodyRegistered", nil), value: "abc", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, message := validate(t, tt.rule, tt.value)
			assert.Equal(t, tt.valid, valid)
			if !tt.valid {
				assert.NotEmpty(t, message)
			}
		})
	}
}

func TestMatch_SiblingComparedUntrimmed(t *testing.T) {
	form := NewValues("confirm", "segredo", "password", "segredo ")
	v := New(form, WithClock(fixedNow))
	v.AddRule("confirm", Match("password"))

	valid, message := v.ValidateField("confirm")
	assert.False(t, valid)
	assert.Equal(t, Match("password").message(), message)

	form.Set("password", "segredo")
	valid, _ = v.ValidateField("confirm")
	assert.True(t, valid)
}

func TestRuleMessages(t *testing.T) {
	_, message := validate(t, Min(18), "3")
	assert.Equal(t, "Valor mínimo: 18", message)

	_, message = validate(t, MinAge(16), "2020-01-01")
	assert.Equal(t, "Idade mínima: 16 anos", message)

	_, message = validate(t, Required().WithMessage("Nome é obrigatório"), "")
	assert.Equal(t, "Nome é obrigatório", message)
}

func TestValidCPF(t *testing.T) {
	assert.True(t, ValidCPF("111.444.777-35"))
	assert.True(t, ValidCPF("11144477735"))
	assert.False(t, ValidCPF("111.111.111-11"))
	assert.False(t, ValidCPF("111.444.777-45"))
	assert.False(t, ValidCPF("111.444.777-3"))
	assert.False(t, ValidCPF(""))
	assert.False(t, ValidCPF("abc"))

	// pure: same input, same answer
	for i := 0; i < 3; i++ {
		assert.True(t, ValidCPF("111.444.777-35"))
	}
}

func TestAgeOn(t *testing.T) {
	birth := time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 24, AgeOn(birth, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 25, AgeOn(birth, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 24, AgeOn(birth, time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)))
}

func TestNamedCustomValidator(t *testing.T) {
	taken := map[string]bool{"admin@clegacy.org": true}
	form := NewValues("email", "admin@clegacy.org")
	v := New(form)
	v.AddCustomValidator("uniqueEmail", func(value string, _ map[string]any, _ Field) bool {
		return !taken[value]
	})
	v.AddRule("email", Email(), Named("uniqueEmail", nil).WithMessage("Este email já está cadastrado"))

	valid, message := v.ValidateField("email")
	assert.False(t, valid)
	assert.Equal(t, "Este email já está cadastrado", message)

	form.Set("email", "novo@clegacy.org")
	valid, _ = v.ValidateField("email")
	assert.True(t, valid)
}

func TestValidateAll(t *testing.T) {
	form := NewValues("name", "", "email", "bad", "phone", "(11) 98765-4321", "notes", "free text")
	form.SetChecked("terms", false)
	v := New(form)
	v.AddRules(map[string][]Rule{
		"name":  {Required()},
		"email": {Required(), Email()},
		"phone": {Phone()},
		"terms": {Custom(func(_ string, f Field) bool { return f.Checked })},
	})

	var events []Event
	v.Subscribe(func(ev Event) {
		if ev.Type == EventFormValid || ev.Type == EventFormInvalid {
			events = append(events, ev)
		}
	})

	assert.False(t, v.ValidateAll())
	require.Len(t, events, 1)
	assert.Equal(t, EventFormInvalid, events[0].Type)
	assert.Equal(t, map[string]string{
		"name":  "Este campo é obrigatório",
		"email": "Email inválido",
		"terms": "Valor inválido",
	}, events[0].Errors)
	assert.Equal(t, StateInvalid, v.State("name"))
	assert.Equal(t, StateValid, v.State("phone"))

	form.Set("name", "Ana")
	form.Set("email", "ana@email.com")
	form.SetChecked("terms", true)

	assert.True(t, v.ValidateAll())
	require.Len(t, events, 2)
	assert.Equal(t, EventFormValid, events[1].Type)
	assert.Equal(t, "ana@email.com", events[1].Data["email"])
	assert.Equal(t, "on", events[1].Data["terms"])
	assert.Equal(t, "free text", events[1].Data["notes"])
	assert.Empty(t, v.Errors())
}

func TestValidateAll_UncheckedCheckboxLeftOutOfData(t *testing.T) {
	form := NewValues("name", "Ana")
	form.SetChecked("newsletter", false)
	v := New(form)

	var data map[string]string
	v.Subscribe(func(ev Event) {
		if ev.Type == EventFormValid {
			data = ev.Data
		}
	})
	assert.True(t, v.ValidateAll())
	assert.Equal(t, map[string]string{"name": "Ana"}, data)
}

func TestOnInput_Debounce(t *testing.T) {
	form := NewValues("name", "a")
	v := New(form, WithDebounce(20*time.Millisecond))
	v.AddRule("name", MinLength(3))

	var (
		mu      sync.Mutex
		results []Event
	)
	v.Subscribe(func(ev Event) {
		if ev.Type == EventFieldValid || ev.Type == EventFieldInvalid {
			mu.Lock()
			results = append(results, ev)
			mu.Unlock()
		}
	})

	valid, _ := v.OnBlur("name")
	require.False(t, valid)
	require.Equal(t, StateInvalid, v.State("name"))

	// typing clears the error at once
	form.Set("name", "ab")
	v.OnInput("name")
	assert.Empty(t, v.Errors())
	assert.Equal(t, StateUnvalidated, v.State("name"))

	// a newer keystroke supersedes the pending validation
	form.Set("name", "abc")
	v.OnInput("name")

	assert.Eventually(t, func() bool {
		return v.State("name") == StateValid
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, results, 2)
	assert.Equal(t, EventFieldInvalid, results[0].Type)
	assert.Equal(t, EventFieldValid, results[1].Type)
}

func TestOnBlur_CancelsPendingInput(t *testing.T) {
	form := NewValues("name", "ab")
	v := New(form, WithDebounce(30*time.Millisecond))
	v.AddRule("name", MinLength(3))

	var count int
	var mu sync.Mutex
	v.Subscribe(func(ev Event) {
		if ev.Type == EventFieldInvalid {
			mu.Lock()
			count++
			mu.Unlock()
		}
	})

	v.OnInput("name")
	v.OnBlur("name")
	time.Sleep(80 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)
}

func TestReset(t *testing.T) {
	form := NewValues("name", "")
	form.SetChecked("terms", true)
	v := New(form, WithDebounce(time.Hour))
	v.AddRule("name", Required())

	assert.False(t, v.ValidateAll())
	v.OnInput("name")
	v.Reset()

	assert.Empty(t, v.Errors())
	assert.Equal(t, StateUnvalidated, v.State("name"))
	terms, _ := form.Field("terms")
	assert.False(t, terms.Checked)
}
