package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinRuleSets(t *testing.T) {
	for _, name := range []string{RuleSetRegistration, RuleSetLogin} {
		rs, err := BuiltinRuleSet(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, rs.Name)
		assert.NotEmpty(t, rs.Fields)
	}

	_, err := BuiltinRuleSet("checkout")
	assert.Error(t, err)
}

func TestLoadRuleSet(t *testing.T) {
	rs, err := LoadRuleSet(strings.NewReader(`
name: donation
fields:
  - name: amount
    rules:
      - kind: required
      - kind: min
        value: 10
        message: Doação mínima de R$ 10
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"amount"}, rs.FieldNames())
	assert.Equal(t, Min(10).WithMessage("Doação mínima de R$ 10"), rs.Rules()["amount"][1])
}

func TestLoadRuleSet_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown key":  "name: x\nfields:\n  - name: a\n    rules:\n      - kind: required\n        lenght: 3\n",
		"missing kind": "name: x\nfields:\n  - name: a\n    rules:\n      - message: hi\n",
		"missing name": "name: x\nfields:\n  - rules: []\n",
		"not yaml":     "name: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadRuleSet(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestValidateData_Registration(t *testing.T) {
	rs, err := BuiltinRuleSet(RuleSetRegistration)
	require.NoError(t, err)

	valid := map[string]string{
		"name":       "Joana Prado",
		"email":      "joana@email.com",
		"nationalId": "111.444.777-35",
		"phone":      "(11) 98765-4321",
		"birthDate":  "1995-03-20",
		"postalCode": "01310-100",
		"street":     "Av. Paulista",
		"city":       "São Paulo",
		"state":      "SP",
		"interest":   "voluntario-instrutor",
		"terms":      "true",
	}

	ok, errs := ValidateData(rs, valid, nil, WithClock(fixedNow))
	assert.True(t, ok)
	assert.Empty(t, errs)

	taken := map[string]CustomValidator{
		"uniqueEmail": func(value string, _ map[string]any, _ Field) bool { return value != "joana@email.com" },
	}
	invalid := map[string]string{
		"name":       "Jo",
		"email":      "joana@email.com",
		"nationalId": "111.111.111-11",
		"birthDate":  "2015-01-01",
	}
	ok, errs = ValidateData(rs, invalid, taken, WithClock(fixedNow))
	assert.False(t, ok)
	assert.Equal(t, "Nome deve ter no mínimo 3 caracteres", errs["name"])
	assert.Equal(t, "Este email já está cadastrado", errs["email"])
	assert.Equal(t, "CPF inválido", errs["nationalId"])
	assert.Equal(t, "Você deve ter no mínimo 16 anos", errs["birthDate"])
	assert.Equal(t, "Telefone é obrigatório", errs["phone"])
	assert.Equal(t, "Você deve aceitar os termos de uso", errs["terms"])
}
