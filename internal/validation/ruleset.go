package validation

import (
	"embed"
	"fmt"
	"io"
	"path"

	"gopkg.in/yaml.v3"
)

//go:embed rulesets/*.yaml
var builtinRuleSets embed.FS

// Built-in rule set names.
const (
	RuleSetRegistration = "registration"
	RuleSetLogin        = "login"
)

// FieldRules is the ordered rule list of one field.
type FieldRules struct {
	Name  string `yaml:"name"`
	Rules []Rule `yaml:"rules"`
}

// RuleSet is a named collection of field rules.
type RuleSet struct {
	Name   string       `yaml:"name"`
	Fields []FieldRules `yaml:"fields"`
}

// Rules returns the rule set in the shape AddRules expects.
func (rs *RuleSet) Rules() map[string][]Rule {
	out := make(map[string][]Rule, len(rs.Fields))
	for _, f := range rs.Fields {
		out[f.Name] = f.Rules
	}
	return out
}

// FieldNames lists the fields in declaration order.
func (rs *RuleSet) FieldNames() []string {
	names := make([]string, 0, len(rs.Fields))
	for _, f := range rs.Fields {
		names = append(names, f.Name)
	}
	return names
}

// LoadRuleSet decodes a YAML rule set.
func LoadRuleSet(r io.Reader) (*RuleSet, error) {
	var rs RuleSet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rs); err != nil {
		return nil, fmt.Errorf("decode rule set: %w", err)
	}
	for _, f := range rs.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("rule set %q: field without name", rs.Name)
		}
		for i, rule := range f.Rules {
			if rule.Kind == "" {
				return nil, fmt.Errorf("rule set %q: field %q rule %d has no kind", rs.Name, f.Name, i)
			}
		}
	}
	return &rs, nil
}

// BuiltinRuleSet returns one of the rule sets shipped with the module.
func BuiltinRuleSet(name string) (*RuleSet, error) {
	f, err := builtinRuleSets.Open(path.Join("rulesets", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown rule set %q", name)
	}
	defer f.Close()
	return LoadRuleSet(f)
}

// ForRuleSet builds a Validator for form with the rules of rs.
func ForRuleSet(rs *RuleSet, form Form, opts ...Option) *Validator {
	v := New(form, opts...)
	v.AddRules(rs.Rules())
	return v
}

// ValidateData checks data against rs in one shot and returns the failures.
// Fields named by rs but missing from data are validated as empty.
func ValidateData(rs *RuleSet, data map[string]string, custom map[string]CustomValidator, opts ...Option) (bool, map[string]string) {
	form := FromMap(data)
	for _, name := range rs.FieldNames() {
		if _, ok := form.Field(name); !ok {
			form.Set(name, "")
		}
	}
	v := ForRuleSet(rs, form, opts...)
	for name, fn := range custom {
		v.AddCustomValidator(name, fn)
	}
	ok := v.ValidateAll()
	return ok, v.Errors()
}
