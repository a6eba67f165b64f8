package validation

import (
	"fmt"
	"strconv"
)

// Kind names a rule. Kinds outside the built-in set are looked up among the
// named custom validators.
type Kind string

const (
	KindRequired   Kind = "required"
	KindEmail      Kind = "email"
	KindNationalID Kind = "nationalId"
	KindPhone      Kind = "phone"
	KindPostalCode Kind = "postalCode"
	KindMinLength  Kind = "minLength"
	KindMaxLength  Kind = "maxLength"
	KindMin        Kind = "min"
	KindMax        Kind = "max"
	KindPattern    Kind = "pattern"
	KindMatch      Kind = "match"
	KindDate       Kind = "date"
	KindMinAge     Kind = "minAge"
	KindCustom     Kind = "custom"
	KindExpr       Kind = "expr"
)

// aliases accepted in rule sets written for the Brazilian field names.
var kindAliases = map[Kind]Kind{
	"cpf": KindNationalID,
	"cep": KindPostalCode,
}

// Predicate decides a custom rule from the trimmed value and the field.
type Predicate func(value string, field Field) bool

// CustomValidator is a named validator registered on a Validator.
type CustomValidator func(value string, params map[string]any, field Field) bool

// Rule is one validation directive. Only the parameters of its Kind are
// read.
type Rule struct {
	Kind    Kind   `yaml:"kind" json:"kind"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`

	Length     int            `yaml:"length,omitempty" json:"length,omitempty"`
	Value      float64        `yaml:"value,omitempty" json:"value,omitempty"`
	Pattern    string         `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Field      string         `yaml:"field,omitempty" json:"field,omitempty"`
	Age        int            `yaml:"age,omitempty" json:"age,omitempty"`
	Expression string         `yaml:"expression,omitempty" json:"expression,omitempty"`
	Params     map[string]any `yaml:"params,omitempty" json:"params,omitempty"`

	Predicate Predicate `yaml:"-" json:"-"`
}

// WithMessage returns a copy of r reporting msg on failure.
func (r Rule) WithMessage(msg string) Rule {
	r.Message = msg
	return r
}

func Required() Rule { return Rule{Kind: KindRequired} }
func Email() Rule { return Rule{Kind: KindEmail} }
func NationalID() Rule { return Rule{Kind: KindNationalID} }
func Phone() Rule { return Rule{Kind: KindPhone} }
func PostalCode() Rule { return Rule{Kind: KindPostalCode} }
func MinLength(n int) Rule { return Rule{Kind: KindMinLength, Length: n} }
func MaxLength(n int) Rule { return Rule{Kind: KindMaxLength, Length: n} }
func Min(v float64) Rule { return Rule{Kind: KindMin, Value: v} }
func Max(v float64) Rule { return Rule{Kind: KindMax, Value: v} }
func Pattern(expr string) Rule { return Rule{Kind: KindPattern, Pattern: expr} }
func Match(field string) Rule { return Rule{Kind: KindMatch, Field: field} }
func Date() Rule { return Rule{Kind: KindDate} }
func MinAge(years int) Rule { return Rule{Kind: KindMinAge, Age: years} }
func Custom(p Predicate) Rule { return Rule{Kind: KindCustom, Predicate: p} }
func Expr(expression string) Rule { return Rule{Kind: KindExpr, Expression: expression} }

// Named refers to a validator registered with AddCustomValidator.
func Named(name string, params map[string]any) Rule {
	return Rule{Kind: Kind(name), Params: params}
}

func (r Rule) kind() Kind {
	if k, ok := kindAliases[r.Kind]; ok {
		return k
	}
	return r.Kind
}

// defaultMessage is reported when the rule carries no message of its own.
func (r Rule) defaultMessage() string {
	switch r.kind() {
	case KindRequired:
		return "Este campo é obrigatório"
	case KindEmail:
		return "Email inválido"
	case KindNationalID:
		return "CPF inválido"
	case KindPhone:
		return "Telefone inválido"
	case KindPostalCode:
		return "CEP inválido"
	case KindMinLength:
		return fmt.Sprintf("Mínimo de %d caracteres", r.Length)
	case KindMaxLength:
		return fmt.Sprintf("Máximo de %d caracteres", r.Length)
	case KindMin:
		return "Valor mínimo: " + strconv.FormatFloat(r.Value, 'f', -1, 64)
	case KindMax:
		return "Valor máximo: " + strconv.FormatFloat(r.Value, 'f', -1, 64)
	case KindPattern:
		return "Formato inválido"
	case KindMatch:
		return "Os campos não coincidem"
	case KindDate:
		return "Data inválida"
	case KindMinAge:
		return fmt.Sprintf("Idade mínima: %d anos", r.Age)
	default:
		return "Valor inválido"
	}
}

func (r Rule) message() string {
	if r.Message != "" {
		return r.Message
	}
	return r.defaultMessage()
}
