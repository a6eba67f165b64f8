package pages

import (
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"clegacy/internal/model"
)

var funcs = template.FuncMap{
	"currency":    FormatCurrency,
	"datetime":    FormatDateTime,
	"date":        FormatDate,
	"width":       progressWidth,
	"statusLabel": statusLabel,
	"statusBadge": statusBadge,
	"roleBadge":   roleBadge,
	"actionBadge": actionBadge,
	"orDefault":   orDefault,
}

// FormatCurrency renders an amount in Brazilian reais, e.g. "R$ 42.000,00".
func FormatCurrency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "R$ " + b.String() + "," + frac
}

// FormatDateTime renders an RFC 3339 timestamp as "dd/mm/yyyy hh:mm" in UTC.
// Unparseable input is returned unchanged.
func FormatDateTime(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.UTC().Format("02/01/2006 15:04")
}

// FormatDate renders a calendar date as "dd/mm/yyyy".
func FormatDate(day string) string {
	t, err := time.Parse(time.DateOnly, day)
	if err != nil {
		return day
	}
	return t.Format("02/01/2006")
}

// progressWidth clamps a funding percentage to a bar width.
func progressWidth(percent string) string {
	d, err := decimal.NewFromString(percent)
	if err != nil || d.IsNegative() {
		return "0"
	}
	if d.GreaterThan(decimal.NewFromInt(100)) {
		return "100"
	}
	return d.String()
}

func statusLabel(s model.ProjectStatus) string {
	switch s {
	case model.ProjectStatusActive:
		return "Ativo"
	case model.ProjectStatusCompleted:
		return "Concluído"
	case model.ProjectStatusPaused:
		return "Pausado"
	default:
		return string(s)
	}
}

func statusBadge(s model.ProjectStatus) string {
	if s == model.ProjectStatusActive {
		return "success"
	}
	return "secondary"
}

func roleBadge(r model.Role) string {
	if r == model.RoleAdmin {
		return "primary"
	}
	return "info"
}

func actionBadge(action string) string {
	if action == model.ActionLogin {
		return "success"
	}
	return "warning"
}

func orDefault(v string) string {
	if v == "" {
		return "Não especificado"
	}
	return v
}
