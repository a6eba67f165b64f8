package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern      = regexp.MustCompile(`^\(\d{2}\)\s\d{4,5}-\d{4}$`)
	postalCodePattern = regexp.MustCompile(`^\d{5}-\d{3}$`)
)

// dateLayouts are the calendar formats accepted by date and minAge rules.
var dateLayouts = []string{
	time.DateOnly,
	"2006/01/02",
	"02/01/2006",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate parses value with the first matching layout.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AgeOn returns the whole years between birth and today, counting a year
// only once its month and day are reached.
func AgeOn(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age
}

// ValidEmail reports whether value has a local@domain.tld shape.
func ValidEmail(value string) bool { return emailPattern.MatchString(value) }

// ValidPhone accepts "(DD) DDDDD-DDDD" and "(DD) DDDD-DDDD".
func ValidPhone(value string) bool { return phonePattern.MatchString(value) }

// ValidPostalCode accepts "DDDDD-DDD".
func ValidPostalCode(value string) bool { return postalCodePattern.MatchString(value) }

func parseNumber(value string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	return n, err == nil
}
