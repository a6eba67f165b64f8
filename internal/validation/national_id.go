package validation

import "regexp"

var nonDigit = regexp.MustCompile(`\D`)

// ValidCPF reports whether value holds a Brazilian national id with correct
// check digits. Punctuation is ignored.
func ValidCPF(value string) bool {
	digits := nonDigit.ReplaceAllString(value, "")
	if len(digits) != 11 || allSame(digits) {
		return false
	}

	d := make([]int, 11)
	for i := range digits {
		d[i] = int(digits[i] - '0')
	}
	return checkDigit(d[:9], 10) == d[9] && checkDigit(d[:10], 11) == d[10]
}

// checkDigit computes a weighted sum with weights from first down to 2,
// modulo 11. Remainders below 2 map to 0.
func checkDigit(digits []int, first int) int {
	sum := 0
	for i, digit := range digits {
		sum += digit * (first - i)
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
