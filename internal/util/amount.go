package util

import (
	"math"
	"strconv"
	"strings"
)

// NoValue is the placeholder the disclosure service uses for an empty amount.
const NoValue = "-"

// ParseAmount converts disclosed amount text into an integer in the base currency unit.
// Empty text and the "-" placeholder are zero. Anything else that does not parse is
// also zero, with ok reporting false so callers can surface it.
func ParseAmount(input string) (value int64, ok bool) {
	s := strings.TrimSpace(strings.ReplaceAll(input, "\u00A0", " "))
	if s == "" || s == NoValue {
		return 0, true
	}

	compact := strings.NewReplacer(",", "", " ", "").Replace(s)
	parsed, err := strconv.ParseInt(compact, 10, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// ToEok converts an amount to 억 (1e8) units rounded to one decimal.
func ToEok(amount int64) float64 {
	if amount == 0 {
		return 0
	}
	return math.Round(float64(amount)/1e7) / 10
}
