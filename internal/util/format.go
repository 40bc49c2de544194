package util

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	jo  = 1_000_000_000_000
	eok = 100_000_000
	man = 10_000
)

// FormatAmount renders an amount with Korean large-number units.
func FormatAmount(amount int64) string {
	if amount == 0 {
		return "0"
	}

	abs := amount
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= jo:
		return fmt.Sprintf("%.1f조", float64(amount)/jo)
	case abs >= eok:
		return fmt.Sprintf("%.1f억", float64(amount)/eok)
	case abs >= man:
		return fmt.Sprintf("%.1f만", float64(amount)/man)
	default:
		return GroupThousands(amount)
	}
}

func GroupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}
