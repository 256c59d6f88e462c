package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Monto formats an exact decimal amount as "$ 1,234.56": currency symbol,
// space, thousands-grouped integer part, exactly two decimal digits.
func Monto(d decimal.Decimal) string {
	return "$ " + agrupar(d.StringFixed(2))
}

// ParseMonto converts a display amount back to an exact decimal. It strips
// the currency symbol, thousands separators and surrounding spaces before
// parsing, so both "$ 1,234.56" and "1234.56" are accepted.
func ParseMonto(s string) (decimal.Decimal, error) {
	limpio := strings.TrimSpace(s)
	limpio = strings.ReplaceAll(limpio, "$", "")
	limpio = strings.ReplaceAll(limpio, ",", "")
	limpio = strings.TrimSpace(limpio)
	return decimal.NewFromString(limpio)
}

// agrupar inserts thousands separators into a fixed-point decimal string.
func agrupar(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	entero, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		entero, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range entero {
		if i > 0 && (len(entero)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
