package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-supplied amount string. A comma decimal
// separator is accepted. Malformed or empty input yields nil rather than
// an error; callers treat absent the same as not-applicable.
func ParseAmount(val string) *decimal.Decimal {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	val = strings.ReplaceAll(val, ",", ".")
	d, err := decimal.NewFromString(val)
	if err != nil {
		return nil
	}
	return &d
}

// Round2 rounds a monetary value to 2 fraction digits. Applied at the
// point a new ledger amount is computed, never to stored values.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatMoney renders an amount the way the printed work order shows it:
// dot thousands separator, comma decimals, AR$ prefix.
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := "AR$ " + b.String() + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
