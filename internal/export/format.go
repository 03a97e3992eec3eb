package export

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatEUR formats an amount the way German invoices do: thousands grouped
// with dots, a decimal comma, exactly two decimals and a trailing euro sign,
// e.g. 1570.8 becomes "1.570,80 €".
func FormatEUR(amount decimal.Decimal) string {
	raw := amount.Abs().StringFixed(2)
	intPart, decPart, _ := strings.Cut(raw, ".")

	result := groupThousands(intPart, ".") + "," + decPart + " €"
	if amount.Round(2).IsNegative() {
		result = "-" + result
	}
	return result
}

// groupThousands inserts sep between every group of three digits from the right.
func groupThousands(s, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatHours renders an hour total: whole numbers as-is, anything else
// rounded to two decimals, e.g. "17.6 hrs".
func FormatHours(hours decimal.Decimal) string {
	return hours.Round(2).String() + " hrs"
}

// VATLabel returns the tax line caption with the rate as a whole percentage,
// e.g. "VAT (19%)".
func VATLabel(rate decimal.Decimal) string {
	return fmt.Sprintf("VAT (%s%%)", rate.Mul(hundred).Round(0).String())
}
