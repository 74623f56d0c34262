package billing

import (
	"math"
	"strings"
)

var onesWords = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// AmountInWords renders a rupee amount in the Indian numbering system for
// the invoice footer, e.g. 1234.50 -> "One Thousand Two Hundred Thirty Four
// Rupees and Fifty Paise Only".
func AmountInWords(amount float64) string {
	amount = RoundRupees(sanitize(amount))

	rupees := int64(amount)
	paise := int64(math.Round((amount - float64(rupees)) * 100))

	var b strings.Builder
	if rupees == 0 {
		b.WriteString("Zero")
	} else {
		b.WriteString(integerWords(rupees))
	}
	b.WriteString(" Rupees")

	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(integerWords(paise))
		b.WriteString(" Paise")
	}

	b.WriteString(" Only")
	return b.String()
}

// integerWords converts n > 0 using crore/lakh/thousand grouping.
func integerWords(n int64) string {
	switch {
	case n >= 1_00_00_000:
		return join(integerWords(n/1_00_00_000), "Crore", integerWords(n%1_00_00_000))
	case n >= 1_00_000:
		return join(integerWords(n/1_00_000), "Lakh", integerWords(n%1_00_000))
	case n >= 1_000:
		return join(integerWords(n/1_000), "Thousand", integerWords(n%1_000))
	case n >= 100:
		return join(integerWords(n/100), "Hundred", integerWords(n%100))
	case n >= 20:
		return join(tensWords[n/10], "", onesWords[n%10])
	case n > 0:
		return onesWords[n]
	default:
		return ""
	}
}

func join(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
