package currency

import (
	"fmt"
	"math"
)

// Format renders a fare amount with its currency code and thousands grouping,
// e.g. "BDT 12,500". Supplier fares are whole-unit amounts.
func Format(amount float64, code string) string {
	rounded := math.Round(amount)

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	intStr := fmt.Sprintf("%.0f", rounded)
	formatted := addThousandsSeparator(intStr, ",")

	if code == "" {
		code = "BDT"
	}
	result := code + " " + formatted
	if negative {
		result = "-" + result
	}

	return result
}

// FormatBDT formats an amount in Bangladeshi taka.
func FormatBDT(amount float64) string {
	return Format(amount, "BDT")
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
