package helpers

import (
	"fmt"
	"math"
)

// FormatUSD formats a price as a US dollar string with thousand separators.
// Sub-dollar prices keep four decimals so small-cap coins stay readable.
func FormatUSD(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	if amount > 0 && amount < 1 {
		if negative {
			return fmt.Sprintf("$-%.4f", amount)
		}
		return fmt.Sprintf("$%.4f", amount)
	}

	whole := int64(math.Floor(amount))
	cents := int64(math.Round((amount - float64(whole)) * 100))
	if cents >= 100 {
		whole++
		cents -= 100
	}

	str := fmt.Sprintf("%d", whole)
	length := len(str)

	var result string
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result += ","
		}
		result += string(digit)
	}

	if negative {
		return fmt.Sprintf("$-%s.%02d", result, cents)
	}
	return fmt.Sprintf("$%s.%02d", result, cents)
}
