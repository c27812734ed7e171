package utils

import (
	"fmt"
	"math"
)

// RoundHalfUp rounds to the nearest integer with halves going up, so 0.5 -> 1
// and 2.5 -> 3.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Percent returns round(100*num/den), or 0 when den is 0.
func Percent(num, den int) int {
	if den == 0 {
		return 0
	}
	return RoundHalfUp(100 * float64(num) / float64(den))
}

// PercentLabel formats round(100*num/den) as "N%", or "0%" when den is 0.
func PercentLabel(num, den int) string {
	return fmt.Sprintf("%d%%", Percent(num, den))
}

// PercentLabelOneDecimal formats 100*num/den with one decimal place, or
// fallback when den is 0.
func PercentLabelOneDecimal(num, den int, fallback string) string {
	if den == 0 {
		return fallback
	}
	return fmt.Sprintf("%.1f%%", 100*float64(num)/float64(den))
}
