package report

import (
	"fmt"
	"math"
)

// FormatSize renders a byte count for display: whole bytes below 1 KB,
// otherwise KB or MB with two decimals, halves rounded up.
func FormatSize(b int64) string {
	switch {
	case b < 1024:
		return fmt.Sprintf("%d B", b)
	case b < 1024*1024:
		return fmt.Sprintf("%.2f KB", roundCents(float64(b)/1024))
	default:
		return fmt.Sprintf("%.2f MB", roundCents(float64(b)/(1024*1024)))
	}
}

// roundCents rounds to two decimals. %.2f alone rounds exact ties to even.
func roundCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// ReductionPercent is round((1 - optimized/original) * 100) with halves
// rounded up. Negative when the output grew. Zero for an empty original.
func ReductionPercent(original, optimized int64) int {
	if original <= 0 {
		return 0
	}
	return int(math.Floor((1-float64(optimized)/float64(original))*100 + 0.5))
}
