package scrape

import (
	"math"
	"strconv"
	"strings"
)

var amountCleaner = strings.NewReplacer("$", "", ",", "", " ", "")

// ParseAmount converts a salary cell ("$59,606,817", "$59.6M", "500K") to dollars.
// Blank cells, "-", "N/A" and anything unparseable yield 0.
func ParseAmount(text string) int64 {
	text = strings.TrimSpace(text)
	switch strings.ToUpper(text) {
	case "", "-", "N/A":
		return 0
	}

	cleaned := strings.ToUpper(amountCleaner.Replace(text))

	multiplier := 1.0
	switch {
	case strings.HasSuffix(cleaned, "M"):
		multiplier = 1_000_000
		cleaned = strings.TrimSuffix(cleaned, "M")
	case strings.HasSuffix(cleaned, "K"):
		multiplier = 1_000
		cleaned = strings.TrimSuffix(cleaned, "K")
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}

	return int64(math.Round(value * multiplier))
}
