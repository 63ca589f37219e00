package calculator

import (
	"math"

	"github.com/dustin/go-humanize"
)

// FormatMoney renders an amount as whole dollars with thousands separators,
// e.g. 45000 -> "$45,000" and -1250.4 -> "-$1,250".
func FormatMoney(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-$" + humanize.Comma(-n)
	}
	return "$" + humanize.Comma(n)
}

// FormatPercent renders a share with at most one decimal, e.g. 15 -> "15%"
// and 7.27 -> "7.3%".
func FormatPercent(v float64) string {
	return humanize.FtoaWithDigits(math.Round(v*10)/10, 1) + "%"
}
