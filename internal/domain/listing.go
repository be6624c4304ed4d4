package domain

import (
	"math"
	"strconv"
	"strings"
)

// FormatAmount renders a price as plain decimal with at least one fractional
// digit between 1e-3 and 1e7 (10 -> "10.0", 15.25 -> "15.25") and in
// scientific notation outside it (1e7 -> "1.0E7").
func FormatAmount(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}

	if abs := math.Abs(v); abs != 0 && (abs < 1e-3 || abs >= 1e7) {
		return formatScientific(v)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// formatScientific turns "1.5E+07" into "1.5E7" and "1E-04" into "1.0E-4".
func formatScientific(v float64) string {
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(v, 'E', -1, 64), "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	n, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(n)
}

// RenderListing produces the plain-text catalog listing.
func RenderListing(items []ItemSummary) string {
	var b strings.Builder
	b.WriteString("Auction Items:\n")
	for _, item := range items {
		b.WriteString(item.String())
		b.WriteString("\n")
		if item.HasBids() {
			b.WriteString("Current Highest Bid: ")
			b.WriteString(item.HighestBid.String())
			b.WriteString("\n")
		} else {
			b.WriteString(MsgNoBids + "\n")
		}
		b.WriteString("\n")
	}
	if len(items) == 0 {
		b.WriteString(MsgNoItems)
	}
	return b.String()
}
