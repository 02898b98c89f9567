// Package present turns response payloads into display-ready strings. Every
// function is pure and total: bad input yields an empty or verbatim value,
// never a panic.
package present

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatNumber abbreviates counts: 1.2M, 3.4K, or the integer verbatim below
// one thousand. The tenths digit is rounded half-up.
func FormatNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return tenths(n, 100_000) + "M"
	case n >= 1_000:
		return tenths(n, 100) + "K"
	}
	return strconv.Itoa(n)
}

// tenths renders n/(unit*10) with one decimal place.
func tenths(n, unit int) string {
	t := (n + unit/2) / unit
	return fmt.Sprintf("%d.%d", t/10, t%10)
}

// DateLayout is the long US date form, e.g. "January 2, 2006".
const DateLayout = "January 2, 2006"

// FormatDate renders t in UTC using DateLayout.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

// FormatISODate parses an RFC 3339 timestamp and formats it with FormatDate.
// Unparseable input yields "".
func FormatISODate(s string) string {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return FormatDate(t)
}

// Round rounds half-up toward positive infinity (2.5 → 3, -2.5 → -2).
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// FormatDecimal renders v in its shortest form: 15, 15.1, 0.25.
func FormatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
