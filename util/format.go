package util

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// NotAvailable is shown in place of an undefined value.
const NotAvailable = "n/a"

func isUndefined(value float64) bool {
	return math.IsNaN(value) || math.IsInf(value, 0)
}

// FormatCount renders a value rounded to a whole number with thousands separators. Ex: 12345.6 -> 12,346.
func FormatCount(value float64) string {
	if isUndefined(value) {
		return NotAvailable
	}
	return printer.Sprintf("%d", int64(math.Round(value)))
}

// FormatUSD Ex: 12345.6 -> $12,346, -5 -> -$5.
func FormatUSD(value float64) string {
	if isUndefined(value) {
		return NotAvailable
	}
	if math.Round(value) < 0 {
		return "-$" + FormatCount(-value)
	}
	return "$" + FormatCount(value)
}

// FormatPercent Ex: 12.4 -> 12%.
func FormatPercent(value float64) string {
	if isUndefined(value) {
		return NotAvailable
	}
	return FormatCount(value) + "%"
}

// FloatRoundOffWithPrecision Rounds of a float64 value to given precision. Ex: 2.667 with precision 2 -> 2.67.
func FloatRoundOffWithPrecision(value float64, precision int) float64 {
	if isUndefined(value) {
		return value
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(value, 'f', precision, 64), 64)
	if err != nil {
		return value
	}
	return rounded
}
