package core

// convert.go provides the string <-> number conversions shared by sources,
// the pipeline and sinks.
//
// Parsing handles the messy reality of exported spreadsheets:
//   - Currency symbols and thousand separators in numbers
//   - Accounting negatives written as "(123.45)"
//   - Excel formula wrappers (="00123" and =42)

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// groupedRegex matches numbers written with thousands separators. A comma
// anywhere else (a decimal comma, a list) means the value is not a number.
var groupedRegex = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// ParseNumber parses a cell string into a finite float64.
// Surrounding whitespace, currency symbols and thousands separators are ignored.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		if !groupedRegex.MatchString(s) {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", "")
	}

	if isNegative {
		if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
			return 0, false
		}
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	v, err := cast.ToFloat64E(s)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// FormatNumber renders a float in the canonical floating-point form written
// by sinks: shortest round-trip digits, always with a decimal point.
func FormatNumber(v float64) string {
	if v == 0 {
		v = 0 // normalize negative zero
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// UnwrapFormula removes an Excel formula wrapper from a field.
// `="00123"` yields ("00123", true): Excel writes that form to keep a value
// as text, so literal reports that the content must stay text. A bare
// `=<number>` such as `=42` yields ("42", false). Anything else, `=abc`
// included, is returned unchanged.
func UnwrapFormula(s string) (value string, literal bool) {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "=\"") && strings.HasSuffix(t, "\"") && len(t) >= 3 {
		return t[2 : len(t)-1], true
	}
	if strings.HasPrefix(t, "=") {
		if _, ok := ParseNumber(t[1:]); ok {
			return t[1:], false
		}
	}
	return s, false
}

// CleanHeader normalizes a header cell into a column name.
func CleanHeader(s string) string {
	s, _ = UnwrapFormula(s)
	s = strings.TrimSpace(s)
	return strings.Trim(s, `"'`)
}
