// backend/utils/codes.go
package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// NormalizeNotation converts codes like "3.0" to "3".
// Non-numeric codes and codes that are already integers are returned as is.
func NormalizeNotation(code string) string {
	if !strings.HasSuffix(code, ".0") {
		return code
	}
	f, err := strconv.ParseFloat(code, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return code
	}
	if math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strings.TrimSuffix(code, ".0")
}

// FiscalYearInterval turns a year-leading period code (e.g. "2014" or "201415")
// into a one year interval starting on 31 March of that year.
func FiscalYearInterval(period string) (string, error) {
	period = strings.TrimSpace(period)
	if len(period) < 4 {
		return "", fmt.Errorf("period %q is shorter than a 4 digit year", period)
	}
	year := period[:4]
	for _, r := range year {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("period %q does not start with a 4 digit year", period)
		}
	}
	return fmt.Sprintf("gregorian-interval/%s-03-31T00:00:00/P1Y", year), nil
}

// FormatValue renders a decoded JSON value as the text written to CSV.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// Pathify lower-cases s and collapses every run of non-alphanumeric characters into "-".
func Pathify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
