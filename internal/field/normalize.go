package field

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToDisplay coerces a raw cell value into its display string for the
// given kind. It never errors: values that defy coercion come back in
// their original string form.
func ToDisplay(raw any, kind Kind) string {
	if raw == nil {
		return ""
	}
	if kind == KindPercent {
		return toPercent(raw)
	}
	return toPlain(raw)
}

// toPercent applies the percent-scale heuristic: values below 10 in
// absolute terms are treated as ratios and multiplied by 100 (0.85 -> 85%,
// 1.22 -> 122%), larger values as already expressed in percent units
// (122 -> 122%). A raw value of 5 is ambiguous between "5%" and "500%";
// the heuristic renders 500% and that precision loss is accepted.
func toPercent(raw any) string {
	if s, ok := raw.(string); ok {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return ""
		}
		if strings.HasSuffix(trimmed, "%") {
			return trimmed
		}
		v, err := parseNumber(trimmed)
		if err != nil {
			return s
		}
		return formatPercent(v)
	}

	v, ok := toFloat(raw)
	if !ok {
		return toPlain(raw)
	}
	return formatPercent(v)
}

func formatPercent(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	if math.Abs(v) < 10 {
		v *= 100
	}
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64) + "%"
}

func toPlain(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return formatFloat(v)
	case float32:
		return formatFloat(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

// formatFloat renders integral floats without a trailing ".0" and bounds
// other floats to two decimal places.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// parseNumber parses a decimal string, accepting "," as a decimal
// separator.
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
