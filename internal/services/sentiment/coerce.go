package sentiment

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CoerceScore converts a raw upstream score into a finite float64.
// Numeric kinds, json.Number and numeric strings are accepted.
func CoerceScore(v interface{}) (float64, error) {
	f, reason := coerce(v)
	if reason != "" {
		return 0, &ValidationError{Index: -1, Value: v, Reason: reason}
	}
	return f, nil
}

func coerce(v interface{}) (float64, string) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, "missing value"
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		p, err := x.Float64()
		if err != nil {
			return 0, "not a number"
		}
		f = p
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, "empty string"
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, "not a number"
		}
		f = p
	default:
		return 0, "unsupported type"
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, "not a finite number"
	}
	return f, ""
}
