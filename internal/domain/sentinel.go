package domain

import (
	"encoding/json"
	"strconv"
)

// EmptyMarker is the value of a field with no usable reading.
const EmptyMarker = ""

// TraceMarker replaces the CWA "T" precipitation code (trace of rain).
const TraceMarker = "雨跡"

// traceCode is the upstream precipitation value for a trace of rain.
const traceCode = "T"

var sentinels = map[string]struct{}{
	"-99":   {},
	"-99.0": {},
	"-999":  {},
	"NA":    {},
	"X":     {},
	"":      {},
}

// IsSentinel reports whether v is a CWA placeholder for "no reading".
func IsSentinel(v string) bool {
	_, ok := sentinels[v]
	return ok
}

// IsPrecipitationSentinel extends IsSentinel with the precipitation-only "-98"
// code. The trace code "T" is a real reading and is not a sentinel.
func IsPrecipitationSentinel(v string) bool {
	return v == "-98" || IsSentinel(v)
}

// scalarString renders a decoded JSON scalar as the text the upstream sent.
// Objects and arrays have no scalar form and yield "".
func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
