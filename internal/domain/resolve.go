package domain

// Elements is one decoded upstream object (a station, its WeatherElement
// block, a forecast slot). Numbers are json.Number so readings keep their
// upstream text.
type Elements map[string]any

// Path is an ordered key sequence into an Elements tree, e.g.
// {"GustInfo", "PeakGustSpeed"}.
type Path []string

// Lookup walks the path and returns the value it ends on. Objects carrying a
// "value" key are unwrapped one level. Lookup reports false when a key is
// missing, an intermediate is not an object, or the final value is an object
// or array without a scalar.
func (p Path) Lookup(e Elements) (string, bool) {
	if len(p) == 0 {
		return "", false
	}
	var cur any = map[string]any(e)
	for _, key := range p {
		obj, ok := asObject(cur)
		if !ok {
			return "", false
		}
		cur, ok = obj[key]
		if !ok {
			return "", false
		}
	}
	if obj, ok := asObject(cur); ok {
		inner, ok := obj["value"]
		if !ok {
			return "", false
		}
		cur = inner
	}
	switch cur.(type) {
	case map[string]any, Elements, []any:
		return "", false
	}
	return scalarString(cur), true
}

func asObject(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case Elements:
		return x, true
	default:
		return nil, false
	}
}

// Field resolves one canonical quantity from an Elements block by trying its
// paths in order. The first value the sentinel check rejects as "no reading"
// is skipped; the first one it accepts wins.
type Field struct {
	Name  string
	Paths []Path

	// Sentinel defaults to IsSentinel.
	Sentinel func(string) bool
	// Normalize, when set, rewrites an accepted value (e.g. trace code).
	Normalize func(string) string
}

// Resolve returns the field's display value or EmptyMarker.
func (f Field) Resolve(e Elements) string {
	isSentinel := f.Sentinel
	if isSentinel == nil {
		isSentinel = IsSentinel
	}
	for _, p := range f.Paths {
		v, ok := p.Lookup(e)
		if !ok || isSentinel(v) {
			continue
		}
		if f.Normalize != nil {
			v = f.Normalize(v)
		}
		return v
	}
	return EmptyMarker
}

// simpleField resolves a quantity that only ever appears under its own name.
func simpleField(name string) Field {
	return Field{Name: name, Paths: []Path{{name}}}
}

// Observation fields. Gust and precipitation list their richer nested shape
// first; flat and legacy upper-case names follow.
var (
	AirPressureField      = simpleField("AirPressure")
	AirTemperatureField   = simpleField("AirTemperature")
	WindDirectionField    = simpleField("WindDirection")
	WindSpeedField        = simpleField("WindSpeed")
	RelativeHumidityField = simpleField("RelativeHumidity")
	WeatherField          = simpleField("Weather")

	GustField = Field{
		Name: "Gust",
		Paths: []Path{
			{"GustInfo", "PeakGustSpeed"},
			{"Gust"},
			{"GUST"},
		},
	}

	PrecipitationField = Field{
		Name: "Precipitation",
		Paths: []Path{
			{"Now", "Precipitation"},
			{"Precipitation"},
			{"Rainfall"},
			{"RAIN"},
		},
		Sentinel:  IsPrecipitationSentinel,
		Normalize: normalizePrecipitation,
	}
)

func normalizePrecipitation(v string) string {
	if v == traceCode {
		return TraceMarker
	}
	return v
}
