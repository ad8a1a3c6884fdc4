package domain

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// ForecastDatasetID is the CWA one-week, 12-hour-slot county forecast.
const ForecastDatasetID = "F-D0047-091"

// Forecast element names as published by CWA.
const (
	ElementMaxTemperature = "最高溫度"
	ElementMinTemperature = "最低溫度"
	ElementWeather        = "天氣現象"
	ElementWeatherCode    = "天氣代碼"
)

// forecastValueKeys maps each element name to the key its value sits under
// inside ElementValue.
var forecastValueKeys = map[string]string{
	ElementMaxTemperature: "MaxTemperature",
	ElementMinTemperature: "MinTemperature",
	ElementWeather:        "Weather",
	ElementWeatherCode:    "WeatherCode",
}

// timeBaseElement drives the slot list; other elements are matched to it by
// start time.
const timeBaseElement = ElementWeather

const temperatureUnit = " °C"

type forecastEnvelope struct {
	Records *struct {
		Locations []struct {
			Location *[]any `json:"Location"`
		} `json:"Locations"`
	} `json:"records"`
}

// ParseForecasts builds one row per location per forecast slot from an
// F-D0047-091 payload. Locations without a weather-description series, or
// whose WeatherElement is not a list, are skipped.
func ParseForecasts(payload []byte, logger *slog.Logger) ([]ForecastRow, error) {
	var env forecastEnvelope
	if err := decodePayload(payload, &env); err != nil {
		return nil, err
	}
	if env.Records == nil || len(env.Records.Locations) == 0 || env.Records.Locations[0].Location == nil {
		return nil, fmt.Errorf("%w: missing records.Locations[0].Location", ErrMalformedEnvelope)
	}

	var rows []ForecastRow
	for i, item := range *env.Records.Locations[0].Location {
		loc, ok := asObject(item)
		if !ok {
			if logger != nil {
				logger.Warn("forecast location is not an object, skipping", "index", i)
			}
			continue
		}
		rows = append(rows, buildForecastRows(loc, logger)...)
	}
	return rows, nil
}

func buildForecastRows(loc Elements, logger *slog.Logger) []ForecastRow {
	name := scalarString(loc["LocationName"])
	if IsSentinel(name) {
		name = UnknownLocation
	}

	series, ok := forecastSeries(loc)
	if !ok {
		if logger != nil {
			logger.Warn("forecast location has malformed WeatherElement, skipping", "location", name)
		}
		return nil
	}
	base := series[timeBaseElement]
	if len(base) == 0 {
		if logger != nil {
			logger.Debug("forecast location has no time series, skipping", "location", name)
		}
		return nil
	}

	rows := make([]ForecastRow, 0, len(base))
	for _, slot := range base {
		start := slotStart(slot)
		row := ForecastRow{
			Location:    name,
			DisplayTime: LocalTime(start, logger),
			StartTime:   start,
		}
		for elem, key := range forecastValueKeys {
			slots, ok := series[elem]
			if !ok {
				continue
			}
			matched, ok := findSlot(slots, start)
			if !ok {
				continue
			}
			applyForecastValue(&row, elem, elementValue(matched, key))
		}
		rows = append(rows, row)
	}
	return rows
}

// forecastSeries indexes a location's WeatherElement list by element name.
// Entries that are not objects, have no string ElementName, or whose Time is
// not a list are dropped; non-object slots inside Time are dropped too. It
// reports false when WeatherElement itself is not a list.
func forecastSeries(loc Elements) (map[string][]Elements, bool) {
	list, ok := loc["WeatherElement"].([]any)
	if !ok {
		return nil, false
	}
	series := make(map[string][]Elements, len(list))
	for _, item := range list {
		obj, ok := asObject(item)
		if !ok {
			continue
		}
		name, ok := obj["ElementName"].(string)
		if !ok {
			continue
		}
		times, _ := obj["Time"].([]any)
		slots := make([]Elements, 0, len(times))
		for _, t := range times {
			if slot, ok := asObject(t); ok {
				slots = append(slots, Elements(slot))
			}
		}
		series[name] = slots
	}
	return series, true
}

func slotStart(slot Elements) string {
	if v, ok := (Path{"StartTime"}).Lookup(slot); ok && v != "" {
		return v
	}
	v, _ := (Path{"startTime"}).Lookup(slot)
	return v
}

func findSlot(slots []Elements, start string) (Elements, bool) {
	for _, s := range slots {
		if slotStart(s) == start {
			return s, true
		}
	}
	return nil, false
}

// elementValue reads key from a slot's ElementValue, which is either a list
// (first entry used) or a single object.
func elementValue(slot Elements, key string) string {
	var obj map[string]any
	switch v := slot["ElementValue"].(type) {
	case []any:
		if len(v) == 0 {
			return EmptyMarker
		}
		obj, _ = asObject(v[0])
	default:
		obj, _ = asObject(v)
	}
	if obj == nil {
		return EmptyMarker
	}
	s, ok := (Path{key}).Lookup(obj)
	if !ok || IsSentinel(s) {
		return EmptyMarker
	}
	return s
}

func applyForecastValue(row *ForecastRow, elem, val string) {
	switch elem {
	case ElementMaxTemperature:
		row.MaxTemperature = withTemperatureUnit(val)
		row.MaxTemperatureValue = parseFloatOrZero(val)
	case ElementMinTemperature:
		row.MinTemperature = withTemperatureUnit(val)
		row.MinTemperatureValue = parseFloatOrZero(val)
	case ElementWeather:
		row.Weather = val
	case ElementWeatherCode:
		row.WeatherCode = val
	}
}

func withTemperatureUnit(v string) string {
	if v == EmptyMarker {
		return EmptyMarker
	}
	return v + temperatureUnit
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ForecastGroupOptions orders each location's slots chronologically.
var ForecastGroupOptions = GroupOptions[ForecastRow]{
	Tag:         "chart",
	Region:      func(r ForecastRow) string { return r.Location },
	DisplayTime: func(r ForecastRow) string { return r.DisplayTime },
	Order:       SortAscending,
}

// RowKey identifies the row in downstream sinks.
func (r ForecastRow) RowKey() string {
	return r.Location + "|" + r.StartTime
}
