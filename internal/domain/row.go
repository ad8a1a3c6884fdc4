package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedEnvelope reports a payload missing its top-level containers.
var ErrMalformedEnvelope = errors.New("malformed envelope")

// Markers used when an identity field is absent upstream.
const (
	UnknownRegion   = "未知縣市"
	UnknownLocation = "未知地點"
	NoDataTime      = "無資料"
)

// ObservationRow is one station's latest observation.
type ObservationRow struct {
	StationName      string `json:"station_name"`
	DisplayTime      string `json:"display_time"`
	ObsTime          string `json:"obs_time"`
	Region           string `json:"region"`
	AirPressure      string `json:"air_pressure"`
	AirTemperature   string `json:"air_temperature"`
	WindDirection    string `json:"wind_direction"`
	WindSpeed        string `json:"wind_speed"`
	Gust             string `json:"gust"`
	Precipitation    string `json:"precipitation"`
	RelativeHumidity string `json:"relative_humidity"`
	Weather          string `json:"weather"`
}

// ForecastRow is one location's forecast for one 12-hour slot.
type ForecastRow struct {
	Location            string  `json:"location"`
	DisplayTime         string  `json:"display_time"`
	StartTime           string  `json:"start_time"`
	Weather             string  `json:"weather"`
	WeatherCode         string  `json:"weather_code"`
	MaxTemperature      string  `json:"max_temperature"`
	MinTemperature      string  `json:"min_temperature"`
	MaxTemperatureValue float64 `json:"max_temperature_value"`
	MinTemperatureValue float64 `json:"min_temperature_value"`
}

// decodePayload decodes a CWA payload keeping numbers as json.Number.
func decodePayload(payload []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// identity resolves a name-like value, falling back when it is absent or a
// sentinel.
func identity(e Elements, p Path, fallback string) string {
	v, ok := p.Lookup(e)
	if !ok || IsSentinel(v) {
		return fallback
	}
	return v
}
