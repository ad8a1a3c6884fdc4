package domain

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
)

// ObservationDatasetID is the CWA automatic weather station dataset.
const ObservationDatasetID = "O-A0001-001"

type observationEnvelope struct {
	Records *struct {
		Station *[]Elements `json:"Station"`
	} `json:"records"`
}

// Coverage counts how many stations reported the fields that most often go
// missing.
type Coverage struct {
	Stations          int
	WithGust          int
	WithPrecipitation int
}

// Percent returns n as a percentage of Stations.
func (c Coverage) Percent(n int) float64 {
	if c.Stations == 0 {
		return 0
	}
	return float64(n) / float64(c.Stations) * 100
}

var (
	stationNamePath = Path{"StationName"}
	countyNamePath  = Path{"GeoInfo", "CountyName"}
	obsTimePath     = Path{"ObsTime", "DateTime"}
)

// ParseObservations builds one row per station from an O-A0001-001 payload.
// A payload without records.Station is an error; gaps inside a station never
// are.
func ParseObservations(payload []byte, logger *slog.Logger) ([]ObservationRow, Coverage, error) {
	var env observationEnvelope
	if err := decodePayload(payload, &env); err != nil {
		return nil, Coverage{}, err
	}
	if env.Records == nil || env.Records.Station == nil {
		return nil, Coverage{}, fmt.Errorf("%w: missing records.Station", ErrMalformedEnvelope)
	}

	stations := *env.Records.Station
	logStructure(stations, logger)

	rows := make([]ObservationRow, 0, len(stations))
	cov := Coverage{Stations: len(stations)}
	for _, st := range stations {
		row := BuildObservationRow(st, logger)
		if row.Gust != EmptyMarker {
			cov.WithGust++
		}
		if row.Precipitation != EmptyMarker {
			cov.WithPrecipitation++
		}
		rows = append(rows, row)
	}
	return rows, cov, nil
}

// BuildObservationRow normalizes a single station object.
func BuildObservationRow(station Elements, logger *slog.Logger) ObservationRow {
	elements, _ := asObject(station["WeatherElement"])
	el := Elements(elements)

	obsTime, _ := obsTimePath.Lookup(station)
	display := LocalTime(obsTime, logger)
	if display == "" {
		display = NoDataTime
	}

	name, _ := stationNamePath.Lookup(station)

	return ObservationRow{
		StationName:      name,
		DisplayTime:      display,
		ObsTime:          obsTime,
		Region:           identity(station, countyNamePath, UnknownRegion),
		AirPressure:      AirPressureField.Resolve(el),
		AirTemperature:   AirTemperatureField.Resolve(el),
		WindDirection:    WindDirectionField.Resolve(el),
		WindSpeed:        WindSpeedField.Resolve(el),
		Gust:             GustField.Resolve(el),
		Precipitation:    PrecipitationField.Resolve(el),
		RelativeHumidity: RelativeHumidityField.Resolve(el),
		Weather:          WeatherField.Resolve(el),
	}
}

// logStructure dumps the element keys of the first few stations at debug
// level, which is usually enough to spot a schema change upstream.
func logStructure(stations []Elements, logger *slog.Logger) {
	if logger == nil {
		return
	}
	for i, st := range stations[:min(3, len(stations))] {
		elements, _ := asObject(st["WeatherElement"])
		keys := make([]string, 0, len(elements))
		for k := range elements {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		name, _ := stationNamePath.Lookup(st)
		logger.Debug("station structure",
			"index", i,
			"station", name,
			"element_keys", keys,
			"has_gust_info", slices.Contains(keys, "GustInfo"),
			"has_now", slices.Contains(keys, "Now"),
		)
	}
}

// ObservationGroupOptions orders each region's stations newest first.
var ObservationGroupOptions = GroupOptions[ObservationRow]{
	Tag:         "station",
	Region:      func(r ObservationRow) string { return r.Region },
	DisplayTime: func(r ObservationRow) string { return r.DisplayTime },
	Order:       SortDescending,
}

// RowKey identifies the row in downstream sinks.
func (r ObservationRow) RowKey() string {
	return r.StationName + "|" + r.ObsTime
}
