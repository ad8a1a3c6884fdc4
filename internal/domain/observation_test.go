package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTaipei     = "Taipei"
	testTaipeiCity = "Taipei City"
)

func TestParseObservations_SingleStation(t *testing.T) {
	payload := []byte(`{"success":"true","records":{"Station":[{"StationName":"Taipei","GeoInfo":{"CountyName":"Taipei City"},"ObsTime":{"DateTime":"2024-01-01T03:00:00+08:00"},"WeatherElement":{"AirTemperature":"18.5","Precipitation":"-99"}}]}}`)

	rows, cov, err := ParseObservations(payload, discardLogger())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	want := ObservationRow{
		StationName:    testTaipei,
		DisplayTime:    "01/01 03:00",
		ObsTime:        "2024-01-01T03:00:00+08:00",
		Region:         testTaipeiCity,
		AirTemperature: "18.5",
	}
	if diff := cmp.Diff(want, rows[0]); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, EmptyMarker, rows[0].Precipitation)
	assert.Equal(t, Coverage{Stations: 1}, cov)
}

func TestParseObservations_FullStation(t *testing.T) {
	payload := []byte(`{"success":"true","records":{"Station":[{
		"StationName":"鞍部",
		"GeoInfo":{"CountyName":"臺北市"},
		"ObsTime":{"DateTime":"2024-03-10T14:00:00+08:00"},
		"WeatherElement":{
			"Weather":"陰",
			"Now":{"Precipitation":"T"},
			"WindDirection":245,
			"WindSpeed":3.2,
			"AirTemperature":15.1,
			"RelativeHumidity":98,
			"AirPressure":887.3,
			"GustInfo":{"PeakGustSpeed":6.4,"Occurred_at":{"WindDirection":250,"DateTime":"2024-03-10T13:40:00+08:00"}}
		}
	}]}}`)

	rows, cov, err := ParseObservations(payload, discardLogger())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, "鞍部", r.StationName)
	assert.Equal(t, "臺北市", r.Region)
	assert.Equal(t, "03/10 14:00", r.DisplayTime)
	assert.Equal(t, "887.3", r.AirPressure)
	assert.Equal(t, "15.1", r.AirTemperature)
	assert.Equal(t, "245", r.WindDirection)
	assert.Equal(t, "3.2", r.WindSpeed)
	assert.Equal(t, "6.4", r.Gust)
	assert.Equal(t, TraceMarker, r.Precipitation)
	assert.Equal(t, "98", r.RelativeHumidity)
	assert.Equal(t, "陰", r.Weather)
	assert.Equal(t, Coverage{Stations: 1, WithGust: 1, WithPrecipitation: 1}, cov)
}

func TestParseObservations_MissingParts(t *testing.T) {
	t.Run("no geo info", func(t *testing.T) {
		rows, _, err := ParseObservations([]byte(`{"records":{"Station":[{"StationName":"A"}]}}`), nil)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, UnknownRegion, rows[0].Region)
		assert.Equal(t, NoDataTime, rows[0].DisplayTime)
		assert.Empty(t, rows[0].ObsTime)
	})

	t.Run("obs time not an object", func(t *testing.T) {
		rows, _, err := ParseObservations([]byte(`{"records":{"Station":[{"StationName":"A","ObsTime":"2024-01-01T00:00:00Z"}]}}`), nil)
		require.NoError(t, err)
		assert.Equal(t, NoDataTime, rows[0].DisplayTime)
	})

	t.Run("weather element not an object", func(t *testing.T) {
		rows, _, err := ParseObservations([]byte(`{"records":{"Station":[{"StationName":"A","WeatherElement":[1,2]}]}}`), nil)
		require.NoError(t, err)
		assert.Empty(t, rows[0].AirTemperature)
	})

	t.Run("empty station list", func(t *testing.T) {
		rows, cov, err := ParseObservations([]byte(`{"records":{"Station":[]}}`), nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.Zero(t, cov.Percent(cov.WithGust))
	})
}

func TestParseObservations_MalformedEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing records", `{"success":"true"}`},
		{"missing station", `{"success":"true","records":{}}`},
		{"null station", `{"success":"true","records":{"Station":null}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, _, err := ParseObservations([]byte(tt.payload), nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedEnvelope))
			assert.Nil(t, rows)
		})
	}

	t.Run("invalid json", func(t *testing.T) {
		_, _, err := ParseObservations([]byte(`{invalid`), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode payload")
	})
}

func TestCoverage_Percent(t *testing.T) {
	c := Coverage{Stations: 4, WithGust: 1, WithPrecipitation: 3}
	assert.InDelta(t, 25.0, c.Percent(c.WithGust), 0.001)
	assert.InDelta(t, 75.0, c.Percent(c.WithPrecipitation), 0.001)
}

func TestObservationGrouping(t *testing.T) {
	payload := []byte(`{"records":{"Station":[
		{"StationName":"A","GeoInfo":{"CountyName":"臺北市"},"ObsTime":{"DateTime":"2024-01-01T02:00:00+08:00"}},
		{"StationName":"B","GeoInfo":{"CountyName":"新北市"},"ObsTime":{"DateTime":"2024-01-01T03:00:00+08:00"}},
		{"StationName":"C","GeoInfo":{"CountyName":"臺北市"},"ObsTime":{"DateTime":"2024-01-01T03:00:00+08:00"}}
	]}}`)
	rows, _, err := ParseObservations(payload, nil)
	require.NoError(t, err)

	groups := GroupByRegion(rows, ObservationGroupOptions)
	require.Len(t, groups, 2)

	assert.Equal(t, "臺北市", groups[0].Region)
	assert.Equal(t, RegionID("station", "臺北市"), groups[0].ID)
	require.Len(t, groups[0].Rows, 2)
	assert.Equal(t, "C", groups[0].Rows[0].StationName, "newest first")
	assert.Equal(t, "A", groups[0].Rows[1].StationName)
	assert.Equal(t, "新北市", groups[1].Region)
}
