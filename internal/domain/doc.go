// Package domain normalizes Central Weather Administration (CWA) open-data
// payloads into flat rows grouped by administrative region.
//
// # Data Sources
//
// Two datastore datasets are supported, both served from
// https://opendata.cwa.gov.tw/api/v1/rest/datastore/<dataset-id>:
//
//	O-A0001-001  automatic weather station observations (latest reading per station)
//	F-D0047-091  one-week forecast in 12-hour slots per county/city
//
// Every response is wrapped in an envelope with a string "success" flag and a
// "records" object. Observations live under records.Station; forecasts under
// records.Locations[0].Location.
//
// # CWA Data Conventions
//
// Element values:
//
//	Readings arrive either as bare scalars ("18.5", 18.5) or wrapped one level
//	deep as {"value": "18.5"}. Both strings and JSON numbers occur, sometimes
//	within the same payload.
//
// Unknown values:
//
//	"-99", "-99.0", "-999", "NA", "X" and the empty string mean no reading.
//	Precipitation additionally uses "-98". "T" is a trace of rain, too small to
//	measure, and is rendered as [TraceMarker].
//
// Schema drift:
//
//	Gust and precipitation have moved between fields over API versions:
//	  Gust:          GustInfo.PeakGustSpeed | Gust | GUST
//	  Precipitation: Now.Precipitation | Precipitation | Rainfall | RAIN
//	Stations in one payload do not agree on which shape they use, so each
//	field is resolved through an ordered list of paths (see [Field]).
//
// Time format:
//
//	ISO-8601 with an offset ("2024-01-01T03:00:00+08:00") or "Z". Display
//	strings are rendered in Taiwan time (UTC+8) as "01/02 15:04". Lexical order
//	of that format is chronological within a calendar year; a forecast week
//	spanning New Year sorts January slots first.
//
// Forecast elements:
//
//	Forecast element names are Chinese: 最高溫度 (max temperature), 最低溫度
//	(min temperature), 天氣現象 (weather description), 天氣代碼 (weather code).
//	ElementValue is either a list whose first entry carries the value or a
//	single object.
//
// # Region IDs
//
// Region IDs are the first 8 hex characters of the MD5 of the region name with
// a dataset tag prefix ("station-", "chart-"). They are DOM identifiers only;
// the region name stays the lookup key. See [RegionID].
package domain
