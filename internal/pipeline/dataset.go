package pipeline

import (
	"bytes"
	"fmt"
	"time"

	"github.com/couchcryptid/cwa-weather-report/internal/domain"
	"github.com/couchcryptid/cwa-weather-report/internal/report"
)

// Artifact is a rendered report plus everything needed to deliver it.
type Artifact struct {
	// Prefix names the temporary file on disk.
	Prefix string
	// Filename is the download name shown in the chat.
	Filename string
	Caption  string
	HTML     []byte
	Regions  int
	Rows     int
	// Output holds the serialized rows for the optional row feed.
	Output []domain.OutputRow
}

// Dataset turns one CWA payload into a deliverable report.
type Dataset interface {
	ID() string
	Build(rc *RunContext, payload []byte, generatedAt time.Time) (*Artifact, error)
}

// DatasetByName resolves the -dataset flag value.
func DatasetByName(name string) (Dataset, error) {
	switch name {
	case "observation", domain.ObservationDatasetID:
		return ObservationDataset{}, nil
	case "forecast", domain.ForecastDatasetID:
		return ForecastDataset{}, nil
	default:
		return nil, fmt.Errorf("unknown dataset %q (want observation or forecast)", name)
	}
}

// ObservationDataset is the hourly station report.
type ObservationDataset struct{}

func (ObservationDataset) ID() string { return domain.ObservationDatasetID }

func (d ObservationDataset) Build(rc *RunContext, payload []byte, generatedAt time.Time) (*Artifact, error) {
	rows, cov, err := domain.ParseObservations(payload, rc.Logger)
	if err != nil {
		return nil, fmt.Errorf("parse observations: %w", err)
	}
	logCoverage(rc, cov)

	groups := domain.GroupByRegion(rows, domain.ObservationGroupOptions)

	var buf bytes.Buffer
	if err := report.RenderObservations(&buf, groups, generatedAt); err != nil {
		return nil, err
	}
	out, err := domain.SerializeGroups(d.ID(), groups, generatedAt)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Prefix:   "realtime_weather",
		Filename: report.ObservationFilename,
		Caption:  report.ObservationCaption(groups, generatedAt),
		HTML:     buf.Bytes(),
		Regions:  len(groups),
		Rows:     groups.RowCount(),
		Output:   out,
	}, nil
}

func logCoverage(rc *RunContext, cov domain.Coverage) {
	rc.Logger.Info("field coverage",
		"stations", cov.Stations,
		"with_gust", cov.WithGust,
		"gust_pct", fmt.Sprintf("%.1f", cov.Percent(cov.WithGust)),
		"with_precipitation", cov.WithPrecipitation,
		"precipitation_pct", fmt.Sprintf("%.1f", cov.Percent(cov.WithPrecipitation)),
	)
	if rc.Metrics != nil {
		rc.Metrics.FieldCoverage.WithLabelValues("gust").Set(cov.Percent(cov.WithGust) / 100)
		rc.Metrics.FieldCoverage.WithLabelValues("precipitation").Set(cov.Percent(cov.WithPrecipitation) / 100)
	}
}

// ForecastDataset is the weekly 12-hour forecast report.
type ForecastDataset struct{}

func (ForecastDataset) ID() string { return domain.ForecastDatasetID }

func (d ForecastDataset) Build(rc *RunContext, payload []byte, generatedAt time.Time) (*Artifact, error) {
	rows, err := domain.ParseForecasts(payload, rc.Logger)
	if err != nil {
		return nil, fmt.Errorf("parse forecasts: %w", err)
	}

	groups := domain.GroupByRegion(rows, domain.ForecastGroupOptions)

	var buf bytes.Buffer
	if err := report.RenderForecasts(&buf, groups, generatedAt); err != nil {
		return nil, err
	}
	out, err := domain.SerializeGroups(d.ID(), groups, generatedAt)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Prefix:   "weekly_forecast",
		Filename: report.ForecastFilename,
		Caption:  report.ForecastCaption(groups, generatedAt),
		HTML:     buf.Bytes(),
		Regions:  len(groups),
		Rows:     groups.RowCount(),
		Output:   out,
	}, nil
}
