package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/cwa-weather-report/internal/domain"
	"github.com/couchcryptid/cwa-weather-report/internal/report"
)

// Fetcher downloads one raw dataset payload.
type Fetcher interface {
	Fetch(ctx context.Context, datasetID string) ([]byte, error)
}

// Sender delivers a rendered document.
type Sender interface {
	SendDocument(ctx context.Context, doc domain.Document) error
}

// Publisher writes serialized rows to the optional row feed.
type Publisher interface {
	Publish(ctx context.Context, rows []domain.OutputRow) error
}

const debugDumpLayout = "20060102_150405"

// Pipeline runs fetch, build, write, deliver and publish once for a dataset.
type Pipeline struct {
	rc        *RunContext
	dataset   Dataset
	fetcher   Fetcher
	sender    Sender
	publisher Publisher
}

// New creates a Pipeline. publisher may be nil to disable the row feed.
func New(rc *RunContext, ds Dataset, f Fetcher, s Sender, p Publisher) *Pipeline {
	return &Pipeline{
		rc:        rc,
		dataset:   ds,
		fetcher:   f,
		sender:    s,
		publisher: p,
	}
}

// Run executes one report cycle. Any fetch, build or delivery failure aborts
// the run; the temporary artifact never outlives it.
func (p *Pipeline) Run(ctx context.Context) error {
	log := p.rc.Logger
	id := p.dataset.ID()
	log.Info("report run started", "dataset_id", id)

	start := p.rc.Clock.Now()
	payload, err := p.fetcher.Fetch(ctx, id)
	p.rc.Metrics.FetchDuration.Observe(p.rc.Clock.Since(start).Seconds())
	if err != nil {
		return p.fail("fetch", fmt.Errorf("fetch %s: %w", id, err))
	}
	log.Info("payload fetched", "bytes", len(payload))

	if dir := p.rc.Config.DebugDumpDir; dir != "" {
		p.dumpRaw(dir, payload, start)
	}

	generatedAt := p.rc.Clock.Now()
	art, err := p.dataset.Build(p.rc, payload, generatedAt)
	if err != nil {
		return p.fail("build", err)
	}
	p.rc.Metrics.RowsBuilt.Set(float64(art.Rows))
	p.rc.Metrics.Regions.Set(float64(art.Regions))
	log.Info("report built", "regions", art.Regions, "rows", art.Rows, "html_bytes", len(art.HTML))

	if err := p.deliver(ctx, art, generatedAt); err != nil {
		return err
	}

	p.publish(ctx, art.Output)

	p.rc.Metrics.LastSuccessSecond.Set(float64(p.rc.Clock.Now().Unix()))
	log.Info("report run finished", "dataset_id", id)
	return nil
}

// deliver writes the artifact, sends it, and removes it whatever the outcome.
func (p *Pipeline) deliver(ctx context.Context, art *Artifact, generatedAt time.Time) error {
	if err := os.MkdirAll(p.rc.Config.OutputDir, 0o755); err != nil {
		return p.fail("write", fmt.Errorf("create output dir: %w", err))
	}
	path := filepath.Join(p.rc.Config.OutputDir, report.ArtifactName(art.Prefix, generatedAt))
	if err := os.WriteFile(path, art.HTML, 0o644); err != nil { //nolint:gosec // report is meant to be shared
		return p.fail("write", fmt.Errorf("write artifact: %w", err))
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			p.rc.Logger.Warn("remove artifact failed", "path", path, "error", err)
		}
	}()

	start := p.rc.Clock.Now()
	err := p.sender.SendDocument(ctx, domain.Document{
		Path:     path,
		Filename: art.Filename,
		Caption:  art.Caption,
	})
	p.rc.Metrics.DeliveryDuration.Observe(p.rc.Clock.Since(start).Seconds())
	if err != nil {
		return p.fail("deliver", fmt.Errorf("send document: %w", err))
	}
	p.rc.Logger.Info("report delivered", "filename", art.Filename)
	return nil
}

// publish feeds rows to the publisher. The report has already been delivered,
// so failures are logged and counted only.
func (p *Pipeline) publish(ctx context.Context, rows []domain.OutputRow) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, rows); err != nil {
		p.rc.Metrics.PublishErrors.Inc()
		p.rc.Logger.Warn("row feed publish failed", "rows", len(rows), "error", err)
		return
	}
	p.rc.Logger.Info("row feed published", "rows", len(rows))
}

// dumpRaw keeps an indented copy of the upstream payload for inspection.
func (p *Pipeline) dumpRaw(dir string, payload []byte, at time.Time) {
	path := filepath.Join(dir, fmt.Sprintf("debug_raw_data_%s.json", at.In(domain.TaiwanZone).Format(debugDumpLayout)))

	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		buf.Reset()
		buf.Write(payload)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		p.rc.Logger.Warn("debug dump failed", "error", err)
		return
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		p.rc.Logger.Warn("debug dump failed", "error", err)
		return
	}
	p.rc.Logger.Info("raw payload saved", "path", path)
}

func (p *Pipeline) fail(stage string, err error) error {
	p.rc.Metrics.RunFailures.WithLabelValues(stage).Inc()
	p.rc.Logger.Error("report run failed", "stage", stage, "error", err)
	return err
}
