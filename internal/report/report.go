// Package report renders grouped rows into a self-contained HTML document and
// builds the delivery captions and file names that accompany it.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/couchcryptid/cwa-weather-report/internal/domain"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// TimestampLayout is the generation time shown in footers and captions.
const TimestampLayout = "2006-01-02 15:04:05"

// artifactStampLayout suffixes the on-disk artifact name.
const artifactStampLayout = "20060102_150405"

const (
	ObservationTitle = "臺灣氣象觀測站即時資料"
	ForecastTitle    = "臺灣 1週逐12小時天氣預報 (文字版)"

	// Download names shown in the chat.
	ObservationFilename = "臺灣氣象觀測站即時資料_手機優化版.html"
	ForecastFilename    = "1週12小時天氣預報.html"

	observationPerLine = 4
	forecastPerLine    = 7
)

var templates = template.Must(
	template.New("report").
		Funcs(template.FuncMap{"lineBreak": lineBreak}).
		ParseFS(templateFS, "templates/*.html.tmpl"),
)

// page is the data handed to a report template. Data and IDMap are marshaled
// to JSON literals by the template's script context.
type page struct {
	Title       string
	DatasetID   string
	GeneratedAt string
	Regions     []string
	PerLine     int
	Data        any
	IDMap       map[string]string
}

// RenderObservations writes the station report: one radio button per county,
// one county visible at a time.
func RenderObservations(w io.Writer, groups domain.Groups[domain.ObservationRow], generatedAt time.Time) error {
	return render(w, "observation.html.tmpl", page{
		Title:       ObservationTitle,
		DatasetID:   domain.ObservationDatasetID,
		GeneratedAt: Timestamp(generatedAt),
		Regions:     groups.Regions(),
		PerLine:     observationPerLine,
		Data:        groups.ByRegion(),
		IDMap:       groups.IDs(),
	})
}

// RenderForecasts writes the forecast report: a checkbox per location plus a
// select-all toggle, every location visible by default.
func RenderForecasts(w io.Writer, groups domain.Groups[domain.ForecastRow], generatedAt time.Time) error {
	return render(w, "forecast.html.tmpl", page{
		Title:       ForecastTitle,
		DatasetID:   domain.ForecastDatasetID,
		GeneratedAt: Timestamp(generatedAt),
		Regions:     groups.Regions(),
		PerLine:     forecastPerLine,
		Data:        groups.ByRegion(),
		IDMap:       groups.IDs(),
	})
}

func render(w io.Writer, name string, p page) error {
	if err := templates.ExecuteTemplate(w, name, p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// ObservationCaption summarizes a station report for the chat message.
func ObservationCaption(groups domain.Groups[domain.ObservationRow], generatedAt time.Time) string {
	return fmt.Sprintf("即時觀測資料已產生！\n縣市數：%d\n總站數：%d\n產生時間：%s\n\n請下載後用瀏覽器開啟，選擇您想看的縣市",
		len(groups), groups.RowCount(), Timestamp(generatedAt))
}

// ForecastCaption summarizes a forecast report for the chat message.
func ForecastCaption(groups domain.Groups[domain.ForecastRow], generatedAt time.Time) string {
	return fmt.Sprintf("天氣預報已更新！\n\n地點數：%d 個\n更新時間：%s (台灣時間)\n\n請下載後用瀏覽器開啟",
		len(groups), Timestamp(generatedAt))
}

// Timestamp formats t in Taiwan time for footers and captions.
func Timestamp(t time.Time) string {
	return t.In(domain.TaiwanZone).Format(TimestampLayout)
}

// ArtifactName is the temporary on-disk file name for a report generated at t.
func ArtifactName(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%s.html", prefix, t.In(domain.TaiwanZone).Format(artifactStampLayout))
}

// lineBreak reports whether a line break follows the i-th control.
func lineBreak(i, perLine int) bool {
	return perLine > 0 && (i+1)%perLine == 0
}

