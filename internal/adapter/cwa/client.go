package cwa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/cwa-weather-report/internal/domain"
)

// ErrUpstream reports a response the CWA API flagged or returned as failed.
var ErrUpstream = errors.New("cwa upstream error")

// observationLimit caps the station list; the full network is under 1000.
const observationLimit = "1000"

// Client fetches datastore payloads from the CWA open-data API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a CWA datastore client.
func NewClient(apiKey, baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Fetch downloads one dataset and returns the raw JSON body after checking the
// envelope's success flag.
func (c *Client) Fetch(ctx context.Context, datasetID string) ([]byte, error) {
	params := url.Values{
		"Authorization": {c.apiKey},
		"format":        {"JSON"},
	}
	if datasetID == domain.ObservationDatasetID {
		params.Set("limit", observationLimit)
	}
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(datasetID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The query string carries the API key; keep it out of the error.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return nil, fmt.Errorf("request %s: %w", datasetID, uerr.Err)
		}
		return nil, fmt.Errorf("request %s: %w", datasetID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", datasetID, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode %s envelope: %w", datasetID, err)
	}
	if env.Success != "true" {
		msg := env.Result.Message
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("%w: %s", ErrUpstream, msg)
	}

	c.logger.Debug("cwa payload fetched", "dataset_id", datasetID, "bytes", len(body))
	return body, nil
}

// CWA API envelope.

type envelope struct {
	Success string `json:"success"`
	Result  struct {
		Message string `json:"message"`
	} `json:"result"`
}
