package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/cwa-weather-report/internal/domain"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// ErrDelivery reports a document the Bot API refused or failed to accept.
var ErrDelivery = errors.New("telegram delivery failed")

// Client sends documents through the Telegram Bot API.
type Client struct {
	bot    *bot.Bot
	chatID string
	logger *slog.Logger
}

// NewClient creates a Bot API client bound to one chat. baseURL replaces the
// public API endpoint, which tests point at a local server.
func NewClient(token, chatID, baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	b, err := bot.New(token,
		bot.WithServerURL(strings.TrimRight(baseURL, "/")),
		bot.WithHTTPClient(timeout, statusDoer{client: &http.Client{Timeout: timeout}}),
		bot.WithSkipGetMe(),
	)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Client{
		bot:    b,
		chatID: chatID,
		logger: logger,
	}, nil
}

// SendDocument uploads doc to the bound chat via sendDocument.
func (c *Client) SendDocument(ctx context.Context, doc domain.Document) error {
	f, err := os.Open(doc.Path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	filename := doc.Filename
	if filename == "" {
		filename = filepath.Base(doc.Path)
	}

	_, err = c.bot.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   c.chatID,
		Document: &models.InputFileUpload{Filename: filename, Data: f},
		Caption:  doc.Caption,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, redact(err))
	}

	c.logger.Info("document sent", "filename", filename, "chat_id", c.chatID)
	return nil
}

// redact drops the request URL, which carries the bot token, from err.
func redact(err error) error {
	var serr *statusError
	if errors.As(err, &serr) {
		return serr
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

// statusDoer fails any response outside 2xx before the bot library decodes
// it, keeping the API's description when one was sent.
type statusDoer struct {
	client *http.Client
}

func (d statusDoer) Do(req *http.Request) (*http.Response, error) {
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	desc := strings.TrimSpace(string(body))
	var result apiResponse
	if json.Unmarshal(body, &result) == nil && result.Description != "" {
		desc = result.Description
	}
	return nil, &statusError{Code: resp.StatusCode, Description: desc}
}

type statusError struct {
	Code        int
	Description string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Description)
}

// Bot API error envelope.

type apiResponse struct {
	Description string `json:"description"`
}
