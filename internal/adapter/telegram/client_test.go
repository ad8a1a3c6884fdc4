package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/cwa-weather-report/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken  = "123456:ABC-DEF"
	testChatID = "-100200300"
)

const okResponse = `{"ok":true,"result":{"message_id":1,"date":1714543200,"chat":{"id":-100200300,"type":"supergroup"}}}`

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(testToken, testChatID, baseURL, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func writeTempDocument(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "realtime_weather_20240501_140000.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestClient_SendDocument(t *testing.T) {
	const html = "<!DOCTYPE html><html><body>ok</body></html>"
	path := writeTempDocument(t, html)

	var (
		gotChatID   string
		gotCaption  string
		gotFilename string
		gotContent  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bot"+testToken+"/sendDocument", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotChatID = r.FormValue("chat_id")
		gotCaption = r.FormValue("caption")

		f, hdr, err := r.FormFile("document")
		require.NoError(t, err)
		defer f.Close()
		gotFilename = hdr.Filename
		data, _ := io.ReadAll(f)
		gotContent = string(data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okResponse))
	}))
	defer srv.Close()

	err := testClient(t, srv.URL).SendDocument(context.Background(), domain.Document{
		Path:     path,
		Filename: "臺灣氣象觀測站即時資料_手機優化版.html",
		Caption:  "即時觀測資料已產生！",
	})
	require.NoError(t, err)

	assert.Equal(t, testChatID, gotChatID)
	assert.Equal(t, "即時觀測資料已產生！", gotCaption)
	assert.Equal(t, "臺灣氣象觀測站即時資料_手機優化版.html", gotFilename)
	assert.Equal(t, html, gotContent)
}

func TestClient_SendDocument_DefaultFilename(t *testing.T) {
	path := writeTempDocument(t, "x")

	var gotFilename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, hdr, err := r.FormFile("document")
		require.NoError(t, err)
		gotFilename = hdr.Filename
		_, _ = w.Write([]byte(okResponse))
	}))
	defer srv.Close()

	require.NoError(t, testClient(t, srv.URL).SendDocument(context.Background(), domain.Document{Path: path}))
	assert.Equal(t, "realtime_weather_20240501_140000.html", gotFilename)
}

func TestClient_SendDocument_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		contains string
	}{
		{"bad request", http.StatusBadRequest, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`, "chat not found"},
		{"unauthorized", http.StatusUnauthorized, `{"ok":false,"description":"Unauthorized"}`, "401"},
		{"ok false on 200", http.StatusOK, `{"ok":false,"description":"file is too big"}`, "file is too big"},
		{"non json", http.StatusBadGateway, `bad gateway`, "bad gateway"},
		{"server error with ok body", http.StatusInternalServerError, `{"ok":true,"result":{"message_id":1}}`, "500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := testClient(t, srv.URL).SendDocument(context.Background(), domain.Document{Path: writeTempDocument(t, "x")})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDelivery))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestClient_SendDocument_MissingFile(t *testing.T) {
	err := testClient(t, "http://127.0.0.1:0").SendDocument(context.Background(), domain.Document{
		Path: filepath.Join(t.TempDir(), "missing.html"),
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrDelivery))
	assert.Contains(t, err.Error(), "open document")
}

func TestClient_SendDocument_TransportErrorHidesToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := testClient(t, url).SendDocument(context.Background(), domain.Document{Path: writeTempDocument(t, "x")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDelivery))
	assert.NotContains(t, err.Error(), testToken)
}

func TestClient_SendDocument_Any2xxIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(okResponse))
	}))
	defer srv.Close()

	require.NoError(t, testClient(t, srv.URL).SendDocument(context.Background(), domain.Document{Path: writeTempDocument(t, "x")}))
}
