package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "https://opendata.cwa.gov.tw/api/v1/rest/datastore", cfg.CWABaseURL)
	assert.Equal(t, 30*time.Second, cfg.CWATimeout)
	assert.Equal(t, "https://api.telegram.org", cfg.TelegramBaseURL)
	assert.Equal(t, 60*time.Second, cfg.TelegramTimeout)
	assert.Equal(t, "API-KEY.txt", cfg.APIKeyFile)
	assert.Equal(t, "TELEGRAM-TOKEN.txt", cfg.TelegramTokenFile)
	assert.Equal(t, "CHAT-ID.txt", cfg.ChatIDFile)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Empty(t, cfg.DebugDumpDir)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, "cwa-weather-rows", cfg.KafkaTopic)
	assert.Empty(t, cfg.PushgatewayURL)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("CWA_BASE_URL", "http://cwa.local/datastore")
	t.Setenv("CWA_TIMEOUT", "5s")
	t.Setenv("TELEGRAM_BASE_URL", "http://tg.local")
	t.Setenv("TELEGRAM_TIMEOUT", "90s")
	t.Setenv("API_KEY_FILE", "/secrets/api")
	t.Setenv("TELEGRAM_TOKEN_FILE", "/secrets/token")
	t.Setenv("CHAT_ID_FILE", "/secrets/chat")
	t.Setenv("OUTPUT_DIR", "/tmp/out")
	t.Setenv("DEBUG_DUMP_DIR", "/tmp/debug")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "rows")
	t.Setenv("PUSHGATEWAY_URL", "http://push:9091")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "http://cwa.local/datastore", cfg.CWABaseURL)
	assert.Equal(t, 5*time.Second, cfg.CWATimeout)
	assert.Equal(t, "http://tg.local", cfg.TelegramBaseURL)
	assert.Equal(t, 90*time.Second, cfg.TelegramTimeout)
	assert.Equal(t, "/secrets/api", cfg.APIKeyFile)
	assert.Equal(t, "/secrets/token", cfg.TelegramTokenFile)
	assert.Equal(t, "/secrets/chat", cfg.ChatIDFile)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, "/tmp/debug", cfg.DebugDumpDir)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, "rows", cfg.KafkaTopic)
	assert.Equal(t, "http://push:9091", cfg.PushgatewayURL)
}

func TestLoad_InvalidCWATimeout(t *testing.T) {
	t.Setenv("CWA_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CWA_TIMEOUT")
}

func TestLoad_NegativeTelegramTimeout(t *testing.T) {
	t.Setenv("TELEGRAM_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TIMEOUT")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func credentialConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	return &Config{
		APIKeyFile:        writeFile(t, dir, "API-KEY.txt", "CWA-KEY\n"),
		TelegramTokenFile: writeFile(t, dir, "TELEGRAM-TOKEN.txt", "  123:abc  "),
		ChatIDFile:        writeFile(t, dir, "CHAT-ID.txt", "-100200300"),
	}
}

func TestLoadCredentials(t *testing.T) {
	creds, err := LoadCredentials(credentialConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "CWA-KEY", creds.CWAAPIKey)
	assert.Equal(t, "123:abc", creds.TelegramToken)
	assert.Equal(t, "-100200300", creds.ChatID)
}

func TestLoadCredentials_MissingFile(t *testing.T) {
	cfg := credentialConfig(t)
	cfg.TelegramTokenFile = filepath.Join(t.TempDir(), "nope.txt")

	_, err := LoadCredentials(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredential))
	assert.Contains(t, err.Error(), "Telegram bot token")
}

func TestLoadCredentials_BlankFile(t *testing.T) {
	cfg := credentialConfig(t)
	cfg.ChatIDFile = writeFile(t, t.TempDir(), "CHAT-ID.txt", " \n\t")

	_, err := LoadCredentials(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredential))
	assert.Contains(t, err.Error(), "empty")
}
