package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// ErrMissingCredential reports a credential file that is absent or blank.
var ErrMissingCredential = errors.New("missing credential")

// Config holds all run settings, populated from environment variables.
type Config struct {
	LogLevel  string
	LogFormat string

	CWABaseURL string
	CWATimeout time.Duration

	TelegramBaseURL string
	TelegramTimeout time.Duration

	// Credential file locations.
	APIKeyFile        string
	TelegramTokenFile string
	ChatIDFile        string

	// OutputDir receives the temporary HTML artifact.
	OutputDir string
	// DebugDumpDir, when set, keeps a copy of every raw upstream payload.
	DebugDumpDir string

	// Optional row feed. Disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string

	// Optional metrics push. Disabled when empty.
	PushgatewayURL string
}

// Credentials are the secrets read from the credential files.
type Credentials struct {
	CWAAPIKey     string
	TelegramToken string
	ChatID        string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	cwaTimeout, err := parsePositiveDuration("CWA_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	telegramTimeout, err := parsePositiveDuration("TELEGRAM_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:          sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		CWABaseURL:        sharedcfg.EnvOrDefault("CWA_BASE_URL", "https://opendata.cwa.gov.tw/api/v1/rest/datastore"),
		CWATimeout:        cwaTimeout,
		TelegramBaseURL:   sharedcfg.EnvOrDefault("TELEGRAM_BASE_URL", "https://api.telegram.org"),
		TelegramTimeout:   telegramTimeout,
		APIKeyFile:        sharedcfg.EnvOrDefault("API_KEY_FILE", "API-KEY.txt"),
		TelegramTokenFile: sharedcfg.EnvOrDefault("TELEGRAM_TOKEN_FILE", "TELEGRAM-TOKEN.txt"),
		ChatIDFile:        sharedcfg.EnvOrDefault("CHAT_ID_FILE", "CHAT-ID.txt"),
		OutputDir:         sharedcfg.EnvOrDefault("OUTPUT_DIR", "."),
		DebugDumpDir:      os.Getenv("DEBUG_DUMP_DIR"),
		KafkaBrokers:      parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        sharedcfg.EnvOrDefault("KAFKA_TOPIC", "cwa-weather-rows"),
		PushgatewayURL:    os.Getenv("PUSHGATEWAY_URL"),
	}

	if cfg.CWABaseURL == "" {
		return nil, errors.New("CWA_BASE_URL is required")
	}
	if cfg.TelegramBaseURL == "" {
		return nil, errors.New("TELEGRAM_BASE_URL is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

// KafkaEnabled reports whether normalized rows should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// LoadCredentials reads the three credential files. Every file must exist and
// hold a non-blank value.
func LoadCredentials(cfg *Config) (Credentials, error) {
	apiKey, err := readCredential(cfg.APIKeyFile, "CWA API key")
	if err != nil {
		return Credentials{}, err
	}
	token, err := readCredential(cfg.TelegramTokenFile, "Telegram bot token")
	if err != nil {
		return Credentials{}, err
	}
	chatID, err := readCredential(cfg.ChatIDFile, "Telegram chat ID")
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{CWAAPIKey: apiKey, TelegramToken: token, ChatID: chatID}, nil
}

func readCredential(path, name string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s file %q not found", ErrMissingCredential, name, path)
		}
		return "", fmt.Errorf("read %s file: %w", name, err)
	}
	v := strings.TrimSpace(string(data))
	if v == "" {
		return "", fmt.Errorf("%w: %s file %q is empty", ErrMissingCredential, name, path)
	}
	return v, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parseBrokers splits a comma-separated broker list, dropping blanks.
func parseBrokers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return sharedcfg.ParseBrokers(s)
}
