package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API     APIConfig
	Auth    AuthConfig
	Polling PollingConfig
	Journal JournalConfig
	Logger  LoggerConfig
}

type APIConfig struct {
	URL            string
	Timeout        time.Duration
	RateLimitQPS   float32
	RateLimitBurst int
}

type AuthConfig struct {
	IssuerID   string
	KeyID      string
	PrivateKey []byte
	TokenTTL   time.Duration
}

type PollingConfig struct {
	InitialDelay time.Duration
	Interval     time.Duration
	MaxTries     int
}

type JournalConfig struct {
	Enabled     bool
	DatabaseURL string
	MaxConns    int
}

type LoggerConfig struct {
	Level  string
	Format string
}

const DefaultAPIURL = "https://api.appstoreconnect.apple.com"

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("ASC_API_URL", DefaultAPIURL)
	v.SetDefault("ASC_API_TIMEOUT", "30s")
	v.SetDefault("ASC_RATE_LIMIT_QPS", 5)
	v.SetDefault("ASC_RATE_LIMIT_BURST", 10)
	v.SetDefault("ASC_ISSUER_ID", "")
	v.SetDefault("ASC_KEY_ID", "")
	v.SetDefault("ASC_PRIVATE_KEY", "")
	v.SetDefault("ASC_PRIVATE_KEY_PATH", "")
	v.SetDefault("ASC_TOKEN_TTL", "20m")
	v.SetDefault("ASC_POLL_INITIAL_DELAY", "0s")
	v.SetDefault("ASC_POLL_INTERVAL", "60s")
	v.SetDefault("ASC_POLL_MAX_TRIES", 60)
	v.SetDefault("JOURNAL_ENABLED", false)
	v.SetDefault("JOURNAL_DATABASE_URL", "")
	v.SetDefault("JOURNAL_MAX_CONNS", 4)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	privateKey := []byte(v.GetString("ASC_PRIVATE_KEY"))
	if len(privateKey) == 0 {
		if path := v.GetString("ASC_PRIVATE_KEY_PATH"); path != "" {
			b, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read private key: %w", err)
			}
			privateKey = b
		}
	}

	cfg := &Config{
		API: APIConfig{
			URL:            v.GetString("ASC_API_URL"),
			Timeout:        duration(v, "ASC_API_TIMEOUT", 30*time.Second),
			RateLimitQPS:   float32(v.GetFloat64("ASC_RATE_LIMIT_QPS")),
			RateLimitBurst: v.GetInt("ASC_RATE_LIMIT_BURST"),
		},
		Auth: AuthConfig{
			IssuerID:   v.GetString("ASC_ISSUER_ID"),
			KeyID:      v.GetString("ASC_KEY_ID"),
			PrivateKey: privateKey,
			TokenTTL:   duration(v, "ASC_TOKEN_TTL", 20*time.Minute),
		},
		Polling: PollingConfig{
			InitialDelay: duration(v, "ASC_POLL_INITIAL_DELAY", 0),
			Interval:     duration(v, "ASC_POLL_INTERVAL", 60*time.Second),
			MaxTries:     v.GetInt("ASC_POLL_MAX_TRIES"),
		},
		Journal: JournalConfig{
			Enabled:     v.GetBool("JOURNAL_ENABLED"),
			DatabaseURL: v.GetString("JOURNAL_DATABASE_URL"),
			MaxConns:    v.GetInt("JOURNAL_MAX_CONNS"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}
