package config

import (
	"strings"
	"time"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App       AppConfig
	Store     StoreConfig
	Cache     CacheConfig
	Metrics   MetricsConfig
	Upstream  UpstreamConfig
	FetchPool FetchPoolConfig
	Health    HealthConfig
	Paths     PathsConfig
}

type AppConfig struct {
	Version     string
	Port        string
	Debug       bool
	Environment string
	BasicAuth   []string
	BasePath    string
}

type StoreConfig struct {
	ValkeyEnabled  bool
	Address        string
	Password       string
	DB             int
	KeyPrefix      string
	ConnectTimeout time.Duration
	OpTimeout      time.Duration
	MaxAttempts    int
	RetryBackoff   time.Duration
}

type CacheConfig struct {
	TTL       time.Duration
	Namespace string
}

type MetricsConfig struct {
	PrometheusEnabled bool
	PrometheusAddr    string
}

type UpstreamConfig struct {
	OpenAIKey      string
	Model          string
	SearchURL      string
	RequestTimeout time.Duration
	MaxEvidence    int
}

type FetchPoolConfig struct {
	Workers   int
	QueueSize int
}

type HealthConfig struct {
	CheckInterval time.Duration
}

type PathsConfig struct {
	Storages string
}

// Global provides access to the loaded configuration.
var Global *Config

// LoadConfig loads configuration from environment variables with defaults
// suited to a localhost deployment next to the browser extension.
func LoadConfig() (*Config, error) {
	var basicAuth []string
	if v := getEnv("APP_BASIC_AUTH", ""); v != "" {
		basicAuth = strings.Split(v, ",")
	}

	cfg := &Config{
		App: AppConfig{
			Version:     "v1.2.0",
			Port:        getEnv("APP_PORT", "3000"),
			Debug:       getEnvBool("APP_DEBUG", false),
			Environment: getEnv("APP_ENV", "development"),
			BasicAuth:   basicAuth,
			BasePath:    getEnv("APP_BASE_PATH", ""),
		},
		Store: StoreConfig{
			ValkeyEnabled:  getEnvBool("VALKEY_ENABLED", true),
			Address:        getEnv("VALKEY_ADDRESS", "localhost:6379"),
			Password:       getEnv("VALKEY_PASSWORD", ""),
			DB:             getEnvInt("VALKEY_DB", 0),
			KeyPrefix:      getEnv("VALKEY_KEY_PREFIX", ""),
			ConnectTimeout: getEnvDuration("STORE_CONNECT_TIMEOUT", 5*time.Second),
			OpTimeout:      getEnvDuration("STORE_OP_TIMEOUT", 2*time.Second),
			MaxAttempts:    getEnvInt("STORE_MAX_ATTEMPTS", 3),
			RetryBackoff:   getEnvDuration("STORE_RETRY_BACKOFF", 500*time.Millisecond),
		},
		Cache: CacheConfig{
			TTL:       getEnvDuration("CACHE_TTL", 600*time.Second),
			Namespace: getEnv("CACHE_NAMESPACE", "summary:"),
		},
		Metrics: MetricsConfig{
			PrometheusEnabled: getEnvBool("PROMETHEUS_ENABLED", false),
			PrometheusAddr:    getEnv("PROMETHEUS_ADDR", ":9091"),
		},
		Upstream: UpstreamConfig{
			OpenAIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			SearchURL:      getEnv("SEARCH_URL", ""),
			RequestTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second),
			MaxEvidence:    getEnvInt("MAX_EVIDENCE_SOURCES", 3),
		},
		FetchPool: FetchPoolConfig{
			Workers:   getEnvInt("FETCH_POOL_WORKERS", 4),
			QueueSize: getEnvInt("FETCH_POOL_QUEUE_SIZE", 32),
		},
		Health: HealthConfig{
			CheckInterval: getEnvDuration("HEALTH_CHECK_INTERVAL", 5*time.Minute),
		},
		Paths: PathsConfig{
			Storages: getEnv("APP_STORAGES_PATH", "storages"),
		},
	}

	Global = cfg
	return cfg, nil
}
