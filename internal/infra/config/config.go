package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Auth        AuthConfig        `yaml:"auth"`
	Postgres    PostgresConfig    `yaml:"postgres"`
	Valkey      ValkeyConfig      `yaml:"valkey"`
	Cache       CacheConfig       `yaml:"cache"`
	Queue       QueueConfig       `yaml:"queue"`
	Baseline    BaselineConfig    `yaml:"baseline"`
	LoadFactor  LoadFactorConfig  `yaml:"loadFactor"`
	Rebalancing RebalancingConfig `yaml:"rebalancing"`
	Stations    StationsConfig    `yaml:"stations"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address         string          `yaml:"address"`
	ReadTimeout     time.Duration   `yaml:"readTimeout"`
	WriteTimeout    time.Duration   `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	AllowedOrigins  []string        `yaml:"allowedOrigins"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
	Retry           RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// AuthConfig holds the shared secret used to verify bearer tokens.
type AuthConfig struct {
	Secret string        `yaml:"secret"`
	Issuer string        `yaml:"issuer"`
	Leeway time.Duration `yaml:"leeway"`
}

// PostgresConfig contains DSN and pooling settings. An empty DSN selects the
// in-memory repositories.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for the cache and alert queue.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// CacheConfig controls resolved-baseline caching.
type CacheConfig struct {
	BaselineTTL time.Duration `yaml:"baselineTtl"`
	Prefix      string        `yaml:"prefix"`
}

// QueueConfig names the alert delivery list.
type QueueConfig struct {
	AlertKey string `yaml:"alertKey"`
}

// BaselineConfig controls the baseline fallback chain.
type BaselineConfig struct {
	DefaultDemand    float64 `yaml:"defaultDemand"`
	DefaultDayOfWeek int     `yaml:"defaultDayOfWeek"`
	DefaultHour      int     `yaml:"defaultHour"`
	Timezone         string  `yaml:"timezone"`
}

// LoadFactorConfig holds the tier edges.
type LoadFactorConfig struct {
	Deficient float64 `yaml:"deficient"`
	Normal    float64 `yaml:"normal"`
	Healthy   float64 `yaml:"healthy"`
}

// RebalancingConfig holds the rebalancing thresholds.
type RebalancingConfig struct {
	LowThreshold    int     `yaml:"lowThreshold"`
	HighThreshold   float64 `yaml:"highThreshold"`
	MaxNeedStations int     `yaml:"maxNeedStations"`
}

// StationsConfig controls the station queries.
type StationsConfig struct {
	DefaultRadiusKm    float64       `yaml:"defaultRadiusKm"`
	HistoryWindow      time.Duration `yaml:"historyWindow"`
	ResolveConcurrency int           `yaml:"resolveConcurrency"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_ISSUER"); v != "" {
		cfg.Auth.Issuer = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
	if v := os.Getenv("BASELINE_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.BaselineTTL = parsed
		}
	}
	if v := os.Getenv("ALERT_QUEUE_KEY"); v != "" {
		cfg.Queue.AlertKey = v
	}
	if v := os.Getenv("BASELINE_DEFAULT_DEMAND"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Baseline.DefaultDemand = parsed
		}
	}
	if v := os.Getenv("TIMEZONE"); v != "" {
		cfg.Baseline.Timezone = v
	}
	if v := os.Getenv("REBALANCING_LOW_THRESHOLD"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Rebalancing.LowThreshold = parsed
		}
	}
	if v := os.Getenv("REBALANCING_HIGH_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Rebalancing.HighThreshold = parsed
		}
	}
	if v := os.Getenv("STATIONS_DEFAULT_RADIUS_KM"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Stations.DefaultRadiusKm = parsed
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"http://localhost:3000"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 2,
				BaseBackoff: 100 * time.Millisecond,
				Exclude: []string{
					"/metrics",
				},
			},
		},
		Postgres: PostgresConfig{
			MaxConns: 8,
		},
		Cache: CacheConfig{
			BaselineTTL: 10 * time.Minute,
			Prefix:      "bikeshare",
		},
		Queue: QueueConfig{
			AlertKey: "bikeshare:alerts",
		},
		Baseline: BaselineConfig{
			DefaultDemand:    10,
			DefaultDayOfWeek: 1,
			DefaultHour:      8,
			Timezone:         "Asia/Seoul",
		},
		LoadFactor: LoadFactorConfig{
			Deficient: 0.5,
			Normal:    0.8,
			Healthy:   1.2,
		},
		Rebalancing: RebalancingConfig{
			LowThreshold:    3,
			HighThreshold:   0.8,
			MaxNeedStations: 10,
		},
		Stations: StationsConfig{
			DefaultRadiusKm:    1,
			HistoryWindow:      7 * 24 * time.Hour,
			ResolveConcurrency: 8,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth.secret cannot be empty")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Cache.BaselineTTL < 0 {
		return errors.New("cache.baselineTtl cannot be negative")
	}
	if c.Baseline.DefaultDemand <= 0 {
		return errors.New("baseline.defaultDemand must be positive")
	}
	if c.Baseline.DefaultDayOfWeek < 0 || c.Baseline.DefaultDayOfWeek > 6 {
		return errors.New("baseline.defaultDayOfWeek must be between 0 and 6")
	}
	if c.Baseline.DefaultHour < 0 || c.Baseline.DefaultHour > 23 {
		return errors.New("baseline.defaultHour must be between 0 and 23")
	}
	if c.Baseline.Timezone != "" {
		if _, err := time.LoadLocation(c.Baseline.Timezone); err != nil {
			return fmt.Errorf("baseline.timezone: %w", err)
		}
	}
	lf := c.LoadFactor
	if lf.Deficient <= 0 || lf.Normal <= lf.Deficient || lf.Healthy < lf.Normal {
		return errors.New("loadFactor thresholds must satisfy 0 < deficient < normal <= healthy")
	}
	if c.Rebalancing.LowThreshold <= 0 {
		return errors.New("rebalancing.lowThreshold must be positive")
	}
	if c.Rebalancing.HighThreshold <= 0 {
		return errors.New("rebalancing.highThreshold must be positive")
	}
	if c.Rebalancing.MaxNeedStations <= 0 {
		return errors.New("rebalancing.maxNeedStations must be positive")
	}
	if c.Stations.DefaultRadiusKm <= 0 {
		return errors.New("stations.defaultRadiusKm must be positive")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
