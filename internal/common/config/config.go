// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig               `mapstructure:"app"`
	Remote  RemoteConfig            `mapstructure:"remote"`
	Cache   CacheConfig             `mapstructure:"cache"`
	Camunda CamundaConfig           `mapstructure:"camunda"`
	Workers map[string]WorkerConfig `mapstructure:"workers"`
	Logging LoggingConfig           `mapstructure:"logging"`
	Render  RenderConfig            `mapstructure:"render"`
	Metrics MetricsConfig           `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// RemoteConfig points the fetch adapter at the section content API.
type RemoteConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Token     string `mapstructure:"token"`
	TimeoutMs int    `mapstructure:"timeout_ms"`

	// LenientFallback turns malformed encoded fallbacks into empty
	// collections.
	LenientFallback bool `mapstructure:"lenient_fallback"`
}

// Timeout returns the per-request bound.
func (r RemoteConfig) Timeout() time.Duration {
	return GetDuration(r.TimeoutMs)
}

// CacheConfig controls the optional Redis response cache.
type CacheConfig struct {
	Enabled    bool        `mapstructure:"enabled"`
	TTLSeconds int         `mapstructure:"ttl_seconds"`
	KeyPrefix  string      `mapstructure:"key_prefix"`
	Redis      RedisConfig `mapstructure:"redis"`
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WorkerConfig holds the settings applicable to every job worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// RenderConfig overrides parts of the default presentation theme.
type RenderConfig struct {
	Theme ThemeConfig `mapstructure:"theme"`
}

type ThemeConfig struct {
	Name       string `mapstructure:"name"`
	Primary    string `mapstructure:"primary"`
	Accent     string `mapstructure:"accent"`
	Text       string `mapstructure:"text"`
	Background string `mapstructure:"background"`
	FontFamily string `mapstructure:"font_family"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}
