package importbusinessplan

import (
	"time"

	"bizplan-workers/internal/common/config"
)

type Config struct {
	Timeout         time.Duration
	LenientFallback bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}

// ConfigFromWorker applies the worker and remote sections of the
// application config.
func ConfigFromWorker(wc config.WorkerConfig, rc config.RemoteConfig) *Config {
	cfg := LoadConfig()
	cfg.LenientFallback = rc.LenientFallback
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
