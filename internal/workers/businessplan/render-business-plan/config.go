package renderbusinessplan

import (
	"time"

	"bizplan-workers/internal/businessplan"
	"bizplan-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	Theme   businessplan.Theme
	Title   string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Theme:   businessplan.DefaultTheme(),
		Title:   "Business Plan",
	}
}

// ConfigFromWorker applies the worker section and the configured theme.
func ConfigFromWorker(wc config.WorkerConfig, rc config.RenderConfig) *Config {
	cfg := LoadConfig()
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	cfg.Theme = businessplan.Theme{
		Name:       rc.Theme.Name,
		Primary:    rc.Theme.Primary,
		Accent:     rc.Theme.Accent,
		Text:       rc.Theme.Text,
		Background: rc.Theme.Background,
		FontFamily: rc.Theme.FontFamily,
	}.Merge(businessplan.DefaultTheme())
	return cfg
}
