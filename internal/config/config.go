package config

import "time"

// UpdaterConfig is the root configuration for the ust tool.
type UpdaterConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	API       APIConfig       `yaml:"api"`
	Database  DBConfig        `yaml:"database"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Runner    RunnerConfig    `yaml:"runner"`
	Server    ServerConfig    `yaml:"server"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// InstanceConfig identifies this deployment in logs.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds TreasuryDirect endpoints and client settings.
type APIConfig struct {
	PricesURL     string        `yaml:"prices_url"`     // FedInvest price detail form
	SecuritiesURL string        `yaml:"securities_url"` // TA_WS securities search
	UserAgent     string        `yaml:"user_agent"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxRetries    int           `yaml:"max_retries"`
	RetryBackoff  time.Duration `yaml:"retry_backoff"`
}

// DBConfig holds the PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`

	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// ReconcileConfig holds the confirmation policy.
type ReconcileConfig struct {
	ConfirmLagDays int     `yaml:"confirm_lag_days"` // dates this old are final regardless of prices
	PriceFloor     float64 `yaml:"price_floor"`      // end of day prices at or below are placeholders
	Epsilon        float64 `yaml:"epsilon"`          // snapshot equality tolerance
}

// RunnerConfig holds the date loop settings.
type RunnerConfig struct {
	LookbackDays int           `yaml:"lookback_days"` // extra days beyond the confirm lag for daily runs
	Pause        time.Duration `yaml:"pause"`         // sleep between dates
	Interval     time.Duration `yaml:"interval"`      // schedule of the daily run in serve mode
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MetricsEnabled reports whether the metrics endpoint is served.
func (c *UpdaterConfig) MetricsEnabled() bool {
	return c.Metrics.Enabled == nil || *c.Metrics.Enabled
}
