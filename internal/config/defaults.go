package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultInstanceID     = "ust"
	DefaultPricesURL      = "https://www.treasurydirect.gov/GA-FI/FedInvest/securityPriceDetail"
	DefaultSecuritiesURL  = "https://www.treasurydirect.gov/TA_WS/securities/search"
	DefaultUserAgent      = "ust-updater/1.0"
	DefaultAPITimeout     = 30 * time.Second
	DefaultMaxRetries     = 3
	DefaultRetryBackoff   = 1 * time.Second
	DefaultDBPort         = 5432
	DefaultDBSSLMode      = "prefer"
	DefaultMaxConns       = 4
	DefaultMinConns       = 1
	DefaultConfirmLagDays = 7
	DefaultPriceFloor     = 0.01
	DefaultEpsilon        = 1e-6
	DefaultLookbackDays   = 10
	DefaultPause          = 500 * time.Millisecond
	DefaultRunInterval    = 6 * time.Hour
	DefaultServerPort     = 8080
	DefaultReadTimeout    = 10 * time.Second
	DefaultWriteTimeout   = 60 * time.Second
	DefaultMetricsPath    = "/metrics"
)

func (c *UpdaterConfig) applyDefaults() {
	if c.Instance.ID == "" {
		c.Instance.ID = DefaultInstanceID
	}

	// API defaults
	if c.API.PricesURL == "" {
		c.API.PricesURL = DefaultPricesURL
	}
	if c.API.SecuritiesURL == "" {
		c.API.SecuritiesURL = DefaultSecuritiesURL
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = DefaultUserAgent
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultRetryBackoff
	}

	applyDBDefaults(&c.Database)

	// Reconcile defaults
	if c.Reconcile.ConfirmLagDays == 0 {
		c.Reconcile.ConfirmLagDays = DefaultConfirmLagDays
	}
	if c.Reconcile.PriceFloor == 0 {
		c.Reconcile.PriceFloor = DefaultPriceFloor
	}
	if c.Reconcile.Epsilon == 0 {
		c.Reconcile.Epsilon = DefaultEpsilon
	}

	// Runner defaults
	if c.Runner.LookbackDays == 0 {
		c.Runner.LookbackDays = DefaultLookbackDays
	}
	if c.Runner.Pause == 0 {
		c.Runner.Pause = DefaultPause
	}
	if c.Runner.Interval == 0 {
		c.Runner.Interval = DefaultRunInterval
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
