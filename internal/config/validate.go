package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *UpdaterConfig) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.API.PricesURL == "" {
		return errors.New("api.prices_url is required")
	}
	if c.API.SecuritiesURL == "" {
		return errors.New("api.securities_url is required")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must be >= 0")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Reconcile.ConfirmLagDays < 1 {
		return errors.New("reconcile.confirm_lag_days must be >= 1")
	}
	if c.Reconcile.PriceFloor < 0 {
		return errors.New("reconcile.price_floor must be >= 0")
	}
	if c.Reconcile.Epsilon <= 0 {
		return errors.New("reconcile.epsilon must be > 0")
	}

	if c.Runner.LookbackDays < 0 {
		return errors.New("runner.lookback_days must be >= 0")
	}
	if c.Runner.Pause < 0 {
		return errors.New("runner.pause must be >= 0")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
