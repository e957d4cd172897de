package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAlignment(); err != nil {
		return err
	}
	if c.Batch.Workers <= 0 {
		return errors.New("batch.workers must be positive")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not supported", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateAlignment() error {
	switch c.Alignment.Strategy {
	case "windowed", "dp", "auto":
	default:
		return fmt.Errorf("alignment.strategy %q is not supported (windowed, dp, auto)", c.Alignment.Strategy)
	}
	if c.Alignment.MinCover <= 0 || c.Alignment.MinCover > 1 {
		return errors.New("alignment.min_cover must be between 0 and 1")
	}
	if c.Alignment.ChainGate <= 0 || c.Alignment.ChainGate > 1 {
		return errors.New("alignment.chain_gate must be between 0 and 1")
	}
	if c.Alignment.SearchAhead <= 0 {
		return errors.New("alignment.search_ahead must be positive")
	}
	if c.Alignment.SkipMax < 0 {
		return errors.New("alignment.skip_max must be >= 0")
	}
	if c.Alignment.FixedGapSecs <= 0 {
		return errors.New("alignment.fixed_gap_secs must be positive")
	}
	if c.Alignment.MinLineDurationSecs <= 0 {
		return errors.New("alignment.min_line_duration_secs must be positive")
	}
	return nil
}
