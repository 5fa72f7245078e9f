package config

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

var (
	ErrMissingAdminUsername  = errors.New("ADMIN_USERNAME must not be empty")
	ErrUnknownRateLimitStore = errors.New("unknown rate limit store")
	ErrZeroRateLimit         = errors.New("RATE_LIMIT_RPS must be positive when rate limiting is enabled")
)

func Init() (*ServiceConfig, error) {
	cfg := &ServiceConfig{}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("unable to parse service configuration: %w", err)
	}

	if len(ServiceVersion) != 0 {
		cfg.App.ServiceVersion = ServiceVersion
	}

	if len(CommitSHA) != 0 {
		cfg.App.CommitSHA = CommitSHA
	}

	if cfg.Actions.AdminUsername == "" {
		return nil, ErrMissingAdminUsername
	}

	switch cfg.RateLimiting.Store {
	case RateLimitStoreMemory, RateLimitStoreRedis:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRateLimitStore, cfg.RateLimiting.Store)
	}

	if cfg.RateLimiting.Enabled && cfg.RateLimiting.RequestsPerSecond == 0 {
		return nil, ErrZeroRateLimit
	}

	return cfg, nil
}
