package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	defaultListenAddress  = "localhost:8080"
	defaultRequestTimeout = 30 * time.Second
	defaultTokenIssuer    = "vm-console"
	defaultTokenDuration  = 12 * time.Hour
	defaultDSN            = "inventory.db"
)

// ServerConfig is the top-level server configuration assembled from
// [StructuredConfig].
type ServerConfig struct {
	// Auth contains token signing settings.
	Auth Auth
	// Server contains listen address and timeouts.
	Server Server
	// Storage contains database settings.
	Storage Storage
}

// GetServerConfig builds and validates a server-specific config view from the
// merged structured configuration. The token sign key has no default: the
// server refuses to start without one.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	if cfg.Auth.TokenSignKey == "" {
		return nil, ErrEmptyTokenSignKey
	}

	serverCfg := &ServerConfig{
		Auth:    cfg.Auth,
		Server:  cfg.Server,
		Storage: cfg.Storage,
	}

	return serverCfg, serverCfg.validate()
}

func (cfg *ServerConfig) validate() error {
	var errs []error

	if cfg.Auth.TokenDuration <= 0 {
		errs = append(errs, errors.New("token duration must be positive"))
	}
	if cfg.Storage.DB.DSN == "" {
		errs = append(errs, errors.New("database DSN must not be empty"))
	}

	return errors.Join(errs...)
}
