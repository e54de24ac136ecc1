// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"strings"
)

// applyDefaults fills zero-valued fields of the merged config with the
// built-in defaults. Runs before validate so that a bare invocation of either
// binary still starts against localhost.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = defaultListenAddress
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Auth.TokenIssuer == "" {
		cfg.Auth.TokenIssuer = defaultTokenIssuer
	}
	if cfg.Auth.TokenDuration <= 0 {
		cfg.Auth.TokenDuration = defaultTokenDuration
	}
	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = defaultDSN
	}
	if cfg.Adapter.ServerURL == "" {
		cfg.Adapter.ServerURL = defaultServerURL
	}
	if cfg.Adapter.RequestTimeout <= 0 {
		cfg.Adapter.RequestTimeout = defaultAdapterTimeout
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	if !strings.Contains(cfg.Server.HTTPAddress, ":") {
		errs = append(errs, ErrInvalidListenAddress)
	}
	if !strings.Contains(cfg.Adapter.ServerURL, "://") {
		errs = append(errs, ErrInvalidServerURL)
	}
	if cfg.Adapter.WSURL != "" && !strings.HasPrefix(cfg.Adapter.WSURL, "ws") {
		errs = append(errs, ErrInvalidWSURL)
	}

	return errors.Join(errs...)
}
