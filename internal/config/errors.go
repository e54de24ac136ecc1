package config

import "errors"

var (
	ErrInvalidListenAddress = errors.New("server listen address must be host:port")
	ErrInvalidServerURL     = errors.New("adapter server url must include a scheme")
	ErrInvalidWSURL         = errors.New("adapter ws url must use ws:// or wss://")
	ErrEmptyTokenSignKey    = errors.New("token sign key must not be empty")
)
