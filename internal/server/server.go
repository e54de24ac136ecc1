// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the HTTP listener with graceful shutdown on SIGINT,
// SIGTERM and SIGQUIT.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/vm-console/internal/config"
	"github.com/MKhiriev/vm-console/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

func New(cfg config.Server, handler http.Handler, logger *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.HTTPAddress,
			Handler:      handler,
			ReadTimeout:  cfg.RequestTimeout,
			WriteTimeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests. Main
// derives ctx from [SignalContext] so the listener and background components
// (like the push hub) stop together.
func (s *Server) Run(ctx context.Context) error {
	idleConnectionsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		s.logger.Info().Str("func", "Server.Run").Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Err(err).Str("func", "Server.Run").Msg("graceful shutdown failed")
		}
		close(idleConnectionsClosed)
	}()

	s.logger.Info().Str("func", "Server.Run").Str("address", s.httpServer.Addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-idleConnectionsClosed
	s.logger.Info().Str("func", "Server.Run").Msg("http server stopped")
	return nil
}

// SignalContext returns a context cancelled when the parent receives a
// shutdown signal. It lets main share one signal context between the server
// and background workers.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}
