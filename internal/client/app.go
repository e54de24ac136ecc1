// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client assembles the console application from its parts and owns
// the session lifecycle around the UI.
package client

import (
	"context"
	"errors"

	"github.com/MKhiriev/vm-console/internal/cache"
	"github.com/MKhiriev/vm-console/internal/channel"
	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/internal/session"
	"github.com/MKhiriev/vm-console/internal/tui"
	"github.com/MKhiriev/vm-console/models"
)

type App struct {
	session *session.Store
	channel *channel.Channel
	cache   *cache.Controller
	tui     *tui.TUI
	logger  *logger.Logger
}

func NewApp(sessionStore *session.Store, pushChannel *channel.Channel, cacheController *cache.Controller, ui *tui.TUI, logger *logger.Logger) *App {
	return &App{
		session: sessionStore,
		channel: pushChannel,
		cache:   cacheController,
		tui:     ui,
		logger:  logger,
	}
}

// Run drives the session loop: restore or sign in, keep the push channel
// alive for the lifetime of the identity, run the main screen, and start
// over after a logout.
func (a *App) Run() error {
	ctx := context.Background()

	// Every push event staleness-marks the whole cache.
	unsubscribe := a.channel.Subscribe(a.cache.OnChannelEvent)
	defer unsubscribe()

	// The channel follows the identity: connected while signed in,
	// disconnected after logout.
	unwatch := a.session.Watch(func(identity *models.Identity) {
		if identity == nil {
			a.channel.Disconnect()
			return
		}
		a.channel.Connect(ctx)
	})
	defer unwatch()

	for {
		identity, ok := a.session.Restore(ctx)
		if !ok {
			var err error
			identity, err = a.tui.LoginFlow(ctx)
			if err != nil {
				if errors.Is(err, tui.ErrUserQuit) {
					return nil
				}
				return err
			}
		} else {
			a.logger.Info().Str("email", identity.Email).Msg("session restored from stored credential")
			a.channel.Connect(ctx)
		}

		logout, err := a.tui.MainLoop(ctx, identity)
		if err != nil {
			return err
		}
		if !logout {
			a.channel.Disconnect()
			return nil
		}
		// signed out: fall through to a fresh login flow
	}
}
