// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui renders the admin console as a terminal UI built on Bubble Tea.
//
// The package is a pure view layer: it owns no inventory state of its own.
// Every page of machines comes from the cache controller, every mutation
// goes through a controller mutator, and the session store is the only
// authority on who is signed in. Push events reach the running program via
// [tea.Program.Send] and merely trigger a re-read through the cache.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/vm-console/internal/cache"
	"github.com/MKhiriev/vm-console/internal/channel"
	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/internal/session"
	"github.com/MKhiriev/vm-console/models"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUserQuit = errors.New("user quit")

type TUI struct {
	session *session.Store
	cache   *cache.Controller
	channel *channel.Channel
	logger  *logger.Logger
}

func New(sessionStore *session.Store, cacheController *cache.Controller, pushChannel *channel.Channel, logger *logger.Logger) *TUI {
	return &TUI{
		session: sessionStore,
		cache:   cacheController,
		channel: pushChannel,
		logger:  logger,
	}
}

// LoginFlow runs the sign-in screen until a session is established or the
// user quits.
func (t *TUI) LoginFlow(ctx context.Context) (models.Identity, error) {
	model := newLoginModel(ctx, t.session)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return models.Identity{}, runErr
	}

	result, ok := finalModel.(loginModel)
	if !ok {
		return models.Identity{}, tea.ErrProgramKilled
	}
	if result.quitByUser {
		return models.Identity{}, ErrUserQuit
	}
	return result.identity, nil
}

// MainLoop runs the inventory screen for an established session. It returns
// logout=true when the user signed out rather than quit, so the caller can
// loop back into LoginFlow.
func (t *TUI) MainLoop(ctx context.Context, identity models.Identity) (logout bool, err error) {
	model := newMainLoopModel(ctx, t.cache, t.channel, identity)
	program := tea.NewProgram(model, tea.WithAltScreen())

	// Push events land in the program's message queue like any key press.
	unsubscribe := t.channel.Subscribe(func(event channel.Event) {
		program.Send(pushEventMsg{event: event})
	})
	defer unsubscribe()

	finalModel, runErr := program.Run()
	if runErr != nil {
		return false, runErr
	}

	result, ok := finalModel.(mainLoopModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	if result.logout {
		if logoutErr := t.session.Logout(ctx); logoutErr != nil {
			t.logger.Error().Err(logoutErr).Msg("logout failed")
		}
	}
	return result.logout, nil
}
