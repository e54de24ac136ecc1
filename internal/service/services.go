// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service holds the server's business logic between the HTTP
// handlers and the persistence layer: credential issuing and verification,
// inventory validation, and change broadcasting.
package service

import (
	"context"

	"github.com/MKhiriev/vm-console/models"
)

//go:generate mockgen -source=services.go -destination=../mock/services_mock.go -package=mock

// Auth issues and verifies console credentials.
type Auth interface {
	// Login exchanges email and password for a signed credential.
	Login(ctx context.Context, email, password string) (*models.Token, error)

	// ParseToken verifies a compact JWS credential and returns the identity
	// it encodes.
	ParseToken(tokenString string) (models.Identity, error)

	// EnsureDefaultUsers seeds the initial accounts when the user table is
	// empty, so a fresh deployment is usable without manual setup.
	EnsureDefaultUsers(ctx context.Context) error
}

// VM implements the inventory operations exposed over HTTP.
type VM interface {
	List(ctx context.Context, page int, search string) (models.VMList, error)
	Get(ctx context.Context, id string) (models.VM, error)
	Create(ctx context.Context, fields models.VMFields) (models.VM, error)
	Update(ctx context.Context, id string, patch models.VMPatch) (models.VM, error)
	Delete(ctx context.Context, id string) (models.VM, error)
}

// EventPublisher receives inventory change events for fan-out to connected
// clients. Publishing must never block the mutation path.
type EventPublisher interface {
	Publish(event models.VMEvent)
}

// Services bundles the concrete services for dependency wiring. The auth
// service is built first because the push hub verifies handshake credentials
// through it before the VM service can broadcast anything.
type Services struct {
	Auth Auth
	VM   VM
}
