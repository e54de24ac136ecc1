// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer the console uses to talk to
// the inventory server.
//
// The primary abstraction is [InventoryClient], which decouples the cache
// controller and the session store from the underlying protocol. The package
// ships an HTTP/REST implementation ([NewHTTPInventoryClient]) built on
// resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrUnauthorized] for 401, [ErrValidation] for 400).
// The adapter only classifies errors; it never retries and never touches any
// cache, that is the controller's job.
package adapter

import (
	"context"

	"github.com/MKhiriev/vm-console/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/inventory_client_mock.go -package=mock

// InventoryClient defines transport-agnostic communication with the
// inventory server. Implementations are responsible for serialisation,
// authentication header management, and mapping transport-level errors to
// the sentinel values defined in this package.
type InventoryClient interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. An empty string detaches the
	// credential (logged-out state).
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Login exchanges the email/password pair for a bearer credential via
	// POST /auth/login. The token is returned but NOT stored; the session
	// store decides whether to keep it.
	Login(ctx context.Context, email, password string) (string, error)

	// Me returns the identity behind the currently attached credential via
	// GET /auth/me. Used as a lightweight credential probe.
	Me(ctx context.Context) (models.Identity, error)

	// ListVMs fetches one page of inventory records matching the search
	// term. Pages are 1-based; an empty search returns everything.
	ListVMs(ctx context.Context, page int, search string) (models.VMList, error)

	// CreateVM creates a new record and returns the server-side result.
	CreateVM(ctx context.Context, fields models.VMFields) (models.VM, error)

	// UpdateVM applies a partial update; nil patch fields are left
	// unchanged server-side.
	UpdateVM(ctx context.Context, id string, patch models.VMPatch) (models.VM, error)

	// DeleteVM removes a record and returns its final state.
	DeleteVM(ctx context.Context, id string) (models.VM, error)
}
