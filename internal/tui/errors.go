// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"

	"github.com/MKhiriev/vm-console/internal/adapter"
	"github.com/MKhiriev/vm-console/internal/cache"
)

// humanizeError turns a classified transport or cache error into a message
// fit for the status line. Validation and server messages keep their body
// because the server phrases them for end users.
func humanizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, adapter.ErrNetwork):
		return "Server unreachable, showing last known data"
	case errors.Is(err, adapter.ErrUnauthorized):
		return "Session expired, please sign in again"
	case errors.Is(err, adapter.ErrForbidden), errors.Is(err, cache.ErrForbidden):
		return "This action requires administrator rights"
	case errors.Is(err, adapter.ErrNotFound):
		return "Record no longer exists"
	default:
		return err.Error()
	}
}
