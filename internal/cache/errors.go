package cache

import "errors"

// ErrForbidden is returned when a non-administrator identity asks for the
// mutating handle. The check happens client-side, before any request is
// issued; the server enforces the same rule independently.
var ErrForbidden = errors.New("operation requires administrator role")
