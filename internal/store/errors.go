package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUserNotFound is returned when a query expected to match a user
	// record produces an empty result set.
	ErrUserNotFound = errors.New("no user was found")

	// ErrEmailAlreadyExists is returned when inserting a user fails because
	// the email is already taken.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrVMNotFound is returned when a query or mutation targets a machine
	// record that does not exist in the database.
	ErrVMNotFound = errors.New("vm was not found")

	// ErrEmptyPatch is returned when an update carries no fields to change.
	ErrEmptyPatch = errors.New("no fields to update")
)

// Low-level database operation errors, returned wrapped around the driver
// error when a SQL operation fails before any domain logic applies.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query against the
	// database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a result
	// row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when an iteration error is detected after
	// a result set is exhausted.
	ErrScanningRows = errors.New("failed to scan rows")
)
