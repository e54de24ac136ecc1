// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Role determines which console actions an authenticated user may perform.
// Administrators manage the inventory; Clients get a read-only view.
type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleClient        Role = "Client"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleClient
}

// User represents a console account as stored on the server.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the unique identifier of the account (UUID).
	UserID string `json:"id"`

	// Email is the unique login identifier.
	Email string `json:"email"`

	// Name is the display name of the user. Non-sensitive, may be shown in UI.
	Name string `json:"name,omitempty"`

	// Role gates access to mutating inventory operations.
	Role Role `json:"role"`

	// PasswordHash is the bcrypt hash of the account password.
	// Never serialized; used only at the persistence/auth layer.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Identity is the authenticated user as seen by the client. It is derived
// exclusively from the decoded credential claims and lives only as long as
// the credential does.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the identity may perform mutating operations.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdministrator
}
