// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the JWT claim set carried by a console credential.
//
// It embeds [jwt.RegisteredClaims] for the standard claim set (sub, exp,
// iat, iss) and adds the identity attributes the client needs to derive an
// [Identity] without a round trip to the server. The "sub" claim holds the
// user ID.
type TokenClaims struct {
	jwt.RegisteredClaims

	// Email is the login identifier of the token owner.
	Email string `json:"email"`

	// Name is the optional display name of the token owner.
	Name string `json:"name,omitempty"`

	// Role gates mutating operations in the console.
	Role Role `json:"role"`
}

// Identity derives the client-side identity from the claim set.
// The subject claim is the user ID.
func (c *TokenClaims) Identity() Identity {
	return Identity{
		ID:    c.Subject,
		Email: c.Email,
		Name:  c.Name,
		Role:  c.Role,
	}
}

// Token wraps a signed JWT with its parsed claims for server-side auth flows.
type Token struct {
	// Token is the underlying JWT used for signing and claim inspection.
	*jwt.Token `json:"-"`

	// Claims is the decoded claim set of the token.
	Claims *TokenClaims `json:"-"`

	// SignedString is the compact JWS representation of the token,
	// ready to be transmitted in HTTP headers or stored on the client side.
	SignedString string `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *Token) String() string {
	return t.SignedString
}
