// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session owns the console's authenticated identity.
//
// The identity is a pure function of the stored credential: every path that
// produces an [models.Identity] goes through decodeCredential, and no other
// code may set it directly. The credential itself is an opaque bearer JWT
// kept in a single named file slot ([CredentialStorage]); the store only
// decodes its claims, it never verifies the signature; the server remains
// the authority on every request.
//
// Dependent components (the push channel, the view layer) observe identity
// changes via [Store.Watch].
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/vm-console/internal/adapter"
	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/models"
	"github.com/golang-jwt/jwt/v5"
)

// Store holds the current authenticated identity and the credential it was
// derived from.
type Store struct {
	creds     CredentialStorage
	transport adapter.InventoryClient
	logger    *logger.Logger

	mu          sync.RWMutex
	identity    *models.Identity
	watchers    map[int]func(*models.Identity)
	nextWatcher int
}

// NewStore constructs a session store over the given credential slot and
// transport. The transport is informed of every credential change via
// SetToken so that subsequent requests carry the right bearer header.
func NewStore(creds CredentialStorage, transport adapter.InventoryClient, logger *logger.Logger) *Store {
	return &Store{
		creds:     creds,
		transport: transport,
		logger:    logger,
		watchers:  make(map[int]func(*models.Identity)),
	}
}

// Restore reads the stored credential and derives the identity from it.
//
// An absent slot, a credential that cannot be decoded, or one whose expiry
// has passed all resolve immediately to "no identity" (false); the two
// latter cases also delete the stale credential from storage. Restore never
// performs network I/O and never blocks beyond the file read.
func (s *Store) Restore(_ context.Context) (models.Identity, bool) {
	token, err := s.creds.Read()
	if err != nil {
		if !errors.Is(err, ErrNoCredential) {
			s.logger.Err(err).Msg("credential slot unreadable")
		}
		return models.Identity{}, false
	}

	identity, err := decodeCredential(token, time.Now())
	if err != nil {
		s.logger.Debug().Err(err).Msg("stored credential rejected, deleting")
		if delErr := s.creds.Delete(); delErr != nil {
			s.logger.Err(delErr).Msg("failed to delete rejected credential")
		}
		return models.Identity{}, false
	}

	s.transport.SetToken(token)
	s.setIdentity(&identity)
	return identity, true
}

// Login exchanges credentials for a bearer token, persists it, and derives
// the identity the same way Restore does. On failure the previous session is
// left untouched.
func (s *Store) Login(ctx context.Context, email, password string) (models.Identity, error) {
	token, err := s.transport.Login(ctx, email, password)
	if err != nil {
		return models.Identity{}, fmt.Errorf("login: %w", err)
	}

	identity, err := decodeCredential(token, time.Now())
	if err != nil {
		return models.Identity{}, fmt.Errorf("decode issued credential: %w", err)
	}

	if err = s.creds.Write(token); err != nil {
		return models.Identity{}, fmt.Errorf("persist credential: %w", err)
	}

	s.transport.SetToken(token)
	s.setIdentity(&identity)

	s.logger.Info().Str("email", identity.Email).Str("role", string(identity.Role)).Msg("logged in")
	return identity, nil
}

// Logout deletes the credential, clears the identity, and notifies watchers
// so dependents (the push channel) can disconnect.
func (s *Store) Logout(_ context.Context) error {
	if err := s.creds.Delete(); err != nil {
		return err
	}

	s.transport.SetToken("")
	s.setIdentity(nil)

	s.logger.Info().Msg("logged out")
	return nil
}

// Identity returns the current identity, if any.
func (s *Store) Identity() (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

// Token returns the bearer token behind the current session, or an empty
// string when logged out.
func (s *Store) Token() string {
	return s.transport.Token()
}

// Watch registers fn to be called on every identity change (nil on logout).
// The returned function removes the registration; it is safe to call more
// than once.
func (s *Store) Watch(fn func(*models.Identity)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *Store) setIdentity(identity *models.Identity) {
	s.mu.Lock()
	s.identity = identity
	watchers := make([]func(*models.Identity), 0, len(s.watchers))
	for _, fn := range s.watchers {
		watchers = append(watchers, fn)
	}
	s.mu.Unlock()

	// Notify outside the lock: a watcher may call back into the store.
	for _, fn := range watchers {
		fn(identity)
	}
}

// decodeCredential derives an identity from the credential's claims without
// verifying the signature. A missing or passed expiry rejects the
// credential: an expired token in storage must never produce an identity.
func decodeCredential(tokenString string, now time.Time) (models.Identity, error) {
	claims := &models.TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrCredentialInvalid, err)
	}

	if claims.ExpiresAt == nil {
		return models.Identity{}, fmt.Errorf("%w: no expiry claim", ErrCredentialInvalid)
	}
	if !claims.ExpiresAt.After(now) {
		return models.Identity{}, ErrCredentialExpired
	}

	if claims.Subject == "" {
		return models.Identity{}, fmt.Errorf("%w: empty subject", ErrCredentialInvalid)
	}
	if !claims.Role.Valid() {
		return models.Identity{}, fmt.Errorf("%w: unknown role %q", ErrCredentialInvalid, claims.Role)
	}

	return claims.Identity(), nil
}
