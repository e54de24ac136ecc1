// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/vm-console/internal/config"
	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/internal/store"
	"github.com/MKhiriev/vm-console/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Seed accounts created on an empty database. The passwords are meant for
// first login only and are printed to the server log on creation.
const (
	defaultAdminEmail     = "admin@local"
	defaultAdminPassword  = "admin"
	defaultViewerEmail    = "viewer@local"
	defaultViewerPassword = "viewer"
)

type AuthService struct {
	users store.UserRepository

	signKey  []byte
	issuer   string
	tokenTTL time.Duration

	logger *logger.Logger
}

func NewAuthService(users store.UserRepository, cfg config.Auth, logger *logger.Logger) *AuthService {
	logger.Debug().Msg("AuthService created")
	return &AuthService{
		users:    users,
		signKey:  []byte(cfg.TokenSignKey),
		issuer:   cfg.TokenIssuer,
		tokenTTL: cfg.TokenDuration,
		logger:   logger,
	}
}

// Login verifies the password against the stored bcrypt hash and issues a
// signed credential carrying the user's identity claims.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Token, error) {
	log := logger.FromContext(ctx)

	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrWrongCredentials
		}
		log.Err(err).Str("func", "AuthService.Login").Msg("failed to look up user")
		return nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrWrongCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		log.Err(err).Str("func", "AuthService.Login").Str("email", email).Msg("failed to sign token")
		return nil, err
	}

	log.Info().Str("func", "AuthService.Login").Str("email", email).Str("role", string(user.Role)).Msg("user logged in")
	return token, nil
}

func (s *AuthService) generateToken(user models.User) (*models.Token, error) {
	now := time.Now()
	claims := &models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signKey)
	if err != nil {
		return nil, fmt.Errorf("error signing token: %w", err)
	}

	return &models.Token{
		Token:        token,
		Claims:       claims,
		SignedString: signed,
	}, nil
}

// ParseToken verifies the signature, expiry, and issuer of a compact JWS
// credential and returns the identity encoded in its claims.
func (s *AuthService) ParseToken(tokenString string) (models.Identity, error) {
	claims := &models.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return models.Identity{}, ErrInvalidToken
	}

	return claims.Identity(), nil
}

// EnsureDefaultUsers seeds an administrator and a read-only viewer account
// when the user table is empty.
func (s *AuthService) EnsureDefaultUsers(ctx context.Context) error {
	count, err := s.users.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("error counting users: %w", err)
	}
	if count > 0 {
		return nil
	}

	seeds := []struct {
		email    string
		name     string
		role     models.Role
		password string
	}{
		{email: defaultAdminEmail, name: "Administrator", role: models.RoleAdministrator, password: defaultAdminPassword},
		{email: defaultViewerEmail, name: "Viewer", role: models.RoleClient, password: defaultViewerPassword},
	}

	for _, seed := range seeds {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if hashErr != nil {
			return fmt.Errorf("error hashing seed password: %w", hashErr)
		}

		user := models.User{
			UserID:       uuid.NewString(),
			Email:        seed.email,
			Name:         seed.name,
			Role:         seed.role,
			PasswordHash: string(hash),
			CreatedAt:    time.Now().UTC(),
		}

		if _, err = s.users.CreateUser(ctx, user); err != nil {
			// Another replica may have seeded concurrently.
			if errors.Is(err, store.ErrEmailAlreadyExists) {
				continue
			}
			return fmt.Errorf("error creating seed user %s: %w", seed.email, err)
		}

		s.logger.Warn().
			Str("func", "AuthService.EnsureDefaultUsers").
			Str("email", seed.email).
			Str("password", seed.password).
			Str("role", string(seed.role)).
			Msg("seeded default account, change the password after first login")
	}

	return nil
}
