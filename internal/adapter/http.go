// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/MKhiriev/vm-console/internal/config"
	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/models"
	"github.com/go-resty/resty/v2"
)

type httpInventoryClient struct {
	client *resty.Client

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPInventoryClient constructs an HTTP/REST implementation of
// [InventoryClient]. It normalises and validates the base URL from
// adapterCfg.ServerURL and configures the underlying resty client with the
// resolved base URL and request timeout.
//
// Returns an error if adapterCfg.ServerURL is empty or cannot be parsed as a
// valid URL.
func NewHTTPInventoryClient(adapterCfg config.ClientAdapter, logger *logger.Logger) (InventoryClient, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter server url: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpInventoryClient{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [InventoryClient]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent authenticated
// requests.
func (h *httpInventoryClient) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [InventoryClient]. It returns the bearer token currently
// held by the adapter, or an empty string if none has been set.
func (h *httpInventoryClient) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Login implements [InventoryClient]. It POSTs the credentials to
// POST /auth/login and returns the issued bearer token without storing it.
func (h *httpInventoryClient) Login(ctx context.Context, email, password string) (string, error) {
	var result models.LoginResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.LoginRequest{Email: email, Password: password}).
		SetResult(&result).
		Post("/auth/login")
	if err != nil {
		return "", fmt.Errorf("%w: login request: %v", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	if result.AccessToken == "" {
		return "", fmt.Errorf("%w: login response carries no access token", ErrServer)
	}

	return result.AccessToken, nil
}

// Me implements [InventoryClient]. It GETs /auth/me and returns the identity
// behind the attached credential.
func (h *httpInventoryClient) Me(ctx context.Context) (models.Identity, error) {
	var identity models.Identity

	resp, err := h.authedRequest(ctx).
		SetResult(&identity).
		Get("/auth/me")
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: me request: %v", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Identity{}, err
	}

	return identity, nil
}

// ListVMs implements [InventoryClient]. Pages are 1-based; the search term
// is omitted from the query string when empty, matching the server contract.
func (h *httpInventoryClient) ListVMs(ctx context.Context, page int, search string) (models.VMList, error) {
	var list models.VMList

	req := h.authedRequest(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetResult(&list)
	if search != "" {
		req.SetQueryParam("search", search)
	}

	resp, err := req.Get("/vms")
	if err != nil {
		return models.VMList{}, fmt.Errorf("%w: list vms request: %v", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.VMList{}, err
	}

	return list, nil
}

// CreateVM implements [InventoryClient].
func (h *httpInventoryClient) CreateVM(ctx context.Context, fields models.VMFields) (models.VM, error) {
	var vm models.VM

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(fields).
		SetResult(&vm).
		Post("/vms")
	if err != nil {
		return models.VM{}, fmt.Errorf("%w: create vm request: %v", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.VM{}, err
	}

	return vm, nil
}

// UpdateVM implements [InventoryClient]. Unset patch fields are left
// unchanged server-side.
func (h *httpInventoryClient) UpdateVM(ctx context.Context, id string, patch models.VMPatch) (models.VM, error) {
	var vm models.VM

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(patch).
		SetResult(&vm).
		Put("/vms/" + url.PathEscape(id))
	if err != nil {
		return models.VM{}, fmt.Errorf("%w: update vm request: %v", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.VM{}, err
	}

	return vm, nil
}

// DeleteVM implements [InventoryClient]. The server answers with the deleted
// record.
func (h *httpInventoryClient) DeleteVM(ctx context.Context, id string) (models.VM, error) {
	var vm models.VM

	resp, err := h.authedRequest(ctx).
		SetResult(&vm).
		Delete("/vms/" + url.PathEscape(id))
	if err != nil {
		return models.VM{}, fmt.Errorf("%w: delete vm request: %v", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.VM{}, err
	}

	return vm, nil
}

func (h *httpInventoryClient) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
