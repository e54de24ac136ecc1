// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http exposes the inventory REST API and the websocket push
// endpoint consumed by the terminal client.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/internal/service"
)

type Handler struct {
	services *service.Services
	ws       http.HandlerFunc
	logger   *logger.Logger
}

// NewHandler wires the services and the websocket upgrade handler into the
// HTTP layer. ws handles GET /ws; it does its own token check because the
// browser websocket API cannot set an Authorization header.
func NewHandler(services *service.Services, ws http.HandlerFunc, logger *logger.Logger) *Handler {
	logger.Debug().Msg("HTTP handler created")
	return &Handler{
		services: services,
		ws:       ws,
		logger:   logger,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
