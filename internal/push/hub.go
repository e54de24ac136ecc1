// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package push fans inventory change events out to connected consoles over
// websocket. Events are invalidation hints: a lost or dropped message is
// recovered by the client's next refetch, so delivery is best effort.
package push

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/models"
	"github.com/gorilla/websocket"
)

const broadcastBufferSize = 64

// TokenVerifier checks the credential presented in the websocket handshake.
type TokenVerifier interface {
	ParseToken(tokenString string) (models.Identity, error)
}

// Hub tracks connected websocket clients and broadcasts inventory events to
// all of them. Register, unregister and broadcast are serialized through
// Run's select loop, so the client set needs no locking.
type Hub struct {
	verifier TokenVerifier
	logger   *logger.Logger

	upgrader websocket.Upgrader

	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan models.VMEvent
}

func NewHub(verifier TokenVerifier, logger *logger.Logger) *Hub {
	logger.Debug().Msg("push Hub created")
	return &Hub{
		verifier: verifier,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan models.VMEvent, broadcastBufferSize),
	}
}

// Run owns the client set until ctx is cancelled. On shutdown every client
// connection is closed.
func (h *Hub) Run(ctx context.Context) {
	log := h.logger.With().Str("func", "Hub.Run").Logger()

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				c.close()
			}
			log.Info().Msg("push hub stopped")
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			log.Debug().Int("clients", len(h.clients)).Msg("client connected")

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.close()
			}
			log.Debug().Int("clients", len(h.clients)).Msg("client disconnected")

		case event := <-h.broadcast:
			payload, err := json.Marshal(event)
			if err != nil {
				log.Err(err).Msg("failed to marshal event")
				continue
			}
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					// slow consumer, drop it rather than stall the hub
					delete(h.clients, c)
					c.close()
				}
			}
		}
	}
}

// Publish queues an event for broadcast. It never blocks: when the queue is
// full the event is dropped and clients recover via their next refetch.
func (h *Hub) Publish(event models.VMEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().
			Str("func", "Hub.Publish").
			Str("event", string(event.Kind)).
			Msg("broadcast queue full, event dropped")
	}
}

// ServeWS authenticates the handshake via the token query parameter and
// upgrades the connection. Any valid credential may subscribe; events carry
// no data beyond what GET /vms already exposes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		http.Error(w, `{"message":"missing token"}`, http.StatusUnauthorized)
		return
	}

	identity, err := h.verifier.ParseToken(tokenString)
	if err != nil {
		http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Err(err).Str("func", "Hub.ServeWS").Msg("websocket upgrade failed")
		return
	}

	c := newClient(h, conn)
	h.register <- c

	log.Debug().Str("func", "Hub.ServeWS").Str("email", identity.Email).Msg("websocket subscriber attached")

	go c.writePump()
	go c.readPump()
}
