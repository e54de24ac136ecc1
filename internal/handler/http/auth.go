package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/models"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := h.services.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Debug().Str("func", "login").Str("email", req.Email).Err(err).Msg("login rejected")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.LoginResponse{AccessToken: token.SignedString})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	respondJSON(w, http.StatusOK, identity)
}
