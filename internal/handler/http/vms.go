package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MKhiriev/vm-console/internal/logger"
	"github.com/MKhiriev/vm-console/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) listVMs(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "page must be an integer")
			return
		}
		page = parsed
	}
	search := r.URL.Query().Get("search")

	list, err := h.services.VM.List(r.Context(), page, search)
	if err != nil {
		log.Err(err).Str("func", "listVMs").Msg("list failed")
		respondError(w, err)
		return
	}

	if list.Items == nil {
		list.Items = []models.VM{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handler) createVM(w http.ResponseWriter, r *http.Request) {
	var fields models.VMFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	created, err := h.services.VM.Create(r.Context(), fields)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateVM(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch models.VMPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	updated, err := h.services.VM.Update(r.Context(), id, patch)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteVM(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.services.VM.Delete(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, deleted)
}
