package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/vm-console/internal/service"
	"github.com/MKhiriev/vm-console/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrWrongCredentials: http.StatusUnauthorized,
	service.ErrInvalidToken:     http.StatusUnauthorized,
	service.ErrValidation:       http.StatusUnprocessableEntity,
	store.ErrVMNotFound:         http.StatusNotFound,
	store.ErrUserNotFound:       http.StatusNotFound,
	store.ErrEmptyPatch:         http.StatusUnprocessableEntity,
}

// statusFromError maps known service and store errors to HTTP status codes.
// Unrecognised errors become 500 without leaking their text to the client.
func statusFromError(err error) int {
	for sentinel, status := range errorStatusMap {
		if errors.Is(err, sentinel) {
			return status
		}
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Message: message})
}

// respondError translates err into the {"message": ...} error body expected
// by the client adapter.
func respondError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	writeError(w, status, message)
}
