package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/devlinb/EscapeRoom/internal/escaperoom"
	"github.com/devlinb/EscapeRoom/internal/store"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	svc   *escaperoom.Service
	store store.DocumentStore
}

// NewHandler creates a new Handler.
func NewHandler(svc *escaperoom.Service, ds store.DocumentStore) *Handler {
	return &Handler{svc: svc, store: ds}
}

// Response is the envelope of every escape room response.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, Response{Success: false, Message: message})
}

// Fail maps an escape room error to a status code and sends it.
func (h *Handler) Fail(w http.ResponseWriter, err error) {
	h.Error(w, statusFor(err), escaperoom.MessageOf(err))
}

func statusFor(err error) int {
	switch escaperoom.KindOf(err) {
	case escaperoom.KindValidation:
		return http.StatusBadRequest
	case escaperoom.KindAuthentication:
		return http.StatusUnauthorized
	case escaperoom.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
