package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bdgram/api/internal/application/contact"
	"github.com/bdgram/api/internal/domain"
	"github.com/bdgram/api/internal/pkg/validate"
	"github.com/bdgram/api/internal/transport/http/middleware"
)

// ContactsEnvelope wraps a contact list response.
type ContactsEnvelope struct {
	Contacts []domain.ContactEntry `json:"contacts"`
	Error    string                `json:"error,omitempty"`
}

// ContactHandler handles the contact list endpoints.
type ContactHandler struct {
	svc contact.Service
}

func NewContactHandler(svc contact.Service) *ContactHandler {
	return &ContactHandler{svc: svc}
}

func (h *ContactHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req domain.AddContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CallerID == "" {
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			req.CallerID = claims.UserID
		}
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.Add(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "Contact added successfully"})
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID := r.URL.Query().Get("caller_id")
	if callerID == "" {
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			callerID = claims.UserID
		}
	}
	if callerID == "" {
		writeError(w, http.StatusBadRequest, "caller_id is required")
		return
	}
	entries, err := h.svc.List(r.Context(), callerID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ContactsEnvelope{Contacts: entries})
}

// Delete accepts the contact id either as a path segment or as the ?id=
// query parameter.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		idStr = r.URL.Query().Get("id")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contact id")
		return
	}
	if err := h.svc.Remove(r.Context(), id); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Contact deleted successfully"})
}
