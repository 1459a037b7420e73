package handler

import (
	"net/http"

	"github.com/bdgram/api/internal/application/profile"
)

// ImageEnvelope wraps a profile picture lookup.
type ImageEnvelope struct {
	Image string `json:"image,omitempty"`
	Error string `json:"error,omitempty"`
}

// ImageHandler serves profile picture URL lookups.
type ImageHandler struct {
	svc profile.Service
}

func NewImageHandler(svc profile.Service) *ImageHandler {
	return &ImageHandler{svc: svc}
}

func (h *ImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	url, err := h.svc.Image(r.Context(), userID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ImageEnvelope{Image: url})
}
