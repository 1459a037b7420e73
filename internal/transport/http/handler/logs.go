package handler

import (
	"net/http"

	"github.com/bdgram/api/internal/application/profile"
	"github.com/bdgram/api/internal/domain"
)

// LogEnvelope wraps the public user lookup rows.
type LogEnvelope struct {
	Rows  []domain.UserInfo `json:"rows"`
	Error string            `json:"error,omitempty"`
}

// LogHandler serves the public user_id lookup used by the dialer screen.
type LogHandler struct {
	svc profile.Service
}

func NewLogHandler(svc profile.Service) *LogHandler {
	return &LogHandler{svc: svc}
}

func (h *LogHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	rows, err := h.svc.Info(r.Context(), userID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LogEnvelope{Rows: rows})
}
