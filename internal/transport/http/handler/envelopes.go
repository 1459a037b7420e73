package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bdgram/api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SignUpEnvelope wraps a successful registration with the assigned 6-digit id.
type SignUpEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// AuthEnvelope wraps login and profile-update responses.
type AuthEnvelope struct {
	Token   string    `json:"token,omitempty"`
	User    *SafeUser `json:"user,omitempty"`
	Message string    `json:"message,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// SafeUser is the public projection of a user row.
type SafeUser struct {
	ID     int64   `json:"id"`
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Bio    *string `json:"bio"`
	Image  *string `json:"image"`
}

func toSafeUser(u *domain.User) *SafeUser {
	if u == nil {
		return nil
	}
	return &SafeUser{
		ID:     u.ID,
		UserID: u.UserID,
		Name:   u.Name,
		Email:  u.Email,
		Bio:    u.Bio,
		Image:  u.Image,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

var sentinels = []error{
	domain.ErrBadRequest,
	domain.ErrUnauthorized,
	domain.ErrNotFound,
	domain.ErrConflict,
	domain.ErrUnavailable,
	domain.ErrDelivery,
}

// httpError is the single place service errors become HTTP responses. Domain
// sentinels pick the status code; anything unclassified is a 500 with a
// generic body so infrastructure detail never reaches the client.
func httpError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeError(w, status, trimSentinel(err))
}

// trimSentinel drops the wrapped sentinel suffix so the client sees the
// service's message, not the classification tag.
func trimSentinel(err error) string {
	msg := err.Error()
	for _, s := range sentinels {
		msg = strings.TrimSuffix(msg, ": "+s.Error())
	}
	return msg
}
