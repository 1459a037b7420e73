package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bdgram/api/internal/application/profile"
	"github.com/bdgram/api/internal/domain"
	"github.com/bdgram/api/internal/pkg/validate"
)

const maxUploadBytes = 10 << 20

// ProfileHandler handles profile edits and image uploads.
type ProfileHandler struct {
	svc profile.Service
}

func NewProfileHandler(svc profile.Service) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Update accepts either a plain JSON body or a multipart form whose "data"
// part carries the JSON and whose "image" part carries the new picture.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileRequest
	var upload *profile.Upload

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("data")), &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid data field")
			return
		}
		file, header, err := r.FormFile("image")
		if err == nil {
			defer file.Close()
			upload = &profile.Upload{Filename: header.Filename, Body: file}
		} else if err != http.ErrMissingFile {
			writeError(w, http.StatusBadRequest, "invalid image field")
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if req.UserID == "" {
		req.UserID = req.ID
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, user, err := h.svc.Update(r.Context(), req, upload)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		Token:   token,
		User:    toSafeUser(user),
		Message: "Profile updated successfully",
	})
}
