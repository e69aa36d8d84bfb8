package stubserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusOK, "", viewOf(authedUser(r)))
}

func (s *Server) handleUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeEnvelope(w, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	s.mu.Lock()
	u := s.users[id]
	s.mu.Unlock()
	if u == nil {
		writeEnvelope(w, http.StatusNotFound, "user not found", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, "", viewOf(u))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	views := make([]userView, 0, len(s.users))
	for _, u := range s.users {
		views = append(views, viewOf(u))
	}
	s.mu.Unlock()
	writeEnvelope(w, http.StatusOK, "", views)
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPassword == "" {
		writeEnvelope(w, http.StatusBadRequest, "old and new password are required", nil)
		return
	}

	u := authedUser(r)
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.OldPassword)) != nil {
		writeEnvelope(w, http.StatusBadRequest, "current password is incorrect", nil)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeEnvelope(w, http.StatusInternalServerError, "could not process password", nil)
		return
	}
	s.mu.Lock()
	u.PasswordHash = hash
	s.mu.Unlock()
	writeEnvelope(w, http.StatusOK, "password updated", nil)
}

// handleUploadPicture accepts the multipart profile-picture upload. The
// limit matches the client's per-profile caps: 10 MB for doctors, 5 MB for
// everyone else.
func (s *Server) handleUploadPicture(w http.ResponseWriter, r *http.Request) {
	u := authedUser(r)
	limit := int64(5 << 20)
	if hasRole(u, "DOCTOR") {
		limit = 10 << 20
	}

	if err := r.ParseMultipartForm(limit); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "invalid multipart body", nil)
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, "file field is required", nil)
		return
	}
	defer file.Close()
	if hdr.Size > limit {
		writeEnvelope(w, http.StatusBadRequest, "file too large", nil)
		return
	}

	url := fmt.Sprintf("/uploads/%d/%s", u.ID, hdr.Filename)
	s.mu.Lock()
	u.PictureURL = url
	s.mu.Unlock()
	writeEnvelope(w, http.StatusOK, "profile picture updated", map[string]string{"profilePictureUrl": url})
}
