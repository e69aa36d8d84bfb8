package stubserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL bounds the tokens the stub issues. The client never inspects
// expiry; it just sees a 401 once the backend stops accepting the token.
const tokenTTL = time.Hour

type ctxKey int

const userKey ctxKey = 0

// authedUser returns the user the bearer token resolved to.
func authedUser(r *http.Request) *user {
	u, _ := r.Context().Value(userKey).(*user)
	return u
}

func hasRole(u *user, role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// bearerAuth enforces `Authorization: Bearer <token>` on the protected
// route group and resolves the token to a user.
func (s *Server) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeHTTPError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeHTTPError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		claims := jwt.MapClaims{}
		tok, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !tok.Valid {
			writeHTTPError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		sub, err := claims.GetSubject()
		if err != nil {
			writeHTTPError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		s.mu.Lock()
		id, ok := s.byEmail[sub]
		u := s.users[id]
		s.mu.Unlock()
		if !ok || u == nil {
			writeHTTPError(w, http.StatusUnauthorized, "unknown account")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

func (s *Server) issueToken(u *user) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   u.Email,
		"roles": u.Roles,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

type registerRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	LicenseNumber  string   `json:"licenseNumber"`
	Specialization string   `json:"specialization"`
	Roles          []string `json:"roles"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" {
		writeEnvelope(w, http.StatusBadRequest, "name, email and password are required", nil)
		return
	}

	isDoctor := false
	for _, role := range req.Roles {
		if role == "DOCTOR" {
			isDoctor = true
		}
	}
	if isDoctor && (req.LicenseNumber == "" || req.Specialization == "") {
		writeEnvelope(w, http.StatusBadRequest, "license number and specialization are required", nil)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeEnvelope(w, http.StatusInternalServerError, "could not process password", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[req.Email]; exists {
		writeEnvelope(w, http.StatusBadRequest, "email is already registered", nil)
		return
	}

	roles := []string{"PATIENT"}
	if isDoctor {
		roles = []string{"DOCTOR"}
	}
	u := &user{
		ID:           s.allocID(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    time.Now(),
	}
	s.users[u.ID] = u
	s.byEmail[u.Email] = u.ID

	first, last := splitName(req.Name)
	if isDoctor {
		s.doctors[u.ID] = &doctorProfile{
			UserID:         u.ID,
			FirstName:      first,
			LastName:       last,
			Specialization: req.Specialization,
			LicenseNumber:  req.LicenseNumber,
		}
	} else {
		s.patients[u.ID] = &patientProfile{UserID: u.ID, FirstName: first, LastName: last}
	}

	writeEnvelope(w, http.StatusCreated, "account created", viewOf(u))
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "email and password are required", nil)
		return
	}

	s.mu.Lock()
	id, ok := s.byEmail[req.Email]
	u := s.users[id]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		writeEnvelope(w, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}

	token, err := s.issueToken(u)
	if err != nil {
		writeEnvelope(w, http.StatusInternalServerError, "could not issue token", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, "login successful", map[string]any{
		"token": token,
		"roles": u.Roles,
	})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeEnvelope(w, http.StatusBadRequest, "email is required", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[req.Email]
	if !ok {
		// Same response for unknown accounts; no account probing.
		writeEnvelope(w, http.StatusOK, "if the account exists, a reset code was sent", nil)
		return
	}
	code := uuid.NewString()
	s.resetCodes[code] = id
	// The real platform emails the code. The stub hands it back so the
	// reset flow can be exercised end to end.
	writeEnvelope(w, http.StatusOK, "if the account exists, a reset code was sent", map[string]string{"code": code})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" || req.NewPassword == "" {
		writeEnvelope(w, http.StatusBadRequest, "code and new password are required", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.resetCodes[req.Code]
	u := s.users[id]
	if !ok || u == nil {
		writeEnvelope(w, http.StatusBadRequest, "invalid or expired reset code", nil)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		writeEnvelope(w, http.StatusInternalServerError, "could not process password", nil)
		return
	}
	u.PasswordHash = hash
	delete(s.resetCodes, req.Code)
	writeEnvelope(w, http.StatusOK, "password reset", nil)
}
