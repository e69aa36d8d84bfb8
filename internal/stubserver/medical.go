package stubserver

import (
	"encoding/json"
	"net/http"
)

// Enum values served by the platform. Immutable, safe to fetch without
// authentication (the registration form needs specializations pre-login).
var (
	genotypes   = []string{"AA", "AS", "SS", "AC", "SC"}
	bloodGroups = []string{
		"A_POSITIVE", "A_NEGATIVE", "B_POSITIVE", "B_NEGATIVE",
		"AB_POSITIVE", "AB_NEGATIVE", "O_POSITIVE", "O_NEGATIVE",
	}
	specializations = []string{
		"GENERAL_PRACTICE", "CARDIOLOGY", "DERMATOLOGY", "PEDIATRICS",
		"PSYCHIATRY", "ORTHOPEDICS", "GYNECOLOGY", "OPHTHALMOLOGY",
	}
)

func (s *Server) handleGenotypes(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusOK, "", genotypes)
}

func (s *Server) handleBloodGroups(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusOK, "", bloodGroups)
}

func (s *Server) handleSpecializations(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusOK, "", specializations)
}

func (s *Server) handleMyPatientProfile(w http.ResponseWriter, r *http.Request) {
	u := authedUser(r)
	if !hasRole(u, "PATIENT") {
		writeEnvelope(w, http.StatusForbidden, "not a patient account", nil)
		return
	}
	s.mu.Lock()
	p := s.patients[u.ID]
	s.mu.Unlock()
	writeEnvelope(w, http.StatusOK, "", p)
}

func (s *Server) handleUpdatePatientProfile(w http.ResponseWriter, r *http.Request) {
	u := authedUser(r)
	if !hasRole(u, "PATIENT") {
		writeEnvelope(w, http.StatusForbidden, "not a patient account", nil)
		return
	}
	var upd patientProfile
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "invalid profile payload", nil)
		return
	}
	upd.UserID = u.ID
	s.mu.Lock()
	s.patients[u.ID] = &upd
	s.mu.Unlock()
	writeEnvelope(w, http.StatusOK, "profile updated", upd)
}

func (s *Server) handleGetPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeEnvelope(w, http.StatusBadRequest, "invalid patient id", nil)
		return
	}
	s.mu.Lock()
	p := s.patients[id]
	s.mu.Unlock()
	if p == nil {
		writeEnvelope(w, http.StatusNotFound, "patient not found", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, "", p)
}

func (s *Server) handleMyDoctorProfile(w http.ResponseWriter, r *http.Request) {
	u := authedUser(r)
	if !hasRole(u, "DOCTOR") {
		writeEnvelope(w, http.StatusForbidden, "not a doctor account", nil)
		return
	}
	s.mu.Lock()
	d := s.doctors[u.ID]
	s.mu.Unlock()
	writeEnvelope(w, http.StatusOK, "", d)
}

func (s *Server) handleUpdateDoctorProfile(w http.ResponseWriter, r *http.Request) {
	u := authedUser(r)
	if !hasRole(u, "DOCTOR") {
		writeEnvelope(w, http.StatusForbidden, "not a doctor account", nil)
		return
	}
	var upd doctorProfile
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeEnvelope(w, http.StatusBadRequest, "invalid profile payload", nil)
		return
	}
	s.mu.Lock()
	if existing := s.doctors[u.ID]; existing != nil {
		// License numbers are issued at registration and not editable.
		upd.LicenseNumber = existing.LicenseNumber
	}
	upd.UserID = u.ID
	s.doctors[u.ID] = &upd
	s.mu.Unlock()
	writeEnvelope(w, http.StatusOK, "profile updated", upd)
}

func (s *Server) handleListDoctors(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]*doctorProfile, 0, len(s.doctors))
	for _, d := range s.doctors {
		out = append(out, d)
	}
	s.mu.Unlock()
	writeEnvelope(w, http.StatusOK, "", out)
}

func (s *Server) handleGetDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeEnvelope(w, http.StatusBadRequest, "invalid doctor id", nil)
		return
	}
	s.mu.Lock()
	d := s.doctors[id]
	s.mu.Unlock()
	if d == nil {
		writeEnvelope(w, http.StatusNotFound, "doctor not found", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, "", d)
}
