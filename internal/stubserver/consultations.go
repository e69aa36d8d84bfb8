package stubserver

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"
)

type consultationRequest struct {
	AppointmentID     int64  `json:"appointmentId"`
	SubjectiveNotes   string `json:"subjectiveNotes"`
	ObjectiveFindings string `json:"objectiveFindings"`
	Assessment        string `json:"assessment"`
	Plan              string `json:"plan"`
}

func (s *Server) handleCreateConsultation(w http.ResponseWriter, r *http.Request) {
	u := authedUser(r)
	if !hasRole(u, "DOCTOR") {
		writeEnvelope(w, http.StatusForbidden, "only doctors can file consultations", nil)
		return
	}

	var req consultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AppointmentID == 0 {
		writeEnvelope(w, http.StatusBadRequest, "appointmentId is required", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.appointments[req.AppointmentID]
	if a == nil {
		writeEnvelope(w, http.StatusNotFound, "appointment not found", nil)
		return
	}
	if a.DoctorID != u.ID {
		writeEnvelope(w, http.StatusForbidden, "not your appointment", nil)
		return
	}
	for _, c := range s.consultations {
		if c.AppointmentID == req.AppointmentID {
			writeEnvelope(w, http.StatusBadRequest, "appointment already has a consultation", nil)
			return
		}
	}

	c := &consultation{
		ID:                s.allocID(),
		AppointmentID:     a.ID,
		PatientID:         a.PatientID,
		DoctorID:          a.DoctorID,
		SubjectiveNotes:   req.SubjectiveNotes,
		ObjectiveFindings: req.ObjectiveFindings,
		Assessment:        req.Assessment,
		Plan:              req.Plan,
		CreatedAt:         time.Now(),
	}
	s.consultations[c.ID] = c
	writeEnvelope(w, http.StatusCreated, "consultation created", c)
}

func (s *Server) handleConsultationByAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeEnvelope(w, http.StatusBadRequest, "invalid appointment id", nil)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.consultations {
		if c.AppointmentID == id {
			writeEnvelope(w, http.StatusOK, "", c)
			return
		}
	}
	writeEnvelope(w, http.StatusNotFound, "no consultation for this appointment", nil)
}

// handleConsultationHistory serves a patient's record. Patients always get
// their own history; doctors pass ?patientId= to review a patient.
func (s *Server) handleConsultationHistory(w http.ResponseWriter, r *http.Request) {
	u := authedUser(r)

	patientID := u.ID
	if raw := r.URL.Query().Get("patientId"); raw != "" {
		if !hasRole(u, "DOCTOR") {
			writeEnvelope(w, http.StatusForbidden, "only doctors can view other patients' history", nil)
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeEnvelope(w, http.StatusBadRequest, "invalid patientId", nil)
			return
		}
		patientID = id
	}

	s.mu.Lock()
	out := make([]*consultation, 0)
	for _, c := range s.consultations {
		if c.PatientID == patientID {
			out = append(out, c)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	writeEnvelope(w, http.StatusOK, "", out)
}
