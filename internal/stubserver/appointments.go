package stubserver

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
)

type bookRequest struct {
	DoctorID              int64  `json:"doctorId"`
	PurposeOfConsultation string `json:"purposeOfConsultation"`
	InitialSymptoms       string `json:"initialSymptoms"`
	StartTime             string `json:"startTime"`
}

func (s *Server) handleBookAppointment(w http.ResponseWriter, r *http.Request) {
	u := authedUser(r)
	if !hasRole(u, "PATIENT") {
		writeEnvelope(w, http.StatusForbidden, "only patients can book appointments", nil)
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DoctorID == 0 || req.StartTime == "" {
		writeEnvelope(w, http.StatusBadRequest, "doctorId and startTime are required", nil)
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, "startTime must be an ISO-8601 instant", nil)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doctors[req.DoctorID] == nil {
		writeEnvelope(w, http.StatusNotFound, "doctor not found", nil)
		return
	}
	a := &appointment{
		ID:                    s.allocID(),
		PatientID:             u.ID,
		DoctorID:              req.DoctorID,
		PurposeOfConsultation: req.PurposeOfConsultation,
		InitialSymptoms:       req.InitialSymptoms,
		StartTime:             start.UTC(),
		Status:                statusScheduled,
		// The meeting link is an opaque external URL as far as clients
		// are concerned.
		MeetingLink: "https://meet.example.com/" + uuid.NewString(),
	}
	s.appointments[a.ID] = a
	writeEnvelope(w, http.StatusOK, "appointment booked", a)
}

// handleListAppointments scopes the result by role: patients see their own
// bookings, doctors their schedule.
func (s *Server) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	u := authedUser(r)
	doctor := hasRole(u, "DOCTOR")

	s.mu.Lock()
	out := make([]*appointment, 0)
	for _, a := range s.appointments {
		if (doctor && a.DoctorID == u.ID) || (!doctor && a.PatientID == u.ID) {
			out = append(out, a)
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	writeEnvelope(w, http.StatusOK, "", out)
}

func (s *Server) handleCancelAppointment(w http.ResponseWriter, r *http.Request) {
	s.transitionAppointment(w, r, statusCancelled)
}

func (s *Server) handleCompleteAppointment(w http.ResponseWriter, r *http.Request) {
	s.transitionAppointment(w, r, statusCompleted)
}

// transitionAppointment moves a SCHEDULED appointment to a terminal state.
// Either party may cancel; only the doctor completes.
func (s *Server) transitionAppointment(w http.ResponseWriter, r *http.Request, to string) {
	id, ok := urlID(r)
	if !ok {
		writeEnvelope(w, http.StatusBadRequest, "invalid appointment id", nil)
		return
	}
	u := authedUser(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.appointments[id]
	if a == nil {
		writeEnvelope(w, http.StatusNotFound, "appointment not found", nil)
		return
	}
	if a.PatientID != u.ID && a.DoctorID != u.ID {
		writeEnvelope(w, http.StatusForbidden, "not your appointment", nil)
		return
	}
	if to == statusCompleted && a.DoctorID != u.ID {
		writeEnvelope(w, http.StatusForbidden, "only the doctor can complete an appointment", nil)
		return
	}
	if a.Status != statusScheduled {
		writeEnvelope(w, http.StatusBadRequest, "appointment is already "+a.Status, nil)
		return
	}
	a.Status = to
	writeEnvelope(w, http.StatusOK, "appointment "+to, a)
}
