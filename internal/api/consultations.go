package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ConsultationNote records the outcome of a completed appointment in
// SOAP form (subjective, objective, assessment, plan).
type ConsultationNote struct {
	AppointmentID     int64  `json:"appointmentId"`
	SubjectiveNotes   string `json:"subjectiveNotes"`
	ObjectiveFindings string `json:"objectiveFindings"`
	Assessment        string `json:"assessment"`
	Plan              string `json:"plan"`
}

// CreateConsultation files a consultation note for an appointment.
func (c *Client) CreateConsultation(ctx context.Context, note ConsultationNote) (*Envelope, error) {
	if note.AppointmentID <= 0 {
		return nil, validationf("an appointment must be selected")
	}
	return c.post(ctx, "/consultations", note)
}

// GetConsultationByAppointmentID fetches the note attached to an appointment.
func (c *Client) GetConsultationByAppointmentID(ctx context.Context, appointmentID int64) (*Envelope, error) {
	return c.get(ctx, fmt.Sprintf("/consultations/appointment/%d", appointmentID), nil)
}

// GetConsultationHistory fetches consultation history. patientID is
// optional: nil means the caller's own history; doctors pass a patient id
// to review that patient's record.
func (c *Client) GetConsultationHistory(ctx context.Context, patientID *int64) (*Envelope, error) {
	var query url.Values
	if patientID != nil {
		query = url.Values{"patientId": {strconv.FormatInt(*patientID, 10)}}
	}
	return c.get(ctx, "/consultations/history", query)
}
