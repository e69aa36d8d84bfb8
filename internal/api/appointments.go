package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// AppointmentRequest books a consultation slot with a doctor. StartTime may
// be in any zone; the wire always carries an ISO-8601 UTC instant, never a
// local timestamp.
type AppointmentRequest struct {
	DoctorID              int64     `json:"doctorId"`
	PurposeOfConsultation string    `json:"purposeOfConsultation"`
	InitialSymptoms       string    `json:"initialSymptoms"`
	StartTime             time.Time `json:"-"`
}

// MarshalJSON emits startTime as a UTC RFC 3339 instant alongside the
// regular fields.
func (r AppointmentRequest) MarshalJSON() ([]byte, error) {
	type alias AppointmentRequest
	return json.Marshal(struct {
		alias
		StartTime string `json:"startTime"`
	}{
		alias:     alias(r),
		StartTime: r.StartTime.UTC().Format(time.RFC3339),
	})
}

// BookAppointment creates an appointment for the authenticated patient.
func (c *Client) BookAppointment(ctx context.Context, req AppointmentRequest) (*Envelope, error) {
	if req.DoctorID <= 0 {
		return nil, validationf("a doctor must be selected")
	}
	if req.StartTime.IsZero() {
		return nil, validationf("an appointment date and time must be selected")
	}
	return c.post(ctx, "/appointments", req)
}

// ListMyAppointments fetches the caller's appointments. The backend scopes
// the result by role: patients see their bookings, doctors their schedule.
func (c *Client) ListMyAppointments(ctx context.Context) (*Envelope, error) {
	return c.get(ctx, "/appointments", nil)
}

// CancelAppointment cancels an appointment by id.
func (c *Client) CancelAppointment(ctx context.Context, id int64) (*Envelope, error) {
	return c.put(ctx, fmt.Sprintf("/appointments/cancel/%d", id), nil)
}

// CompleteAppointment marks an appointment completed by id.
func (c *Client) CompleteAppointment(ctx context.Context, id int64) (*Envelope, error) {
	return c.put(ctx, fmt.Sprintf("/appointments/complete/%d", id), nil)
}
