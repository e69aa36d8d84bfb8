package api

import (
	"context"
	"fmt"
)

// DoctorProfileUpdate carries the editable doctor profile fields.
type DoctorProfileUpdate struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Specialization string `json:"specialization"`
}

// GetMyDoctorProfile fetches the authenticated doctor's profile.
func (c *Client) GetMyDoctorProfile(ctx context.Context) (*Envelope, error) {
	return c.get(ctx, "/doctors/me", nil)
}

// UpdateMyDoctorProfile updates the authenticated doctor's profile.
func (c *Client) UpdateMyDoctorProfile(ctx context.Context, upd DoctorProfileUpdate) (*Envelope, error) {
	return c.put(ctx, "/doctors/me", upd)
}

// ListDoctors fetches all registered doctors, e.g. for the booking form.
func (c *Client) ListDoctors(ctx context.Context) (*Envelope, error) {
	return c.get(ctx, "/doctors", nil)
}

// GetDoctorByID fetches a doctor profile by id.
func (c *Client) GetDoctorByID(ctx context.Context, id int64) (*Envelope, error) {
	return c.get(ctx, fmt.Sprintf("/doctors/%d", id), nil)
}

// ListSpecializations fetches the specialization enum values. Served from
// the enum cache after the first successful fetch.
func (c *Client) ListSpecializations(ctx context.Context) (*Envelope, error) {
	return c.cachedGet(ctx, "/doctors/specializations")
}
