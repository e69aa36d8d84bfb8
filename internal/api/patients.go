package api

import (
	"context"
	"fmt"
)

// PatientProfileUpdate carries the editable patient profile fields. Empty
// fields are sent as-is; the backend treats them as "not provided".
type PatientProfileUpdate struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Phone          string `json:"phone"`
	DateOfBirth    string `json:"dateOfBirth"`
	KnownAllergies string `json:"knownAllergies"`
	BloodGroup     string `json:"bloodGroup"`
	Genotype       string `json:"genotype"`
}

// GetMyPatientProfile fetches the authenticated patient's profile.
func (c *Client) GetMyPatientProfile(ctx context.Context) (*Envelope, error) {
	return c.get(ctx, "/patients/me", nil)
}

// UpdateMyPatientProfile updates the authenticated patient's profile.
func (c *Client) UpdateMyPatientProfile(ctx context.Context, upd PatientProfileUpdate) (*Envelope, error) {
	return c.put(ctx, "/patients/me", upd)
}

// GetPatientByID fetches a patient profile by id.
func (c *Client) GetPatientByID(ctx context.Context, id int64) (*Envelope, error) {
	return c.get(ctx, fmt.Sprintf("/patients/%d", id), nil)
}

// ListGenotypes fetches the genotype enum values. Served from the enum
// cache after the first successful fetch.
func (c *Client) ListGenotypes(ctx context.Context) (*Envelope, error) {
	return c.cachedGet(ctx, "/patients/genotypes")
}

// ListBloodGroups fetches the blood-group enum values. Cached like
// ListGenotypes.
func (c *Client) ListBloodGroups(ctx context.Context) (*Envelope, error) {
	return c.cachedGet(ctx, "/patients/bloodgroup")
}
