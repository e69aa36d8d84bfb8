package api

import (
	"context"

	"github.com/telemedhq/telemed/internal/session"
)

// minPasswordLen matches the backend's password policy; shorter passwords
// are rejected before dispatch.
const minPasswordLen = 4

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PatientRegistration is the patient sign-up payload. ConfirmPassword is
// checked client-side only and never sent.
type PatientRegistration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
}

// DoctorRegistration is the doctor sign-up payload. The DOCTOR role marker
// is attached by RegisterDoctor; callers do not set it.
type DoctorRegistration struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	LicenseNumber  string   `json:"licenseNumber"`
	Specialization string   `json:"specialization"`
	Roles          []string `json:"roles"`
}

// PasswordReset completes a forgot-password flow with the emailed code.
type PasswordReset struct {
	Code            string `json:"code"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"-"`
}

// Login authenticates with email and password. On application-level
// success the envelope's data decodes into an AuthResult; persisting it is
// the caller's job.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Envelope, error) {
	if creds.Email == "" {
		return nil, validationf("email is required")
	}
	if len(creds.Password) < minPasswordLen {
		return nil, validationf("password must be at least %d characters", minPasswordLen)
	}
	return c.post(ctx, "/auth/login", creds)
}

// RegisterPatient creates a patient account.
func (c *Client) RegisterPatient(ctx context.Context, reg PatientRegistration) (*Envelope, error) {
	if reg.Name == "" || reg.Email == "" {
		return nil, validationf("name and email are required")
	}
	if len(reg.Password) < minPasswordLen {
		return nil, validationf("password must be at least %d characters", minPasswordLen)
	}
	if reg.Password != reg.ConfirmPassword {
		return nil, validationf("passwords do not match")
	}
	return c.post(ctx, "/auth/register", reg)
}

// RegisterDoctor creates a doctor account. The payload always carries the
// fixed DOCTOR role marker in addition to license number and specialization.
func (c *Client) RegisterDoctor(ctx context.Context, reg DoctorRegistration) (*Envelope, error) {
	if reg.Name == "" || reg.Email == "" {
		return nil, validationf("name and email are required")
	}
	if len(reg.Password) < minPasswordLen {
		return nil, validationf("password must be at least %d characters", minPasswordLen)
	}
	if reg.LicenseNumber == "" || reg.Specialization == "" {
		return nil, validationf("license number and specialization are required")
	}
	reg.Roles = []string{session.RoleDoctor}
	return c.post(ctx, "/auth/register", reg)
}

// ForgotPassword asks the backend to email a reset code.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*Envelope, error) {
	if email == "" {
		return nil, validationf("email is required")
	}
	return c.post(ctx, "/auth/forgot-password", map[string]string{"email": email})
}

// ResetPassword sets a new password using an emailed reset code.
func (c *Client) ResetPassword(ctx context.Context, reset PasswordReset) (*Envelope, error) {
	if reset.Code == "" {
		return nil, validationf("reset code is required")
	}
	if len(reset.NewPassword) < minPasswordLen {
		return nil, validationf("password must be at least %d characters", minPasswordLen)
	}
	if reset.NewPassword != reset.ConfirmPassword {
		return nil, validationf("passwords do not match")
	}
	return c.post(ctx, "/auth/reset-password", reset)
}
