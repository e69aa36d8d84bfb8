package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Upload size limits differ per profile type; both are enforced before
// dispatch so an oversized file never leaves the machine.
const (
	MaxPatientPictureBytes = 5 << 20
	MaxDoctorPictureBytes  = 10 << 20
)

// imageTypes is the accepted MIME allowlist for profile pictures.
var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// ProfilePicture describes a file to upload. Size must be the full length
// of Reader's content.
type ProfilePicture struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// PasswordUpdate changes the current user's password. A successful update
// forces re-authentication; the caller clears the session.
type PasswordUpdate struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// GetCurrentUser fetches the authenticated user's account details.
func (c *Client) GetCurrentUser(ctx context.Context) (*Envelope, error) {
	return c.get(ctx, "/users/me", nil)
}

// GetUserByID fetches a user by their account id.
func (c *Client) GetUserByID(ctx context.Context, id int64) (*Envelope, error) {
	return c.get(ctx, fmt.Sprintf("/users/by-id/%d", id), nil)
}

// ListUsers fetches all user accounts.
func (c *Client) ListUsers(ctx context.Context) (*Envelope, error) {
	return c.get(ctx, "/users/all", nil)
}

// UpdatePassword changes the current user's password.
func (c *Client) UpdatePassword(ctx context.Context, upd PasswordUpdate) (*Envelope, error) {
	if upd.OldPassword == "" {
		return nil, validationf("current password is required")
	}
	if len(upd.NewPassword) < minPasswordLen {
		return nil, validationf("password must be at least %d characters", minPasswordLen)
	}
	return c.put(ctx, "/users/update-password", upd)
}

// UploadPatientProfilePicture uploads a profile picture from the patient
// profile page, capped at 5 MB.
func (c *Client) UploadPatientProfilePicture(ctx context.Context, pic ProfilePicture) (*Envelope, error) {
	return c.uploadProfilePicture(ctx, pic, MaxPatientPictureBytes)
}

// UploadDoctorProfilePicture uploads a profile picture from the doctor
// profile page, capped at 10 MB.
func (c *Client) UploadDoctorProfilePicture(ctx context.Context, pic ProfilePicture) (*Envelope, error) {
	return c.uploadProfilePicture(ctx, pic, MaxDoctorPictureBytes)
}

// uploadProfilePicture is the one operation that overrides the JSON default
// with multipart form data, for this single request only.
func (c *Client) uploadProfilePicture(ctx context.Context, pic ProfilePicture, limit int64) (*Envelope, error) {
	if !imageTypes[pic.ContentType] {
		return nil, validationf("unsupported file type %q: use JPEG, PNG or GIF", pic.ContentType)
	}
	if pic.Size > limit {
		return nil, validationf("file is %d bytes, limit is %d", pic.Size, limit)
	}
	if pic.Reader == nil {
		return nil, validationf("no file content")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", pic.Filename)
	if err != nil {
		return nil, validationf("build multipart body: %v", err)
	}
	if _, err := io.Copy(part, pic.Reader); err != nil {
		return nil, validationf("read file: %v", err)
	}
	if err := w.Close(); err != nil {
		return nil, validationf("build multipart body: %v", err)
	}

	return c.do(ctx, http.MethodPut, "/users/profile-picture", nil, &buf, w.FormDataContentType())
}
