// Package api is the sole boundary between the client and the platform's
// REST backend: one typed operation per backend capability, all funnelled
// through a single HTTP client that attaches credentials and enforces the
// request timeout.
package api

import (
	"encoding/json"
	"net/http"
)

// Envelope is the wrapper every backend response uses. HTTP-level success
// does not imply application-level success: callers must treat
// StatusCode 200 (201 for creation) as the sole success signal. This layer
// deliberately returns the raw envelope instead of deciding success itself,
// keeping "what counts as success" in one place per caller, as the backend
// contract does.
type Envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// OK reports whether the envelope carries an application-level success code.
func (e *Envelope) OK() bool {
	return e.StatusCode == http.StatusOK || e.StatusCode == http.StatusCreated
}

// DecodeData unmarshals the data field into v. It is the caller's job to
// check OK first; decoding an absent data field fails.
func (e *Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 {
		return &Error{Kind: KindValidation, Message: "response carries no data"}
	}
	return json.Unmarshal(e.Data, v)
}

// AuthResult is the data payload of a successful login, consumed
// immediately to populate the session store.
type AuthResult struct {
	Token string   `json:"token"`
	Roles []string `json:"roles"`
}
