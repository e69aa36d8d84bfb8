package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticToken is a TokenSource with a fixed value; "" means no session.
type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name   string
		scheme string
		host   string
		port   string
		want   string
	}{
		{"external deployment", "http", "114.71.147.30", "23000", "http://114.71.147.30:28080"},
		{"internal deployment", "http", "114.71.147.30", "3000", "http://114.71.147.30:8080"},
		{"deployment host other port", "http", "114.71.147.30", "80", "http://114.71.147.30:8080"},
		{"localhost dev", "http", "localhost", "3000", "http://localhost:8080"},
		{"other host 23000", "https", "example.com", "23000", "https://example.com:8080"},
		{"empty scheme defaults to http", "", "localhost", "", "http://localhost:8080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveBaseURL(tt.scheme, tt.host, tt.port))
		})
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	var hadAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hadAuth = r.Header["Authorization"]
		w.Write([]byte(`{"statusCode":200}`))
	}))
	defer srv.Close()

	// No token: the header must be absent entirely.
	c := New(srv.URL, staticToken(""), nil)
	_, err := c.GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.False(t, hadAuth, "Authorization header sent without a token")

	// With a token: exact "Bearer <token>" value.
	c = New(srv.URL, staticToken("abc123"), nil)
	_, err = c.GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.True(t, hadAuth)
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestRequestIDAttached(t *testing.T) {
	ids := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids[r.Header.Get("X-Request-ID")] = true
		w.Write([]byte(`{"statusCode":200}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""), nil)
	for i := 0; i < 3; i++ {
		_, err := c.GetCurrentUser(context.Background())
		require.NoError(t, err)
	}
	assert.Len(t, ids, 3, "request ids should be unique per request")
	assert.False(t, ids[""], "request id must not be empty")
}

func TestEnvelopePassedThroughUninterpreted(t *testing.T) {
	// HTTP 200 with an application-level failure must not become an error:
	// deciding success belongs to the caller.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"statusCode":401,"message":"invalid credentials"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""), nil)
	env, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pass"})
	require.NoError(t, err)
	assert.False(t, env.OK())
	assert.Equal(t, 401, env.StatusCode)
	assert.Equal(t, "invalid credentials", env.Message)
}

func TestNonTwoHundredSurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"statusCode":403,"message":"insufficient permissions"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken("tok"), nil)
	_, err := c.ListUsers(context.Background())
	require.Error(t, err)

	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindHTTP, apiErr.Kind)
	assert.Equal(t, http.StatusForbidden, apiErr.HTTPStatus)
	assert.Equal(t, "insufficient permissions", apiErr.Message)
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening any more

	c := New(srv.URL, staticToken(""), nil)
	_, err := c.ListDoctors(context.Background())
	require.Error(t, err)

	apiErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, apiErr.Kind)
	assert.False(t, IsTimeout(err))
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"statusCode":200}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""), nil)
	c.http.Timeout = 20 * time.Millisecond

	_, err := c.ListDoctors(context.Background())
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "expected a timeout error, got %v", err)
}

func TestEnumListsAreCached(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"statusCode":200,"data":["AA","AS"]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""), nil)
	for i := 0; i < 3; i++ {
		env, err := c.ListGenotypes(context.Background())
		require.NoError(t, err)
		assert.True(t, env.OK())
	}
	assert.Equal(t, 1, calls, "enum lookups should be served from cache")
}

func TestFailedEnumLookupsAreNotCached(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"statusCode":500,"message":"boom"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, staticToken(""), nil)
	for i := 0; i < 2; i++ {
		env, err := c.ListSpecializations(context.Background())
		require.NoError(t, err)
		assert.False(t, env.OK())
	}
	assert.Equal(t, 2, calls)
}

func TestDecodeData(t *testing.T) {
	env := &Envelope{StatusCode: 200, Data: []byte(`{"token":"abc","roles":["PATIENT"]}`)}

	var res AuthResult
	require.NoError(t, env.DecodeData(&res))
	assert.Equal(t, "abc", res.Token)
	assert.Equal(t, []string{"PATIENT"}, res.Roles)

	empty := &Envelope{StatusCode: 200}
	require.Error(t, empty.DecodeData(&res))
}
