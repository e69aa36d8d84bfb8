package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// requestTimeout is the fixed per-request deadline. A request that exceeds
// it fails with a KindTimeout error, distinct from a network failure.
const requestTimeout = 15 * time.Second

// Enum lists (genotypes, blood groups, specializations) are immutable
// server-side, so repeated lookups are served from a short-lived cache.
const (
	enumCacheTTL     = 5 * time.Minute
	enumCacheCleanup = 10 * time.Minute
)

// deployHost is the fixed deployment host the page-to-API port mapping
// applies to.
const deployHost = "114.71.147.30"

// ResolveBaseURL maps the page's own host and port to the API origin,
// resolved once per process and not reconfigurable at runtime:
//
//	deployment host, port 23000 → same host, port 28080
//	deployment host, port 3000  → same host, port 8080
//	anything else               → same host, port 8080
func ResolveBaseURL(scheme, host, port string) string {
	if scheme == "" {
		scheme = "http"
	}
	apiPort := "8080"
	if host == deployHost && port == "23000" {
		apiPort = "28080"
	}
	return fmt.Sprintf("%s://%s:%s", scheme, host, apiPort)
}

// TokenSource supplies the bearer token for outbound requests.
// *session.Store satisfies it.
type TokenSource interface {
	Token() string
}

// Client is the single egress point for all network calls. It injects the
// bearer token when one exists, enforces the request timeout, and decodes
// the response envelope. It never retries and never refreshes tokens.
type Client struct {
	http    *http.Client
	baseURL string
	tokens  TokenSource
	log     *zap.Logger
	enums   *cache.Cache
}

// New returns a client for the API at the given origin (scheme://host:port,
// without the /api prefix). tokens may not be nil; use an empty session
// store for unauthenticated use.
func New(origin string, tokens TokenSource, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: strings.TrimRight(origin, "/") + "/api",
		tokens:  tokens,
		log:     log,
		enums:   cache.New(enumCacheTTL, enumCacheCleanup),
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, "")
}

func (c *Client) post(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.sendJSON(ctx, http.MethodPost, path, body)
}

func (c *Client) put(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.sendJSON(ctx, http.MethodPut, path, body)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body any) (*Envelope, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, validationf("encode request body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	return c.do(ctx, method, path, nil, r, "application/json")
}

// do dispatches a single request. Every call attaches the bearer token if
// the session has one; without a token the Authorization header is omitted
// and the backend rejects the request if it required auth.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*Envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		kind := KindNetwork
		var uerr *url.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &uerr) && uerr.Timeout()) {
			kind = KindTimeout
		}
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, &Error{Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Surface the server's message when the error body is an envelope.
		var env Envelope
		msg := ""
		if json.Unmarshal(raw, &env) == nil {
			msg = env.Message
		}
		return nil, &Error{Kind: KindHTTP, HTTPStatus: resp.StatusCode, Message: msg}
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &Error{Kind: KindHTTP, HTTPStatus: resp.StatusCode, Err: err}
	}
	return &env, nil
}

// cachedGet serves enum-style lookups through the TTL cache. Only
// successful envelopes are cached.
func (c *Client) cachedGet(ctx context.Context, path string) (*Envelope, error) {
	if v, ok := c.enums.Get(path); ok {
		return v.(*Envelope), nil
	}
	env, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	if env.OK() {
		c.enums.Set(path, env, cache.DefaultExpiration)
	}
	return env, nil
}
