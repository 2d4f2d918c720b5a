// Package auth implements the authorization gate that decides, per request
// and per space, whether a write is permitted. In development the gate is
// open; in production it delegates every decision to a remote policy
// service and fails closed on any error.
package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Credentials carries the raw Authorization header of an inbound request.
// It is passed explicitly rather than pulled from ambient request state so
// the gate has no hidden dependence on framework scoping.
type Credentials struct {
	// AuthorizationHeader is the verbatim header value, e.g.
	// "Basic dXNlcjpwYXNz". Empty means the request carried none.
	AuthorizationHeader string
}

// Gate answers whether the caller may write to a space.
type Gate interface {
	CanWrite(ctx context.Context, creds Credentials, space string) bool
}

// OpenGate permits every write without consulting anything. Used outside
// production so local development never needs a live policy service.
type OpenGate struct{}

func (OpenGate) CanWrite(context.Context, Credentials, string) bool {
	return true
}

const (
	basicScheme = "Basic "

	// canWritePath is the policy service resource consulted per decision.
	canWritePath = "/api/canWrite"

	defaultTimeout = 10 * time.Second
)

// ErrNoPolicyEndpoint is returned by NewPolicyGate when no endpoint is
// configured. This is a fatal configuration error: the service cannot run
// restricted without a policy service to delegate to.
var ErrNoPolicyEndpoint = errors.New("auth: policy endpoint not configured")

// PolicyGate delegates write decisions to a remote policy service. Every
// decision is a fresh network round-trip; decisions are not cached.
type PolicyGate struct {
	endpoint string
	client   *http.Client
	log      hclog.Logger
}

// NewPolicyGate builds a gate against the given policy endpoint, e.g.
// "https://auth.example.gov.au". A zero timeout uses a default.
func NewPolicyGate(endpoint string, timeout time.Duration, log hclog.Logger) (*PolicyGate, error) {
	if endpoint == "" {
		return nil, ErrNoPolicyEndpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("auth: invalid policy endpoint %q: %w", endpoint, err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &PolicyGate{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
		log:      log,
	}, nil
}

// CanWrite asks the policy service whether the caller may write to space.
// Denies on missing or malformed credentials without contacting the
// service; denies on any transport error, timeout, non-success status, or
// response body other than the literal text "true".
func (g *PolicyGate) CanWrite(ctx context.Context, creds Credentials, space string) bool {
	user, pass, ok := decodeBasicCredentials(creds.AuthorizationHeader)
	if !ok {
		return false
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, g.endpoint+canWritePath, nil)
	if err != nil {
		g.log.Error("error building policy request", "error", err)
		return false
	}
	q := req.URL.Query()
	q.Set("space", space)
	req.URL.RawQuery = q.Encode()
	req.SetBasicAuth(user, pass)

	resp, err := g.client.Do(req)
	if err != nil {
		// Fail closed: an unreachable policy service is a denial, never an
		// allow and never a server error surfaced to the caller.
		g.log.Warn("policy service unreachable, denying write",
			"space", space,
			"error", err,
		)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.log.Debug("policy service denied write",
			"space", space,
			"status", resp.StatusCode,
		)
		return false
	}

	// The policy service answers with a boolean encoded as literal text.
	// Anything other than exactly "true" is a denial.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		g.log.Warn("error reading policy response, denying write",
			"space", space,
			"error", err,
		)
		return false
	}
	return string(body) == "true"
}

// decodeBasicCredentials strips the Basic scheme prefix, base64-decodes the
// remainder, and splits it on the first colon into user and password.
// Malformed headers are a client-input problem and report not-ok, which the
// gate treats as a denial.
func decodeBasicCredentials(header string) (user, pass string, ok bool) {
	if header == "" {
		return "", "", false
	}
	raw, err := base64.StdEncoding.DecodeString(
		strings.TrimPrefix(header, basicScheme))
	if err != nil {
		return "", "", false
	}
	user, pass, found := strings.Cut(string(raw), ":")
	if !found {
		return "", "", false
	}
	return user, pass, true
}
