package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/glintwash/glintwash-client/pkg/config"
	pkgerrors "github.com/glintwash/glintwash-client/pkg/errors"
	"github.com/glintwash/glintwash-client/pkg/logger"
	"github.com/glintwash/glintwash-client/pkg/metrics"
	"github.com/glintwash/glintwash-client/pkg/types"
	"github.com/google/uuid"
)

// TokenSource yields the bearer token to attach to outgoing requests; an
// empty string means the caller is unauthenticated.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource, mostly for tests.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// TokenFunc adapts a closure into a TokenSource, which breaks the
// construction cycle between the client and the auth manager.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client talks to the platform backend. Every endpoint answers with the
// {success, message, data} envelope; anything else is a dependency error.
type Client struct {
	http    *http.Client
	baseURL string
	logg    *logger.Logger
	metrics *metrics.APIMetrics
}

// bearerTransport attaches auth and tracing headers to every request.
type bearerTransport struct {
	tokens TokenSource
	base   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.tokens != nil {
		if token := t.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("Accept", "application/json")
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	return t.base.RoundTrip(req)
}

// NewClient builds the REST client. tokens may be nil for anonymous catalog
// access; logg and apiMetrics may be nil.
func NewClient(cfg config.APIConfig, tokens TokenSource, logg *logger.Logger, apiMetrics *metrics.APIMetrics) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http: &http.Client{
			Transport: &bearerTransport{tokens: tokens, base: http.DefaultTransport},
			Timeout:   timeout,
		},
		baseURL: base,
		logg:    logg,
		metrics: apiMetrics,
	}, nil
}

func (c *Client) do(ctx context.Context, resource, method, path string, body, dest any) error {
	started := time.Now()
	err := c.doOnce(ctx, method, path, body, dest)
	c.metrics.ObserveDuration(resource, time.Since(started))
	if err != nil {
		c.metrics.IncFailure(resource)
		if c.logg != nil {
			c.logg.Error(c.logg.WithResource(ctx, resource), "api request failed", err)
		}
		return err
	}
	c.metrics.IncSuccess(resource)
	return nil
}

func (c *Client) doOnce(ctx context.Context, method, path string, body, dest any) error {
	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request body")
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling api")
	}
	defer resp.Body.Close()

	var envelope types.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding api response").
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	// Non-2xx and success=false are one and the same failure to the caller.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Success {
		message := strings.TrimSpace(envelope.Message)
		if message == "" {
			message = pkgerrors.MetadataFor(pkgerrors.CodeRemote).PublicMessage
		}
		return pkgerrors.New(pkgerrors.CodeRemote, message).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	if dest == nil {
		return nil
	}
	if len(envelope.Data) == 0 {
		return pkgerrors.New(pkgerrors.CodeDependency, "api response missing data")
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding api data")
	}
	return nil
}
