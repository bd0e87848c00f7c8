// Package client implements the typed interface to the Swift Mobility cloud
// optimizer: it serializes domain objects into authenticated HTTP requests
// against the fixed per-operation endpoints and parses the JSON responses
// back into typed results.
//
// The client is synchronous and stateless; it never mutates the domain
// objects passed in and is safe for concurrent use.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/auth"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/config"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/logging"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/metrics"
)

// Endpoint paths, one fixed path per operation.
const (
	pathOptimization = "/fts-optimization"
	pathPhaseDiagram = "/phase-diagram-computation"
	pathTuning       = "/fts-tuning"
	pathEvaluation   = "/fts-evaluation"
)

// Client talks to the cloud api. Create one with New and share it freely;
// all state (credentials, timeout, collectors) is immutable after creation.
type Client struct {
	baseURL    string
	httpClient *http.Client
	signer     auth.Signer
	logger     logging.Logger
	metrics    *metrics.Registry
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger attaches a structured logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics attaches a metrics registry.
func WithMetrics(reg *metrics.Registry) Option {
	return func(c *Client) { c.metrics = reg }
}

// WithHTTPClient replaces the underlying http client (the configured timeout
// is not applied in that case).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the given configuration and signer.
func New(cfg config.Config, signer auth.Signer, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		signer: signer,
		logger: logging.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromEnv creates a Client with the default configuration, reading the
// credential pair from the environment and authenticating via the bearer
// token flow.
func NewFromEnv(opts ...Option) (*Client, error) {
	creds, err := auth.CredentialsFromEnv()
	if err != nil {
		return nil, err
	}
	cfg := config.Default()
	return New(cfg, auth.NewBearerSigner(creds, cfg.AuthURL, nil), opts...), nil
}

// post serializes payload, signs and sends one request, maps the status code
// onto the error taxonomy and decodes the response body.
func (c *Client) post(ctx context.Context, operation, path string, payload map[string]any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if err := c.signer.Sign(req, body); err != nil {
		c.metrics.RecordAuthFailure()
		return nil, err
	}

	c.logger.Debug("calling cloud api", logging.F("operation", operation), logging.F("path", path))
	start := time.Now()
	done := c.metrics.TrackInFlight()
	resp, err := c.httpClient.Do(req)
	done()
	if err != nil {
		c.metrics.RecordRequest(operation, "transport_error", time.Since(start))
		return nil, transportError(operation, err)
	}
	defer resp.Body.Close()
	c.metrics.RecordRequest(operation, strconv.Itoa(resp.StatusCode), time.Since(start))

	if err := c.checkStatus(operation, resp); err != nil {
		c.logger.Error("cloud api call failed",
			logging.F("operation", operation), logging.F("status", resp.StatusCode))
		return nil, err
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errs.NewDeserializationError(errs.WrongType, "response",
			"could not decode %s response: %v", operation, err)
	}
	c.logger.Debug("cloud api call finished",
		logging.F("operation", operation), logging.F("duration", time.Since(start).String()))
	return out, nil
}

// transportError classifies a failed round trip: timeouts and cancellations
// map onto TimeoutError, everything else onto RemoteServiceError.
func transportError(operation string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &errs.TimeoutError{Operation: operation, Message: "no response within the configured timeout"}
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s canceled: %w", operation, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &errs.TimeoutError{Operation: operation, Message: "no response within the configured timeout"}
	}
	return &errs.RemoteServiceError{Message: fmt.Sprintf(
		"connection with the cloud api could not be established: %v", err)}
}

// checkStatus maps the response status code onto the error taxonomy,
// preserving the server-provided detail.
func (c *Client) checkStatus(operation string, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		return &errs.RemoteRequestError{StatusCode: resp.StatusCode, Message: serverDetail(resp)}
	case resp.StatusCode == http.StatusUnauthorized:
		c.metrics.RecordAuthFailure()
		return &errs.AuthenticationError{StatusCode: resp.StatusCode,
			Message: "token validation failed: missing or invalid credentials"}
	case resp.StatusCode == http.StatusPaymentRequired:
		c.metrics.RecordAuthFailure()
		return &errs.AuthenticationError{StatusCode: resp.StatusCode,
			Message: "insufficient credits (cpu seconds) left"}
	case resp.StatusCode == http.StatusForbidden:
		c.metrics.RecordAuthFailure()
		return &errs.AuthenticationError{StatusCode: resp.StatusCode, Message: "forbidden"}
	case resp.StatusCode == http.StatusUpgradeRequired:
		c.metrics.RecordAuthFailure()
		return &errs.AuthenticationError{StatusCode: resp.StatusCode, Message: fmt.Sprintf(
			"the cloud api is still in the beta phase and may change; message from cloud: %s", serverDetail(resp))}
	case resp.StatusCode == http.StatusGatewayTimeout:
		return &errs.TimeoutError{Operation: operation, Message: "the cloud reported a gateway timeout"}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &errs.RemoteRequestError{StatusCode: resp.StatusCode, Message: serverDetail(resp)}
	default:
		return &errs.RemoteServiceError{StatusCode: resp.StatusCode, Message: serverDetail(resp)}
	}
}

// serverDetail extracts the server-provided message from an error response
// body, falling back to the raw body.
func serverDetail(resp *http.Response) string {
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return resp.Status
	}
	for _, key := range []string{"msg", "message", "error"} {
		if v, ok := payload[key].(string); ok {
			return v
		}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return resp.Status
	}
	return string(data)
}
