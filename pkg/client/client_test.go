package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/config"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
)

// noopSigner satisfies auth.Signer without touching the request.
type noopSigner struct{}

func (noopSigner) Sign(*http.Request, []byte) error { return nil }

func testClient(serverURL string) *Client {
	cfg := config.Default()
	cfg.APIURL = serverURL
	return New(cfg, noopSigner{})
}

func TestObjectiveValidate(t *testing.T) {
	for _, o := range []Objective{ObjectiveMinDelay, ObjectiveMinPeriod, ObjectiveMaxCapacity} {
		if err := o.Validate(); err != nil {
			t.Errorf("valid objective %q rejected: %v", o, err)
		}
	}
	var verr *errs.ValidationError
	err := Objective("min fuel").Validate()
	require.ErrorAs(t, err, &verr)
}

func TestPostStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		errType any
	}{
		{name: "bad request", status: http.StatusBadRequest,
			body: `{"msg":"invalid intersection"}`, errType: new(*errs.RemoteRequestError)},
		{name: "unauthorized", status: http.StatusUnauthorized, errType: new(*errs.AuthenticationError)},
		{name: "payment required", status: http.StatusPaymentRequired, errType: new(*errs.AuthenticationError)},
		{name: "forbidden", status: http.StatusForbidden, errType: new(*errs.AuthenticationError)},
		{name: "upgrade required", status: http.StatusUpgradeRequired,
			body: `{"msg":"please upgrade"}`, errType: new(*errs.AuthenticationError)},
		{name: "gateway timeout", status: http.StatusGatewayTimeout, errType: new(*errs.TimeoutError)},
		{name: "other 4xx", status: http.StatusTeapot, errType: new(*errs.RemoteRequestError)},
		{name: "server error", status: http.StatusInternalServerError, errType: new(*errs.RemoteServiceError)},
		{name: "bad gateway", status: http.StatusBadGateway, errType: new(*errs.RemoteServiceError)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != "" {
					w.Write([]byte(tt.body))
				}
			}))
			defer server.Close()

			c := testClient(server.URL)
			_, err := c.post(context.Background(), "test_op", "/test", map[string]any{})
			require.ErrorAs(t, err, tt.errType)
		})
	}
}

func TestPostPreservesServerDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"msg":"signal group 'sg3' is unknown"}`))
	}))
	defer server.Close()

	c := testClient(server.URL)
	_, err := c.post(context.Background(), "test_op", "/test", map[string]any{})
	var rerr *errs.RemoteRequestError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Message, "signal group 'sg3' is unknown")
}

func TestPostTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.APIURL = server.URL
	c := New(cfg, noopSigner{}, WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))

	_, err := c.post(context.Background(), "test_op", "/test", map[string]any{})
	var terr *errs.TimeoutError
	require.ErrorAs(t, err, &terr)
}

func TestPostContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	c := testClient(server.URL)
	_, err := c.post(ctx, "test_op", "/test", map[string]any{})
	var terr *errs.TimeoutError
	require.ErrorAs(t, err, &terr)
}

func TestPostConnectionRefused(t *testing.T) {
	// grab an address nothing listens on
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := testClient(url)
	_, err := c.post(context.Background(), "test_op", "/test", map[string]any{})
	var serr *errs.RemoteServiceError
	require.ErrorAs(t, err, &serr)
}

func TestPostMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := testClient(server.URL)
	_, err := c.post(context.Background(), "test_op", "/test", map[string]any{})
	var derr *errs.DeserializationError
	require.ErrorAs(t, err, &derr)
}
