package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
)

// DefaultAuthURL is the production authentication endpoint.
const DefaultAuthURL = "https://authentication.swiftmobility.eu/authenticate"

// expirySlack is how long before expiry a cached token is considered stale.
const expirySlack = 30 * time.Second

// BearerSigner exchanges the credential pair for a short-lived JWT at the
// authentication endpoint and attaches it as an Authorization bearer header.
// The token is cached and refreshed shortly before it expires; concurrent
// calls share a single refresh.
type BearerSigner struct {
	creds      Credentials
	authURL    string
	httpClient *http.Client
	now        func() time.Time

	mu    sync.Mutex
	token string
	exp   time.Time
}

// NewBearerSigner creates a BearerSigner against the given authentication
// endpoint; an empty authURL selects the production endpoint.
func NewBearerSigner(creds Credentials, authURL string, httpClient *http.Client) *BearerSigner {
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &BearerSigner{creds: creds, authURL: authURL, httpClient: httpClient, now: time.Now}
}

// Sign ensures a valid token is cached and sets the Authorization header.
func (s *BearerSigner) Sign(req *http.Request, _ []byte) error {
	token, err := s.authToken(req.Context())
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// authToken returns the cached token, refreshing it when absent or within
// the expiry slack.
func (s *BearerSigner) authToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" && s.now().Add(expirySlack).Before(s.exp) {
		return s.token, nil
	}
	if err := s.refreshToken(ctx); err != nil {
		return "", err
	}
	return s.token, nil
}

type authRequest struct {
	AccessKey       string `json:"accessKey"`
	SecretAccessKey string `json:"secretAccessKey"`
	AccountType     string `json:"accountType"`
}

type authResponse struct {
	JWTToken string `json:"jwt-token"`
	Exp      int64  `json:"exp"`
}

// refreshToken performs the token exchange. Caller holds the mutex.
func (s *BearerSigner) refreshToken(ctx context.Context) error {
	body, err := json.Marshal(authRequest{
		AccessKey:       s.creds.APIKey,
		SecretAccessKey: s.creds.SecretKey,
		AccountType:     "cloud-api",
	})
	if err != nil {
		return fmt.Errorf("marshal authentication request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.authURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create authentication request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &errs.AuthenticationError{Message: fmt.Sprintf("could not reach authentication service: %v", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized:
		return &errs.AuthenticationError{StatusCode: resp.StatusCode,
			Message: "access denied; check the " + EnvAPIKey + " and " + EnvSecretKey + " environment variables"}
	case resp.StatusCode == http.StatusBadRequest:
		return &errs.AuthenticationError{StatusCode: resp.StatusCode, Message: "malformed authentication request"}
	default:
		return &errs.RemoteServiceError{StatusCode: resp.StatusCode, Message: "authentication service failed"}
	}

	var parsed authResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return &errs.AuthenticationError{Message: fmt.Sprintf("could not decode authentication response: %v", err)}
	}
	if parsed.JWTToken == "" {
		return &errs.AuthenticationError{Message: "authentication response contains no token"}
	}

	exp := time.Unix(parsed.Exp, 0)
	if parsed.Exp == 0 {
		// Some deployments omit the exp field; fall back to the token's own
		// registered claim. The token is verified server-side, so parsing
		// without signature validation is sufficient here.
		exp, err = tokenExpiry(parsed.JWTToken)
		if err != nil {
			return err
		}
	}

	s.token = parsed.JWTToken
	s.exp = exp
	return nil
}

// tokenExpiry extracts the exp registered claim from a JWT without
// validating its signature.
func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, &errs.AuthenticationError{Message: fmt.Sprintf("could not parse token: %v", err)}
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, &errs.AuthenticationError{Message: "token carries no expiration claim"}
	}
	return expiry.Time, nil
}

// Invalidate drops the cached token, forcing a refresh on the next call.
func (s *BearerSigner) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.exp = time.Time{}
}
