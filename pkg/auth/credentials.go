// Package auth supplies the credential handling and request signing used by
// the cloud api client. The signing scheme is abstracted behind the Signer
// interface so alternative schemes can be substituted without touching call
// sites.
package auth

import (
	"os"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
)

// Environment variables holding the credential pair.
const (
	EnvAPIKey    = "smc_api_key"
	EnvSecretKey = "smc_secret_key"
)

// Credentials is the api key / secret key pair identifying a cloud api
// account. The api key identifies the caller; the secret key authenticates
// requests and never travels in plaintext beyond what the signing scheme
// requires.
type Credentials struct {
	APIKey    string
	SecretKey string
}

// NewCredentials creates Credentials from explicit values.
func NewCredentials(apiKey, secretKey string) (Credentials, error) {
	if apiKey == "" {
		return Credentials{}, &errs.AuthenticationError{Message: "api key must not be empty"}
	}
	if secretKey == "" {
		return Credentials{}, &errs.AuthenticationError{Message: "secret key must not be empty"}
	}
	return Credentials{APIKey: apiKey, SecretKey: secretKey}, nil
}

// CredentialsFromEnv reads the credential pair from the smc_api_key and
// smc_secret_key environment variables.
func CredentialsFromEnv() (Credentials, error) {
	apiKey := os.Getenv(EnvAPIKey)
	if apiKey == "" {
		return Credentials{}, &errs.AuthenticationError{Message: "environment variable " + EnvAPIKey + " is not set"}
	}
	secretKey := os.Getenv(EnvSecretKey)
	if secretKey == "" {
		return Credentials{}, &errs.AuthenticationError{Message: "environment variable " + EnvSecretKey + " is not set"}
	}
	return Credentials{APIKey: apiKey, SecretKey: secretKey}, nil
}
