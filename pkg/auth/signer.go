package auth

import "net/http"

// Signer authenticates an outgoing request. Sign receives the request and
// the exact body bytes that will be sent and attaches whatever headers the
// scheme requires. Implementations must be safe for concurrent use.
type Signer interface {
	Sign(req *http.Request, body []byte) error
}
