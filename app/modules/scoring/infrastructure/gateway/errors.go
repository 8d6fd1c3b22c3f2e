package gateway

import (
	"errors"
	"fmt"
)

// ErrAuthExpired is returned before a round trip is attempted when the
// configured bearer token is a JWT whose expiry has already passed.
var ErrAuthExpired = errors.New("gateway auth token expired")

// Status codes in the response envelope. Zero is success; anything else is a
// domain-level failure, distinct from HTTP transport failure.
const (
	statusCodeOK       = 0
	statusCodeNotFound = 404
)

// StatusError is a domain-level failure reported in the response envelope of
// an otherwise successful HTTP exchange.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway status %d: %s", e.Code, e.Message)
}

// NotFound reports whether the failure means the entity no longer exists
// server-side.
func (e *StatusError) NotFound() bool {
	return e.Code == statusCodeNotFound
}

// IsNotFound reports whether err is a domain not-found status.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.NotFound()
}
