// models/errors.go
package models

import "errors"

// ErrMalformedResponse marks a server payload that is missing fields the
// client depends on. Malformed payloads are rejected at the network boundary
// rather than defaulted to zero values, so phantom scores never reach totals.
var ErrMalformedResponse = errors.New("malformed server response")
