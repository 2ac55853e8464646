package gateway

import (
	"errors"
	"fmt"

	"schooladmin/internal/domain/roster"
)

// ErrUnexpectedStatus is wrapped by FetchError for non-2xx responses.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// ErrMalformedBody is wrapped by FetchError when a response cannot be decoded.
var ErrMalformedBody = errors.New("malformed response body")

// Operations reported in FetchError.Op.
const (
	OpList   = "list"
	OpUpdate = "update"
	OpRemove = "remove"
)

// FetchError describes a failed backend call. StatusCode is 0 when no
// response was received.
type FetchError struct {
	Op         string
	Kind       roster.Kind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: %s: status %d: %v", e.Op, e.Kind, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a FetchError carrying a 404.
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.StatusCode == 404
}
