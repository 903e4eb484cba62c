package archive

import "fmt"

// TransportError reports a failed HTTP exchange: either a non-200 status
// (StatusCode is set) or a network-level failure (Err is set). The client
// never retries; callers that want retries wrap the call themselves.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports a response body that could not be decoded into the
// expected shape: invalid JSON, a JSON type conflicting with the declared
// field type, or a non-integer body on the count endpoint.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response of GET %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
