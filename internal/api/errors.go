package api

import "fmt"

// NetworkError indicates a transport-level failure: DNS, connection
// refused, timeout.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// InvalidResponseError indicates the server answered with something that
// is not JSON or does not match the expected shape.
type InvalidResponseError struct {
	Err error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response: %v", e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// RemoteError is a well-formed error payload from the server. The
// backend may return it with any HTTP status, including 2xx.
type RemoteError struct {
	Message string
	Code    *int
	Details string
}

func (e *RemoteError) Error() string {
	if e.Code != nil {
		return fmt.Sprintf("remote error %d: %s", *e.Code, e.Message)
	}
	return fmt.Sprintf("remote error: %s", e.Message)
}

// UnknownError wraps failures that fit none of the other categories.
type UnknownError struct {
	Err error
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown error: %v", e.Err)
}

func (e *UnknownError) Unwrap() error { return e.Err }
