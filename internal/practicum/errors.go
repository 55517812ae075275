package practicum

import "fmt"

// TransportError wraps a network-level failure talking to the status API.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("status api request failed: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamStatusError reports a non-2xx answer from the status API.
type UpstreamStatusError struct {
	StatusCode int
	Body       string // truncated
}

func (e *UpstreamStatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("status api answered http=%d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("status api answered http=%d", e.StatusCode)
}

// DecodeError reports a 2xx body that is not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("status api body is not json: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }
