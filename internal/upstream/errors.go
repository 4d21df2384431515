package upstream

import (
	"encoding/json"
	"fmt"
)

// APIError is returned when the provider answered with a non-2xx status.
type APIError struct {
	StatusCode int
	// Body is the response body as JSON. Non-JSON bodies are carried as a JSON string.
	Body json.RawMessage
	// Message is the provider's "message" member as raw JSON, set only when
	// the member is truthy (not null, false, "", or 0).
	Message json.RawMessage
}

func (e *APIError) Error() string {
	if len(e.Message) == 0 {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	var text string
	if err := json.Unmarshal(e.Message, &text); err != nil {
		text = string(e.Message)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, text)
}

// TransportError is returned when no usable response reached the proxy:
// DNS failures, refused connections, timeouts, cancellation, or a 2xx body
// that could not be read as a JSON object.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
