package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	Op         string
	StatusCode int
	Status     string
	// Message is the "error" field of a JSON error body, or "" when the body
	// carried none.
	Message string
	// Body is the raw response text.
	Body string
	// JSON reports whether Body parsed as a JSON object.
	JSON bool
}

func (e *APIError) Error() string {
	if e == nil {
		return "api: <nil>"
	}
	detail := e.Message
	if detail == "" && !e.JSON {
		detail = strings.TrimSpace(e.Body)
	}
	if detail == "" {
		detail = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("api: %s: %d %s", e.Op, e.StatusCode, detail)
}

// TransportError wraps failures that happened before a response arrived:
// connection errors, timeouts, context cancellation or an unreadable body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "api: <nil>"
	}
	return fmt.Sprintf("api: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ContractError reports a request body rejected by the embedded REST
// contract. No request was sent.
type ContractError struct {
	Op  string
	Err error
}

func (e *ContractError) Error() string {
	if e == nil {
		return "api: <nil>"
	}
	return fmt.Sprintf("api: %s: request violates contract: %v", e.Op, e.Err)
}

func (e *ContractError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ErrorMessage picks the text a user should see for err. A server-provided
// message wins; otherwise fallback is used, or err's own text when fallback
// is empty.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}

// Detail returns the most specific description of err: the server message,
// then the raw error body when it is not JSON, then the HTTP status.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if body := strings.TrimSpace(apiErr.Body); body != "" && !apiErr.JSON {
			return body
		}
		if apiErr.Status != "" {
			return apiErr.Status
		}
		return http.StatusText(apiErr.StatusCode)
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) && transportErr.Err != nil {
		return transportErr.Err.Error()
	}
	return err.Error()
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsNotFound reports whether the server answered 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
