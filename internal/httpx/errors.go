package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
)

// APIError is a non-2xx response from a remote API, with the server's
// payload coerced to displayable text.
type APIError struct {
	Status  int
	Message string
	// Fields holds per-field validation messages from a 422 response.
	Fields map[string][]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// FieldMessages joins every field-level validation message with line
// breaks, in stable field order.
func (e *APIError) FieldMessages() string {
	if len(e.Fields) == 0 {
		return ""
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var msgs []string
	for _, f := range fields {
		msgs = append(msgs, e.Fields[f]...)
	}
	return strings.Join(msgs, "\n")
}

// TransportError is a network-level failure: the request never produced
// an HTTP response.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string { return "could not connect to the server" }
func (e *TransportError) Unwrap() error { return e.Cause }

// IsUnauthorized reports whether err is an HTTP 401 response.
func IsUnauthorized(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusUnauthorized
}

// IsValidation reports whether err is an HTTP 422 response.
func IsValidation(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusUnprocessableEntity
}

// Display converts any request failure to user-facing text. Structured
// payloads are never shown raw: validation errors become their joined
// field messages, everything else falls back to the server message or
// a generic line.
func Display(err error) string {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Error()
	}
	var ae *APIError
	if errors.As(err, &ae) {
		if msgs := ae.FieldMessages(); msgs != "" {
			return msgs
		}
		if ae.Message != "" {
			return ae.Message
		}
	}
	if err != nil {
		return err.Error()
	}
	return "something went wrong"
}

// errorBody matches the common failure payloads of the item API:
// {message}, {error} or {errors: {field: [messages]}}.
type errorBody struct {
	Message json.RawMessage     `json:"message"`
	Err     json.RawMessage     `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

func decodeError(status int, payload []byte) *APIError {
	apiErr := &APIError{Status: status}

	var body errorBody
	if err := json.Unmarshal(payload, &body); err == nil {
		apiErr.Fields = body.Errors
		apiErr.Message = coerceText(body.Message)
		if apiErr.Message == "" {
			apiErr.Message = coerceText(body.Err)
		}
	}
	if apiErr.Message == "" && len(payload) > 0 && payload[0] != '{' {
		apiErr.Message = strings.TrimSpace(string(payload))
	}
	return apiErr
}

// coerceText renders a JSON value as plain text: strings are unquoted,
// structured values keep their JSON form rather than failing.
func coerceText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
