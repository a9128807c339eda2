package restapi

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the outcome of one logical call, including all its retries.
// A Response is always returned, whether or not the call succeeded.
type Response struct {
	Method     string
	RequestURI string

	HTTPStatus int
	Header     http.Header
	Body       []byte

	// IsExpectedSuccess is true when HTTPStatus is one of the codes the caller declared.
	IsExpectedSuccess bool
	// WasException is true when no HTTP response was obtained; Err holds the cause.
	WasException     bool
	ExceptionMessage string
	// Err is also set without WasException when a received response could not be used.
	Err error

	Attempts int
}

func (r *Response) HasBody() bool {
	return len(r.Body) > 0
}

// Unmarshal decodes the body into v.
func (r *Response) Unmarshal(v any) error {
	if !r.HasBody() {
		return fmt.Errorf("%s %s: empty response body", r.Method, redactQuery(r.RequestURI))
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", r.Method, redactQuery(r.RequestURI), err)
	}
	return nil
}

// AsError is nil for expected responses, a *TransportError when the call never got a
// response, Err when a received response was rejected, and a *ResponseError otherwise.
func (r *Response) AsError() error {
	switch {
	case r.IsExpectedSuccess:
		return nil
	case r.WasException:
		return &TransportError{Method: r.Method, RequestURI: r.RequestURI, Attempts: r.Attempts, Err: r.Err}
	case r.Err != nil:
		return r.Err
	default:
		return newResponseError(r)
	}
}

// Decode returns the body as T when the response is expected, or the error from AsError.
func Decode[T any](response *Response) (T, error) {
	var value T
	if err := response.AsError(); err != nil {
		return value, err
	}
	if !response.HasBody() {
		return value, nil
	}
	err := response.Unmarshal(&value)
	return value, err
}

// Found is for calls that list 404 among their expected codes, such as DELETE and HEAD.
// It reports false for 404 and true for any other expected status.
func (r *Response) Found() (bool, error) {
	if err := r.AsError(); err != nil {
		return false, err
	}
	return r.HTTPStatus != http.StatusNotFound, nil
}
