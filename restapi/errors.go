package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrTooManyPages    = errors.New("continuation page limit reached")
	ErrForeignNextLink = errors.New("nextLink points at a different host")
)

// ArgumentError is returned before any request is sent when a required parameter is missing or invalid.
type ArgumentError struct {
	Name   string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Name, e.Reason)
}

// ErrorDetail mirrors the ARM error body: {"error": {"code": ..., "message": ..., "details": [...]}}.
type ErrorDetail struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Target  string        `json:"target,omitempty"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type errorBody struct {
	Error *ErrorDetail `json:"error"`
}

// ResponseError is a response whose status was not in the expected set.
type ResponseError struct {
	Method     string
	RequestURI string
	StatusCode int
	Detail     *ErrorDetail
	Body       []byte
}

func newResponseError(response *Response) *ResponseError {
	responseError := &ResponseError{
		Method:     response.Method,
		RequestURI: response.RequestURI,
		StatusCode: response.HTTPStatus,
		Body:       response.Body,
	}

	var body errorBody
	if len(response.Body) > 0 && json.Unmarshal(response.Body, &body) == nil && body.Error != nil {
		responseError.Detail = body.Error
	}
	return responseError
}

func (e *ResponseError) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%s %s: unexpected status %d %s", e.Method, redactQuery(e.RequestURI), e.StatusCode, http.StatusText(e.StatusCode))
	if e.Detail != nil {
		fmt.Fprintf(&builder, " (%s: %s)", e.Detail.Code, e.Detail.Message)
	}
	return builder.String()
}

func (e *ResponseError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// TransportError is a request that never produced an HTTP response.
type TransportError struct {
	Method     string
	RequestURI string
	Attempts   int
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s failed after %d attempt(s): %v", e.Method, redactQuery(e.RequestURI), e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ContinuationError is a list read abandoned after an HTTP response was received: a page that
// did not decode, the page limit, or a nextLink that could not be followed.
type ContinuationError struct {
	Method     string
	RequestURI string
	StatusCode int
	Page       int
	Err        error
}

func (e *ContinuationError) Error() string {
	return fmt.Sprintf("%s %s: page %d: %v", e.Method, redactQuery(e.RequestURI), e.Page, e.Err)
}

func (e *ContinuationError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is an ARM 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func redactQuery(uri string) string {
	if index := strings.IndexByte(uri, '?'); index >= 0 {
		return uri[:index]
	}
	return uri
}
