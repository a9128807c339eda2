package restapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/sirupsen/logrus"
)

const (
	moduleName    = "armclient"
	moduleVersion = "v1.0.0"

	DefaultTimeout = 15 * time.Second
)

type ClientOptions struct {
	// Cloud selects the Resource Manager endpoint when Endpoint is empty.
	Cloud cloud.Configuration
	// Endpoint overrides the Resource Manager endpoint, e.g. for a test server.
	Endpoint string
	// Timeout applies to each attempt. Zero means DefaultTimeout.
	Timeout time.Duration
	// Retry defaults to DefaultRetryPolicy.
	Retry *RetryPolicy
	// Transport replaces the azcore default HTTP client.
	Transport policy.Transporter
	Metrics   *Metrics
}

// Request describes one call. URL is either absolute or a path relative to the client endpoint.
type Request struct {
	URL        string
	APIVersion string
	Query      map[string]string
	Headers    map[string]string
	// Body is serialised as JSON when not nil.
	Body any
	// ExpectedSuccessCodes defaults to {200}.
	ExpectedSuccessCodes mapset.Set[int]
	// Timeout overrides the client timeout for this call.
	Timeout time.Duration
}

// Client sends ARM requests through an azcore pipeline and wraps every outcome in a Response.
type Client struct {
	Endpoint string
	Timeout  time.Duration
	Retry    RetryPolicy
	Logger   *logrus.Logger

	pipeline runtime.Pipeline
	metrics  *Metrics
}

func NewClient(tokens TokenSource, options *ClientOptions, logger *logrus.Logger) *Client {
	if options == nil {
		options = &ClientOptions{}
	}

	endpoint := strings.TrimSuffix(options.Endpoint, "/")
	if endpoint == "" {
		endpoint = EndpointForCloud(options.Cloud)
	}
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retry := DefaultRetryPolicy()
	if options.Retry != nil {
		retry = *options.Retry
	}

	perRetry := []policy.Policy{}
	if tokens != nil {
		perRetry = append(perRetry, &bearerPolicy{source: tokens})
	}
	if options.Metrics != nil {
		perRetry = append(perRetry, &metricsPolicy{metrics: options.Metrics})
	}

	pipeline := runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{PerRetry: perRetry}, &policy.ClientOptions{
		Transport: options.Transport,
		// Attempts are driven by RetryPolicy in send.
		Retry: policy.RetryOptions{MaxRetries: -1},
	})

	return &Client{
		Endpoint: endpoint,
		Timeout:  timeout,
		Retry:    retry,
		Logger:   LoggerOrDiscard(logger),
		pipeline: pipeline,
		metrics:  options.Metrics,
	}
}

// LoggerOrDiscard returns logger, or a logger writing nowhere when logger is nil.
func LoggerOrDiscard(logger *logrus.Logger) *logrus.Logger {
	if logger != nil {
		return logger
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return discard
}

// Expect builds an expected status code set.
func Expect(codes ...int) mapset.Set[int] {
	return mapset.NewSet(codes...)
}

func (client *Client) GET(ctx context.Context, request Request) *Response {
	return client.send(ctx, http.MethodGet, request, true)
}

// GETWithoutAuthentication is GET without the Authorization header, for public endpoints.
func (client *Client) GETWithoutAuthentication(ctx context.Context, request Request) *Response {
	return client.send(ctx, http.MethodGet, request, false)
}

func (client *Client) POST(ctx context.Context, request Request) *Response {
	return client.send(ctx, http.MethodPost, request, true)
}

func (client *Client) PUT(ctx context.Context, request Request) *Response {
	return client.send(ctx, http.MethodPut, request, true)
}

func (client *Client) PATCH(ctx context.Context, request Request) *Response {
	return client.send(ctx, http.MethodPatch, request, true)
}

func (client *Client) DELETE(ctx context.Context, request Request) *Response {
	return client.send(ctx, http.MethodDelete, request, true)
}

func (client *Client) HEAD(ctx context.Context, request Request) *Response {
	return client.send(ctx, http.MethodHead, request, true)
}

func (client *Client) send(ctx context.Context, method string, request Request, authenticate bool) *Response {
	uri, err := client.resolve(request)
	response := &Response{Method: method, RequestURI: uri}
	if err != nil {
		return response.fail(err)
	}

	expected := request.ExpectedSuccessCodes
	if expected == nil || expected.Cardinality() == 0 {
		expected = Expect(http.StatusOK)
	}
	timeout := request.Timeout
	if timeout <= 0 {
		timeout = client.Timeout
	}

	var lastErr error
	for attempt := 1; attempt <= client.Retry.attempts(); attempt++ {
		if attempt > 1 {
			client.metrics.observeRetry()
			wait := client.Retry.delay(attempt)
			client.Logger.Debugf("Retrying %s %s in %s (attempt %d): %v", method, redactQuery(uri), wait, attempt, lastErr)
			if err := sleep(ctx, wait); err != nil {
				lastErr = err
				break
			}
		}
		response.Attempts = attempt

		client.Logger.Tracef("%s %s", method, uri)
		httpResponse, body, err := client.do(ctx, method, uri, request, authenticate, timeout)
		if err == nil {
			response.HTTPStatus = httpResponse.StatusCode
			response.Header = httpResponse.Header
			response.Body = body
			response.IsExpectedSuccess = expected.Contains(httpResponse.StatusCode)
			if !response.IsExpectedSuccess {
				client.Logger.Debugf("%s %s returned unexpected status %d", method, redactQuery(uri), httpResponse.StatusCode)
			}
			return response
		}

		lastErr = err
		if ctx.Err() != nil || !client.Retry.shouldRetry(err) {
			break
		}
	}

	client.Logger.Warnf("%s %s failed after %d attempt(s): %v", method, redactQuery(uri), response.Attempts, lastErr)
	return response.fail(lastErr)
}

func (client *Client) do(ctx context.Context, method string, uri string, request Request, authenticate bool, timeout time.Duration) (*http.Response, []byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := runtime.NewRequest(attemptCtx, method, uri)
	if err != nil {
		return nil, nil, err
	}
	if !authenticate {
		req.SetOperationValue(skipAuthentication{})
	}
	req.Raw().Header.Set("Accept", "application/json")
	for name, value := range request.Headers {
		req.Raw().Header.Set(name, value)
	}
	if request.Body != nil {
		if err := runtime.MarshalAsJSON(req, request.Body); err != nil {
			return nil, nil, err
		}
	}

	resp, err := client.pipeline.Do(req)
	if err != nil {
		return nil, nil, err
	}
	body, err := runtime.Payload(resp)
	if err != nil {
		return nil, nil, err
	}
	return resp, body, nil
}

// resolve joins a relative URL with the endpoint and appends api-version and the query parameters.
func (client *Client) resolve(request Request) (string, error) {
	if strings.TrimSpace(request.URL) == "" {
		return "", &ArgumentError{Name: "URL", Reason: "value is required"}
	}

	raw := request.URL
	if !strings.HasPrefix(raw, "https://") && !strings.HasPrefix(raw, "http://") {
		raw = client.Endpoint + "/" + strings.TrimPrefix(raw, "/")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("restapi.resolve: parsing %q: %w", request.URL, err)
	}
	if request.APIVersion == "" && len(request.Query) == 0 {
		return parsed.String(), nil
	}

	query := parsed.Query()
	if request.APIVersion != "" {
		query.Set("api-version", request.APIVersion)
	}
	for key, value := range request.Query {
		query.Set(key, value)
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (r *Response) fail(err error) *Response {
	r.WasException = true
	r.Err = err
	if err != nil {
		r.ExceptionMessage = err.Error()
	}
	return r
}
