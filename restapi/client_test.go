package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, options *ClientOptions) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	if options == nil {
		options = &ClientOptions{}
	}
	options.Endpoint = server.URL
	options.Transport = server.Client()
	return NewClient(StaticToken("test-token"), options, nil)
}

type failingTransport struct {
	calls atomic.Int32
	err   error
}

func (transport *failingTransport) Do(*http.Request) (*http.Response, error) {
	transport.calls.Add(1)
	return nil, transport.err
}

func TestClient_ExpectedNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, nil)

	response := client.DELETE(context.Background(), Request{
		URL:                  "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/resourcegroups/rg1",
		APIVersion:           "2021-04-01",
		ExpectedSuccessCodes: Expect(http.StatusNoContent, http.StatusNotFound),
	})

	assert.True(t, response.IsExpectedSuccess)
	assert.False(t, response.WasException)
	assert.Equal(t, http.StatusNotFound, response.HTTPStatus)
	assert.NoError(t, response.AsError())
	assert.Equal(t, 1, response.Attempts)
}

func TestClient_UnexpectedStatusCarriesArmError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"ResourceGroupNotFound","message":"Resource group 'rg1' could not be found."}}`))
	}, nil)

	response := client.GET(context.Background(), Request{URL: "/subscriptions/x/resourcegroups/rg1", APIVersion: "2021-04-01"})
	require.False(t, response.IsExpectedSuccess)

	err := response.AsError()
	var responseError *ResponseError
	require.ErrorAs(t, err, &responseError)
	assert.Equal(t, http.StatusNotFound, responseError.StatusCode)
	require.NotNil(t, responseError.Detail)
	assert.Equal(t, "ResourceGroupNotFound", responseError.Detail.Code)
	assert.True(t, IsNotFound(err))
	assert.NotContains(t, err.Error(), "api-version")
}

func TestClient_SendsApiVersionQueryAndToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions", r.URL.Path)
		assert.Equal(t, "2022-12-01", r.URL.Query().Get("api-version"))
		assert.Equal(t, "tagName eq 'env'", r.URL.Query().Get("$filter"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"value":[]}`))
	}, nil)

	response := client.GET(context.Background(), Request{
		URL:        "subscriptions",
		APIVersion: "2022-12-01",
		Query:      map[string]string{"$filter": "tagName eq 'env'"},
	})
	assert.True(t, response.IsExpectedSuccess)
	assert.True(t, response.HasBody())
}

func TestClient_GETWithoutAuthentication(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}, nil)

	response := client.GETWithoutAuthentication(context.Background(), Request{URL: "/offers"})
	assert.True(t, response.IsExpectedSuccess)
	assert.False(t, response.HasBody())
}

func TestClient_PUTSerialisesBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"location":"westeurope"}`, string(body))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
	}, nil)

	response := client.PUT(context.Background(), Request{
		URL:                  "/subscriptions/x/resourcegroups/rg1",
		APIVersion:           "2021-04-01",
		Body:                 map[string]string{"location": "westeurope"},
		ExpectedSuccessCodes: Expect(http.StatusOK, http.StatusCreated),
	})
	require.True(t, response.IsExpectedSuccess)

	var decoded map[string]string
	require.NoError(t, response.Unmarshal(&decoded))
	assert.Equal(t, "westeurope", decoded["location"])
}

func TestClient_RetryIsBounded(t *testing.T) {
	transport := &failingTransport{err: errors.New("dial tcp: lookup management.azure.com: no such host")}
	client := NewClient(StaticToken("t"), &ClientOptions{
		Endpoint:  "https://management.azure.com",
		Transport: transport,
		Retry:     &RetryPolicy{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 2},
	}, nil)

	response := client.GET(context.Background(), Request{URL: "/subscriptions", APIVersion: "2022-12-01"})

	assert.True(t, response.WasException)
	assert.False(t, response.IsExpectedSuccess)
	assert.Equal(t, 3, response.Attempts)
	assert.EqualValues(t, 3, transport.calls.Load())
	assert.Contains(t, response.ExceptionMessage, "no such host")

	var transportError *TransportError
	require.ErrorAs(t, response.AsError(), &transportError)
	assert.Equal(t, 3, transportError.Attempts)
}

func TestClient_NonTransientErrorIsNotRetried(t *testing.T) {
	transport := &failingTransport{err: errors.New("x509: certificate signed by unknown authority")}
	client := NewClient(StaticToken("t"), &ClientOptions{
		Endpoint:  "https://management.azure.com",
		Transport: transport,
	}, nil)

	response := client.GET(context.Background(), Request{URL: "/subscriptions"})

	assert.True(t, response.WasException)
	assert.Equal(t, 1, response.Attempts)
	assert.EqualValues(t, 1, transport.calls.Load())
}

func TestClient_EmptyTokenFails(t *testing.T) {
	transport := &failingTransport{err: errors.New("unreachable")}
	client := NewClient(StaticToken(""), &ClientOptions{Endpoint: "https://management.azure.com", Transport: transport}, nil)

	response := client.GET(context.Background(), Request{URL: "/subscriptions"})
	assert.True(t, response.WasException)
	assert.ErrorIs(t, response.Err, ErrEmptyToken)
	assert.EqualValues(t, 0, transport.calls.Load())
}

func TestClient_MissingURL(t *testing.T) {
	client := NewClient(StaticToken("t"), nil, nil)

	response := client.GET(context.Background(), Request{})
	var argumentError *ArgumentError
	assert.ErrorAs(t, response.Err, &argumentError)
	assert.Equal(t, 0, response.Attempts)
}

func TestClient_Metrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics, err := NewMetrics(registry)
	require.NoError(t, err)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}, &ClientOptions{Metrics: metrics})

	client.POST(context.Background(), Request{URL: "/providers/Microsoft.Compute/register", ExpectedSuccessCodes: Expect(http.StatusAccepted)})
	client.POST(context.Background(), Request{URL: "/providers/Microsoft.Compute/register", ExpectedSuccessCodes: Expect(http.StatusAccepted)})

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.requests.WithLabelValues(http.MethodPost, "202")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.retries))

	_, err = NewMetrics(registry)
	assert.Error(t, err)
}

func TestGETWithContinuations_TwoPages(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2021-04-01", r.URL.Query().Get("api-version"))
		switch r.URL.Query().Get("$skiptoken") {
		case "":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"value":    []map[string]string{{"name": "a"}, {"name": "b"}},
				"nextLink": server.URL + "/subscriptions/x/resourcegroups?api-version=2021-04-01&$skiptoken=2",
			})
		case "2":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"value": []map[string]string{{"name": "c"}},
			})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer server.Close()

	client := NewClient(StaticToken("t"), &ClientOptions{Endpoint: server.URL, Transport: server.Client()}, nil)

	type item struct {
		Name string `json:"name"`
	}
	values, response := GETWithContinuations[item](context.Background(), client, Request{
		URL:        "/subscriptions/x/resourcegroups",
		APIVersion: "2021-04-01",
	}, nil)

	require.True(t, response.IsExpectedSuccess)
	assert.Equal(t, []item{{"a"}, {"b"}, {"c"}}, values)
	assert.JSONEq(t, `{"value":[{"name":"a"},{"name":"b"},{"name":"c"}]}`, string(response.Body))
}

func TestGETWithContinuations_MaxPages(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"value":    []string{"x"},
			"nextLink": server.URL + "/loop?api-version=1",
		})
	}))
	defer server.Close()

	client := NewClient(StaticToken("t"), &ClientOptions{Endpoint: server.URL, Transport: server.Client()}, nil)
	values, response := GETWithContinuations[string](context.Background(), client, Request{URL: "/loop"}, &ContinuationOptions{MaxPages: 3})

	assert.Nil(t, values)
	assert.False(t, response.IsExpectedSuccess)
	assert.False(t, response.WasException)
	assert.ErrorIs(t, response.Err, ErrTooManyPages)

	err := response.AsError()
	var continuationError *ContinuationError
	require.True(t, errors.As(err, &continuationError))
	assert.Equal(t, 3, continuationError.Page)
	assert.Equal(t, http.StatusOK, continuationError.StatusCode)
	assert.ErrorIs(t, err, ErrTooManyPages)
	var transportError *TransportError
	assert.False(t, errors.As(err, &transportError))
}

func TestGETWithContinuations_MalformedPage(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"value":["a"],"nextLink":"/items?page=2"}`))
			return
		}
		_, _ = w.Write([]byte(`{"value":[`))
	}, nil)

	values, response := GETWithContinuations[string](context.Background(), client, Request{URL: "/items"}, nil)

	assert.Nil(t, values)
	assert.False(t, response.IsExpectedSuccess)
	assert.False(t, response.WasException)
	assert.Empty(t, response.ExceptionMessage)

	var continuationError *ContinuationError
	require.True(t, errors.As(response.AsError(), &continuationError))
	assert.Equal(t, 2, continuationError.Page)
	assert.ErrorContains(t, continuationError, "decoding page")
	var responseError *ResponseError
	assert.False(t, errors.As(response.AsError(), &responseError))
}

func TestGETWithContinuations_RefusesForeignHost(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"value":["x"],"nextLink":"https://attacker.example.com/steal"}`))
	}, nil)

	values, response := GETWithContinuations[string](context.Background(), client, Request{URL: "/items"}, nil)

	assert.Nil(t, values)
	assert.False(t, response.WasException)
	assert.ErrorIs(t, response.Err, ErrForeignNextLink)
	assert.ErrorIs(t, response.AsError(), ErrForeignNextLink)
}

func TestGETWithContinuations_FirstPageFails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, nil)

	values, response := GETWithContinuations[string](context.Background(), client, Request{URL: "/items"}, nil)

	assert.Nil(t, values)
	assert.Equal(t, http.StatusForbidden, response.HTTPStatus)
	assert.False(t, response.WasException)
}

func TestRetryPolicy_Delay(t *testing.T) {
	policy := RetryPolicy{InitialDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, Multiplier: 2}

	assert.Equal(t, time.Duration(0), policy.delay(1))
	assert.Equal(t, 100*time.Millisecond, policy.delay(2))
	assert.Equal(t, 200*time.Millisecond, policy.delay(3))
	assert.Equal(t, 300*time.Millisecond, policy.delay(4))
	assert.Equal(t, 1, RetryPolicy{}.attempts())
}

func TestIsTransientError(t *testing.T) {
	tests := []struct {
		message  string
		expected bool
	}{
		{"dial tcp: lookup x: no such host", true},
		{"net/http: request canceled", true},
		{"context deadline exceeded", true},
		{"read: connection reset by peer", true},
		{"x509: certificate has expired", false},
	}
	for _, test := range tests {
		assert.Equal(t, test.expected, IsTransientError(errors.New(test.message)), test.message)
	}
	assert.False(t, IsTransientError(nil))
}

func TestCloudEndpoints(t *testing.T) {
	assert.Equal(t, "https://management.azure.com", EndpointForCloud(cloud.AzurePublic))
	assert.Equal(t, "https://management.usgovcloudapi.net", EndpointForCloud(cloud.AzureGovernment))
	assert.Equal(t, "https://management.chinacloudapi.cn", EndpointForCloud(cloud.AzureChina))
	assert.Equal(t, "https://management.azure.com", EndpointForCloud(cloud.Configuration{}))

	configuration, err := CloudFromName("AzureUSGovernment")
	require.NoError(t, err)
	assert.Equal(t, cloud.AzureGovernment.ActiveDirectoryAuthorityHost, configuration.ActiveDirectoryAuthorityHost)

	_, err = CloudFromName("moon")
	assert.Error(t, err)

	assert.Equal(t, "https://management.azure.com/.default", DefaultScope("https://management.azure.com/"))
}
