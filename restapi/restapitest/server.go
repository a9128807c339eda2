// Package restapitest runs an in-process stand-in for Resource Manager.
package restapitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/sujayvsarma/armclient/restapi"
)

// Call records one request received by the Server.
type Call struct {
	Method     string
	Path       string
	APIVersion string
	Query      url.Values
	Header     http.Header
	Body       string
}

// Route answers requests for one method and path.
type Route struct {
	Status   int
	Body     any
	Location string
}

// Server routes requests by "METHOD /path" (path compared case-insensitively) and records them.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]Route
	calls  []Call
}

func NewServer(t *testing.T) *Server {
	t.Helper()
	server := &Server{routes: map[string]Route{}}
	server.Server = httptest.NewServer(http.HandlerFunc(server.serve))
	t.Cleanup(server.Close)
	return server
}

// Handle registers the answer for method and path. Body is written as JSON unless it is a string.
func (server *Server) Handle(method string, path string, status int, body any) {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.routes[routeKey(method, path)] = Route{Status: status, Body: body}
}

// Redirect answers method and path with a 302 pointing at location.
func (server *Server) Redirect(method string, path string, location string) {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.routes[routeKey(method, path)] = Route{Status: http.StatusFound, Location: location}
}

// Calls returns the requests received so far.
func (server *Server) Calls() []Call {
	server.mu.Lock()
	defer server.mu.Unlock()
	return append([]Call(nil), server.calls...)
}

// LastCall returns the most recent request, or an empty Call.
func (server *Server) LastCall() Call {
	calls := server.Calls()
	if len(calls) == 0 {
		return Call{}
	}
	return calls[len(calls)-1]
}

// Client returns a restapi.Client pointed at the server with retries disabled.
func (server *Server) Client() *restapi.Client {
	retry := restapi.NoRetry()
	return restapi.NewClient(restapi.StaticToken("test-token"), &restapi.ClientOptions{
		Endpoint:  server.URL,
		Transport: server.Server.Client(),
		Retry:     &retry,
	}, nil)
}

func (server *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	server.mu.Lock()
	server.calls = append(server.calls, Call{
		Method:     r.Method,
		Path:       r.URL.Path,
		APIVersion: r.URL.Query().Get("api-version"),
		Query:      r.URL.Query(),
		Header:     r.Header.Clone(),
		Body:       string(body),
	})
	route, ok := server.routes[routeKey(r.Method, r.URL.Path)]
	server.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NotFound","message":"no route"}}`))
		return
	}

	if route.Location != "" {
		w.Header().Set("Location", route.Location)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(route.Status)
	switch body := route.Body.(type) {
	case nil:
	case string:
		_, _ = w.Write([]byte(body))
	default:
		_ = json.NewEncoder(w).Encode(body)
	}
}

func routeKey(method string, path string) string {
	return strings.ToUpper(method) + " " + strings.ToLower(path)
}
