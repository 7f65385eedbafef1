// Package fogswaptest runs an in-process fake of the Fogswap API for tests.
package fogswaptest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// APIPrefix is the version prefix the fake serves under
const APIPrefix = "/v1"

// Request is a request recorded by the fake server
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   map[string]interface{}
}

type response struct {
	status int
	body   string
}

// Server is a fake Fogswap API. Responses are registered per method and
// path; unregistered routes answer 404 with an error envelope.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]response
	requests  []Request
}

// New starts a fake server. Call Close when done.
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{responses: make(map[string]response)}

	router := gin.New()
	router.NoRoute(s.handle)
	s.Server = httptest.NewServer(router)

	return s
}

// BaseURL returns the URL a client should be configured with
func (s *Server) BaseURL() string {
	return s.URL + APIPrefix
}

// Respond registers a raw JSON body for method and path (relative to the
// API prefix, e.g. "transaction/quote")
func (s *Server) Respond(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[routeKey(method, APIPrefix+"/"+strings.TrimLeft(path, "/"))] = response{status: status, body: body}
}

// RespondResult wraps result in a success envelope
func (s *Server) RespondResult(method, path string, result interface{}) {
	data, err := json.Marshal(map[string]interface{}{"result": result, "error": nil})
	if err != nil {
		panic(err)
	}
	s.Respond(method, path, http.StatusOK, string(data))
}

// RespondError registers an error envelope with the given message
func (s *Server) RespondError(method, path string, status int, message string) {
	data, err := json.Marshal(map[string]interface{}{
		"result": nil,
		"error":  map[string]string{"message": message},
	})
	if err != nil {
		panic(err)
	}
	s.Respond(method, path, status, string(data))
}

// Requests returns all recorded requests in arrival order
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) handle(c *gin.Context) {
	recorded := Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
		Header: c.Request.Header.Clone(),
	}

	if raw, err := c.GetRawData(); err == nil && len(raw) > 0 {
		var body map[string]interface{}
		if err := json.Unmarshal(raw, &body); err == nil {
			recorded.Body = body
		}
	}

	s.mu.Lock()
	s.requests = append(s.requests, recorded)
	resp, ok := s.responses[routeKey(c.Request.Method, c.Request.URL.Path)]
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"result": nil,
			"error":  gin.H{"message": "route not found"},
		})
		return
	}

	c.Data(resp.status, "application/json", []byte(resp.body))
}

func routeKey(method, path string) string {
	return method + " " + path
}
