// Package fakecrm provides a fake CRM XML API server for tests.
//
// It answers <base>/<module>/<action> calls with stubbed XML bodies and keeps
// every request it receives so tests can assert on the parameters a client
// sent. Stubs are matched by module and action and optionally by the query
// parameters, in the order they were added.
//
// Failures can be injected per stub: a delayed reply, or a connection that is
// closed before any reply is written.
package fakecrm

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rubyzoho/zohocrm.go/pkg/codec"
)

// BasePath is where the fake API is mounted, mirroring the real service.
const BasePath = "/crm/private/xml"

// NotStubbed is the body returned for calls no stub matches.
const NotStubbed = `<?xml version="1.0" encoding="UTF-8" ?>
<response><error><code>4600</code><message>Unable to process your request. Please verify whether you have entered proper method name, parameter and parameter values.</message></error></response>`

// FailureType represents the type of failure to inject while answering.
type FailureType string

const (
	// FailureNone indicates no failure injection
	FailureNone FailureType = "none"
	// FailureResponseDelay sleeps for Delay before replying
	FailureResponseDelay FailureType = "response_delay"
	// FailureConnectionDrop closes the connection without replying
	FailureConnectionDrop FailureType = "connection_drop"
)

// RequestMatcher selects the calls a stub answers.
type RequestMatcher struct {
	Module string
	Action string
	// Matcher is an optional check on the query parameters.
	// If nil, module and action alone decide.
	Matcher func(params url.Values) bool
}

// StubResponse is a canned reply for matching calls.
type StubResponse struct {
	Matcher RequestMatcher
	// Status defaults to 200.
	Status  int
	Body    string
	Failure FailureType
	Delay   time.Duration
}

// Request is a call the server received.
type Request struct {
	Method string
	Module string
	Action string
	Params url.Values
}

type Server struct {
	srv *httptest.Server

	mu       sync.RWMutex
	stubs    []StubResponse
	requests []Request
}

// NewServer starts a fake server on a loopback port. Close it when done.
func NewServer() *Server {
	s := &Server{}

	r := chi.NewRouter()
	r.Route(BasePath, func(r chi.Router) {
		r.Get("/{module}/{action}", s.handle)
		r.Post("/{module}/{action}", s.handle)
	})
	s.srv = httptest.NewServer(r)

	return s
}

// URL returns the base URL a client should be configured with.
func (s *Server) URL() string {
	return s.srv.URL + BasePath
}

// Client returns an HTTP client wired to the server.
func (s *Server) Client() *http.Client {
	return s.srv.Client()
}

func (s *Server) Close() {
	s.srv.Close()
}

// AddStubResponse adds a stub. Stubs are matched in the order they were added.
func (s *Server) AddStubResponse(stub StubResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stubs = append(s.stubs, stub)
}

// Stub answers every module/action call with status and body.
func (s *Server) Stub(module, action string, status int, body string) {
	s.AddStubResponse(StubResponse{
		Matcher: MatchAction(module, action),
		Status:  status,
		Body:    body,
	})
}

// Requests returns a copy of the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent call, or false when there was none.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	req := Request{
		Method: r.Method,
		Module: chi.URLParam(r, "module"),
		Action: chi.URLParam(r, "action"),
		Params: r.URL.Query(),
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	var matched *StubResponse
	for i := range s.stubs {
		if s.stubs[i].Matcher.matches(req) {
			matched = &s.stubs[i]
			break
		}
	}
	s.mu.Unlock()

	if matched == nil {
		writeXML(w, http.StatusOK, NotStubbed)
		return
	}

	switch matched.Failure {
	case FailureResponseDelay:
		select {
		case <-time.After(matched.Delay):
		case <-r.Context().Done():
			return
		}
	case FailureConnectionDrop:
		if hj, ok := w.(http.Hijacker); ok {
			if conn, _, err := hj.Hijack(); err == nil {
				_ = conn.Close()
				return
			}
		}
		panic(http.ErrAbortHandler)
	}

	status := matched.Status
	if status == 0 {
		status = http.StatusOK
	}
	writeXML(w, status, matched.Body)
}

func writeXML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/xml;charset=UTF-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (m RequestMatcher) matches(req Request) bool {
	if m.Module != req.Module || m.Action != req.Action {
		return false
	}
	return m.Matcher == nil || m.Matcher(req.Params)
}

// MatchAction creates a RequestMatcher that matches by module and action only.
func MatchAction(module, action string) RequestMatcher {
	return RequestMatcher{Module: module, Action: action}
}

// MatchParam creates a RequestMatcher that also requires params[key] == value.
func MatchParam(module, action, key, value string) RequestMatcher {
	return RequestMatcher{
		Module: module,
		Action: action,
		Matcher: func(params url.Values) bool {
			return params.Get(key) == value
		},
	}
}

// Rows wraps rows in a list/search reply for module.
func Rows(module string, rows ...string) string {
	tag := codec.RootTag(module)
	body := `<?xml version="1.0" encoding="UTF-8" ?><response uri="` + BasePath + "/" + tag + `"><result><` + tag + `>`
	for _, r := range rows {
		body += r
	}
	return body + `</` + tag + `></result></response>`
}

// Error is a 2xx reply carrying a service error code.
func Error(code, message string) string {
	return `<?xml version="1.0" encoding="UTF-8" ?><response><error><code>` + code + `</code><message>` + message + `</message></error></response>`
}

// NoData is the reply the service gives when a query matches nothing.
func NoData() string {
	return `<?xml version="1.0" encoding="UTF-8" ?><response><nodata><code>4422</code><message>There is no data to show</message></nodata></response>`
}
