// Package apitest provides a programmable fake of the conversion API for
// tests. Requests are routed with chi on the same path layout as the
// real service: /api/{direction}/{year}/{month}/{day}.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
)

// Date mirrors the API's result object.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Request is a parsed conversion request as seen by the server.
type Request struct {
	Direction string
	Date      Date
	Header    http.Header
}

// Response is what a [Handler] wants written back.
type Response struct {
	Status int    // HTTP status, 0 means 200
	Result *Date  // written as "result" with success=true when non-nil
	Error  string // written as "error" with success=false when Result is nil
	Raw    string // written verbatim when non-empty
}

// Handler decides the response for one request.
type Handler func(Request) Response

// Server is a running fake API.
type Server struct {
	*httptest.Server

	calls atomic.Int64

	mu       sync.Mutex
	handler  Handler
	requests []Request
}

// New starts a fake API answering with h. Close it when done.
func New(h Handler) *Server {
	s := &Server{handler: h}

	r := chi.NewRouter()
	r.Get("/api/{direction}/{year}/{month}/{day}", s.serveConvert)
	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL is the value to pass as the client base URL.
func (s *Server) BaseURL() string { return s.URL + "/api" }

// Calls returns how many conversion requests reached the server.
func (s *Server) Calls() int { return int(s.calls.Load()) }

// Requests returns a copy of every request received, in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// SetHandler swaps the response logic.
func (s *Server) SetHandler(h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

func (s *Server) serveConvert(w http.ResponseWriter, r *http.Request) {
	s.calls.Add(1)

	req := Request{Direction: chi.URLParam(r, "direction"), Header: r.Header.Clone()}
	var err error
	if req.Date.Year, err = strconv.Atoi(chi.URLParam(r, "year")); err == nil {
		if req.Date.Month, err = strconv.Atoi(chi.URLParam(r, "month")); err == nil {
			req.Date.Day, err = strconv.Atoi(chi.URLParam(r, "day"))
		}
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	h := s.handler
	s.mu.Unlock()

	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Invalid date format"})
		return
	}

	resp := h(req)
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	if resp.Raw != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp.Raw))
		return
	}
	if resp.Result != nil {
		writeJSON(w, status, map[string]any{"success": true, "result": resp.Result})
		return
	}
	writeJSON(w, status, map[string]any{"success": false, "error": resp.Error})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Fixed answers every request with the same result.
func Fixed(result Date) Handler {
	return func(Request) Response { return Response{Result: &result} }
}

// Echo answers with the request date shifted by a constant offset, which
// gives distinct, predictable results per input without a calendar table.
func Echo(yearOffset int) Handler {
	return func(r Request) Response {
		d := Date{Year: r.Date.Year + yearOffset, Month: r.Date.Month, Day: r.Date.Day}
		return Response{Result: &d}
	}
}

// Status answers every request with an empty body and the given status.
func Status(code int) Handler {
	return func(Request) Response { return Response{Status: code, Raw: "{}"} }
}

// APIError answers every request with HTTP 200 and success=false.
func APIError(msg string) Handler {
	return func(Request) Response { return Response{Error: msg} }
}
