// Package swapitest provides an in-process fake of the remote Star Wars API for tests.
package swapitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/myrjola/holocron/internal/models"
)

// DefaultPageSize is used when the request has no limit parameter.
const DefaultPageSize = 10

// Request is a request received by the fake.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// ChatRequest is the decoded body of a chat request.
type ChatRequest struct {
	Message          string               `json:"message"`
	PreviousMessages []models.ChatMessage `json:"previousMessages"`
}

// ChatFunc produces the reply of a character. A non-zero status makes the fake answer with an error body carrying
// reply as its message.
type ChatFunc func(character models.Character, req ChatRequest) (reply string, status int)

type failure struct {
	status int
	body   any
}

// Server is the fake API. The zero value is not usable, create one with New.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
	failures map[string]failure
	delays   map[string]time.Duration
	chat     ChatFunc
}

// New starts a fake API that is closed when the test finishes.
func New(tb testing.TB) *Server {
	tb.Helper()
	s := &Server{
		Server:   nil,
		mu:       sync.Mutex{},
		requests: nil,
		failures: make(map[string]failure),
		delays:   make(map[string]time.Duration),
		chat:     EchoChat,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /characters", listHandler(characters, characterFields))
	mux.HandleFunc("GET /characters/{id}", getHandler(characters, func(c models.Character) int { return c.EntityID() }))
	mux.HandleFunc("POST /characters/{id}/chat", s.chatHandler)
	mux.HandleFunc("GET /films", listHandler(films, filmFields))
	mux.HandleFunc("GET /films/{id}", getHandler(films, func(f models.Film) int { return f.EntityID() }))
	mux.HandleFunc("GET /planets", listHandler(planets, planetFields))
	mux.HandleFunc("GET /planets/{id}", getHandler(planets, func(p models.Planet) int { return p.EntityID() }))
	mux.HandleFunc("GET /starships", listHandler(starships, starshipFields))
	mux.HandleFunc("GET /starships/{id}", getHandler(starships, func(st models.Starship) int { return st.EntityID() }))
	s.Server = httptest.NewServer(s.record(mux))
	tb.Cleanup(s.Close)
	return s
}

// EchoChat is the default ChatFunc. The character repeats the message back.
func EchoChat(character models.Character, req ChatRequest) (string, int) {
	return fmt.Sprintf("%s hears you: %s", character.Name, req.Message), 0
}

// SetChat replaces the function answering chat requests.
func (s *Server) SetChat(fn ChatFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = fn
}

// Fail makes every request to path answer with status and body encoded as JSON. A nil body sends no body at all.
func (s *Server) Fail(path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = failure{status: status, body: body}
}

// Recover undoes Fail for path.
func (s *Server) Recover(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, path)
}

// Delay holds every response to path for d or until the client goes away.
func (s *Server) Delay(path string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[path] = d
}

// Requests returns a copy of the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns the received requests whose path equals path.
func (s *Server) RequestsTo(path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Characters returns the character fixtures.
func Characters() []models.Character {
	out := make([]models.Character, len(characters))
	copy(out, characters)
	return out
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Body:   body,
		})
		f, failing := s.failures[r.URL.Path]
		delay := s.delays[r.URL.Path]
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			writeJSON(w, f.status, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Message string `json:"message"`
}

func listHandler[T any](records []T, fields func(T) map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, limit := 1, DefaultPageSize
		var err error
		if v := q.Get("page"); v != "" {
			if page, err = strconv.Atoi(v); err != nil || page < 1 {
				writeJSON(w, http.StatusBadRequest, errorBody{Message: "page must be a positive integer"})
				return
			}
		}
		if v := q.Get("limit"); v != "" {
			if limit, err = strconv.Atoi(v); err != nil || limit < 1 {
				writeJSON(w, http.StatusBadRequest, errorBody{Message: "limit must be a positive integer"})
				return
			}
		}

		var matched []T
		for _, record := range records {
			if matches(fields(record), q) {
				matched = append(matched, record)
			}
		}

		totalPages := (len(matched) + limit - 1) / limit
		if totalPages == 0 {
			totalPages = 1
		}
		start := min((page-1)*limit, len(matched))
		end := min(start+limit, len(matched))
		data := matched[start:end]
		if data == nil {
			data = []T{}
		}
		writeJSON(w, http.StatusOK, models.Page[T]{
			Data: data,
			Meta: models.Meta{Total: len(matched), CurrentPage: page, TotalPages: totalPages, Limit: limit},
		})
	}
}

// matches applies search as a case-insensitive substring match on the name. Every other known query key is a
// filter that must equal one of the comma separated values of the field.
func matches(fields map[string]string, q url.Values) bool {
	for key, values := range q {
		field, ok := fields[key]
		if !ok {
			continue
		}
		for _, v := range values {
			if key == "search" {
				if !strings.Contains(strings.ToLower(field), strings.ToLower(v)) {
					return false
				}
				continue
			}
			if !hasToken(field, v) {
				return false
			}
		}
	}
	return true
}

func hasToken(field, value string) bool {
	for _, token := range strings.Split(field, ",") {
		if strings.EqualFold(strings.TrimSpace(token), value) {
			return true
		}
	}
	return false
}

func getHandler[T any](records []T, id func(T) int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		want, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Message: "id must be an integer"})
			return
		}
		for _, record := range records {
			if id(record) == want {
				writeJSON(w, http.StatusOK, record)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, errorBody{Message: "Not found"})
	}
}

func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	want, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "id must be an integer"})
		return
	}
	var req ChatRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "invalid chat request"})
		return
	}
	for _, c := range characters {
		if c.EntityID() != want {
			continue
		}
		s.mu.Lock()
		chat := s.chat
		s.mu.Unlock()
		reply, status := chat(c, req)
		if status != 0 {
			writeJSON(w, status, errorBody{Message: reply})
			return
		}
		writeJSON(w, http.StatusOK, models.ChatReply{Response: reply})
		return
	}
	writeJSON(w, http.StatusNotFound, errorBody{Message: "Character not found"})
}

func characterFields(c models.Character) map[string]string {
	return map[string]string{"search": c.Name, "gender": c.Gender}
}

func filmFields(f models.Film) map[string]string {
	return map[string]string{"search": f.Title, "director": f.Director}
}

func planetFields(p models.Planet) map[string]string {
	return map[string]string{"search": p.Name, "climate": p.Climate, "terrain": p.Terrain}
}

func starshipFields(s models.Starship) map[string]string {
	return map[string]string{"search": s.Name, "starship_class": s.StarshipClass}
}
