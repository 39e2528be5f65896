package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/raftlab/userdir/internal/model"
)

// FakeDirectory is an in-process stand-in for the upstream user API.
type FakeDirectory struct {
	Server *httptest.Server

	mu       sync.Mutex
	users    []model.User
	perPage  int
	failures map[string]int // request URI -> status to answer with
	bodies   map[string]string
	requests []*http.Request
}

// NewFakeDirectory starts a fake API serving users perPage at a time.
// The server is closed when the test ends.
func NewFakeDirectory(t testing.TB, users []model.User, perPage int) *FakeDirectory {
	t.Helper()

	if perPage <= 0 {
		perPage = 6
	}
	f := &FakeDirectory{
		users:    users,
		perPage:  perPage,
		failures: make(map[string]int),
		bodies:   make(map[string]string),
	}

	r := chi.NewRouter()
	r.Use(f.record)
	r.Get("/api/users", f.list)
	r.Get("/api/users/{id}", f.get)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)

	return f
}

// BaseURL returns the API root, without a trailing slash.
func (f *FakeDirectory) BaseURL() string {
	return f.Server.URL + "/api"
}

// FailWith makes requests for uri (e.g. "/api/users?page=2") answer status.
func (f *FakeDirectory) FailWith(uri string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[uri] = status
}

// RespondWith makes requests for uri answer 200 with a raw body.
func (f *FakeDirectory) RespondWith(uri, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[uri] = body
}

// Requests returns the number of requests served so far.
func (f *FakeDirectory) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// RequestURIs returns the request URIs in arrival order.
func (f *FakeDirectory) RequestURIs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	uris := make([]string, 0, len(f.requests))
	for _, r := range f.requests {
		uris = append(uris, r.URL.RequestURI())
	}
	return uris
}

// Headers returns the header values seen for key, in arrival order.
func (f *FakeDirectory) Headers(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := make([]string, 0, len(f.requests))
	for _, r := range f.requests {
		values = append(values, r.Header.Get(key))
	}
	return values
}

func (f *FakeDirectory) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Clone(r.Context()))
		status, fail := f.failures[r.URL.RequestURI()]
		body, raw := f.bodies[r.URL.RequestURI()]
		f.mu.Unlock()

		switch {
		case fail:
			writeJSON(w, status, map[string]string{"error": http.StatusText(status)})
		case raw:
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (f *FakeDirectory) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{})
		return
	}

	for _, u := range f.users {
		if u.ID == id {
			writeJSON(w, http.StatusOK, map[string]any{"data": toAPIUser(u)})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{})
}

func (f *FakeDirectory) list(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	totalPages := (len(f.users) + f.perPage - 1) / f.perPage
	data := make([]model.APIUser, 0, f.perPage)
	for i := (page - 1) * f.perPage; i < page*f.perPage && i < len(f.users); i++ {
		data = append(data, toAPIUser(f.users[i]))
	}

	writeJSON(w, http.StatusOK, model.APIUserListResponse{
		Page:       page,
		PerPage:    f.perPage,
		Total:      len(f.users),
		TotalPages: totalPages,
		Data:       data,
	})
}

func toAPIUser(u model.User) model.APIUser {
	return model.APIUser{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    u.Avatar,
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
