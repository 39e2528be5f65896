package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raftlab/userdir/internal/cache"
	"github.com/raftlab/userdir/internal/directory"
	"github.com/raftlab/userdir/internal/handler/dto"
	"github.com/raftlab/userdir/internal/httpclient"
	"github.com/raftlab/userdir/internal/metrics"
	"github.com/raftlab/userdir/internal/model"
	"github.com/raftlab/userdir/internal/testutil"
)

type stubDirectory struct {
	users []model.User
	err   error
}

func (s *stubDirectory) GetUserByID(_ context.Context, id int) (model.User, error) {
	if s.err != nil {
		return model.User{}, s.err
	}
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, &directory.RequestFailedError{Op: "user fetch", StatusCode: http.StatusNotFound}
}

func (s *stubDirectory) GetAllUsers(context.Context) ([]model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users, nil
}

func newUserRouter(dir UserDirectory) http.Handler {
	h := NewUserHandler(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Get("/api/v1/users", h.List)
	r.Get("/api/v1/users/{id}", h.Get)
	return r
}

func serve(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestUserHandler_Get(t *testing.T) {
	t.Parallel()

	router := newUserRouter(&stubDirectory{users: testutil.ReqresUsers()})

	rec := serve(t, router, "/api/v1/users/2")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Janet", resp.Data.FirstName)
	assert.Equal(t, "Weaver", resp.Data.LastName)
}

func TestUserHandler_Get_InvalidID(t *testing.T) {
	t.Parallel()

	router := newUserRouter(&stubDirectory{})

	rec := serve(t, router, "/api/v1/users/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandler_List(t *testing.T) {
	t.Parallel()

	router := newUserRouter(&stubDirectory{users: testutil.ReqresUsers()})

	rec := serve(t, router, "/api/v1/users")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.UserListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 4, resp.Total)
	require.Len(t, resp.Data, 4)
	assert.Equal(t, "George", resp.Data[0].FirstName)
	assert.Equal(t, "Eve", resp.Data[3].FirstName)
}

func TestUserHandler_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		path       string
		wantStatus int
		wantCode   string
	}{
		{"not found", nil, "/api/v1/users/99", http.StatusNotFound, "USER_NOT_FOUND"},
		{"upstream 500", &directory.RequestFailedError{Op: "page fetch", StatusCode: 500}, "/api/v1/users", http.StatusBadGateway, "UPSTREAM_FAILED"},
		{"upstream 401", &directory.RequestFailedError{Op: "user fetch", StatusCode: 401}, "/api/v1/users/1", http.StatusBadGateway, "UPSTREAM_FAILED"},
		{"decode", fmt.Errorf("decode page 1: %w", directory.ErrDecode), "/api/v1/users", http.StatusBadGateway, "UPSTREAM_INVALID"},
		{"canceled", fmt.Errorf("page fetch: %w", context.Canceled), "/api/v1/users", http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newUserRouter(&stubDirectory{users: testutil.ReqresUsers(), err: tt.err})

			rec := serve(t, router, tt.path)
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestUserHandler_UpstreamClientTimeout(t *testing.T) {
	t.Parallel()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer slow.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := metrics.NewInMemory()
	svc, err := directory.NewService(directory.Config{
		BaseURL: slow.URL + "/api",
		Client: httpclient.New(httpclient.Options{
			APIKey:  "k",
			Timeout: 100 * time.Millisecond,
			Retry:   httpclient.RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond},
			Logger:  logger,
			Metrics: recorder,
		}),
		Store:  cache.NewMemoryStore(0),
		Logger: logger,
	})
	require.NoError(t, err)

	for _, path := range []string{"/api/v1/users/2", "/api/v1/users"} {
		rec := serve(t, newUserRouter(svc), path)
		assert.Equal(t, http.StatusGatewayTimeout, rec.Code, path)

		var resp dto.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "UPSTREAM_TIMEOUT", resp.Code, path)
	}

	assert.Zero(t, recorder.Snapshot().UpstreamRetries)
}
