// Package directory reads users from the external user directory API and
// caches them.
package directory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/raftlab/userdir/internal/cache"
	"github.com/raftlab/userdir/internal/metrics"
	"github.com/raftlab/userdir/internal/model"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Service provides read-only, cached access to the user directory.
type Service struct {
	client  *http.Client
	baseURL *url.URL
	store   cache.Store
	ttl     time.Duration
	logger  *slog.Logger
	metrics metrics.Recorder
}

// Config holds the collaborators of a Service.
type Config struct {
	// BaseURL is the API root, e.g. https://reqres.in/api.
	BaseURL string
	// Client must already carry the API key and retry policy.
	Client *http.Client
	Store  cache.Store
	// TTL defaults to cache.DefaultTTL.
	TTL     time.Duration
	Logger  *slog.Logger
	Metrics metrics.Recorder
}

// NewService validates cfg and creates a Service.
func NewService(cfg Config) (*Service, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}
	// Resolve relative paths below the API root, not next to it.
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	if cfg.Store == nil {
		cfg.Store = cache.NewMemoryStore(cache.DefaultCleanupInterval)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = cache.DefaultTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}

	return &Service{
		client:  cfg.Client,
		baseURL: base,
		store:   cfg.Store,
		ttl:     cfg.TTL,
		logger:  cfg.Logger.With("component", "directory"),
		metrics: cfg.Metrics,
	}, nil
}

// GetUserByID returns the user with the given id, from cache when possible.
func (s *Service) GetUserByID(ctx context.Context, id int) (model.User, error) {
	user, res, err := cache.GetOrFetch(ctx, s.store, cache.UserKey(id), s.ttl, func(ctx context.Context) (model.User, error) {
		return s.fetchUser(ctx, id)
	})
	s.record(metrics.KindUser, res)
	return user, err
}

// GetAllUsers returns every user across all pages, in server order.
// A failure on any page fails the whole call and nothing is cached.
func (s *Service) GetAllUsers(ctx context.Context) ([]model.User, error) {
	users, res, err := cache.GetOrFetch(ctx, s.store, cache.AllUsersKey, s.ttl, s.fetchAllUsers)
	s.record(metrics.KindList, res)
	return users, err
}

func (s *Service) record(kind string, res cache.Result) {
	if res.Hit {
		s.metrics.IncCacheHit(kind)
		return
	}
	s.metrics.IncCacheMiss(kind)
	if res.WriteErr != nil {
		s.metrics.IncCacheWriteError()
		s.logger.Warn("failed to cache result", "kind", kind, "error", res.WriteErr)
	}
}

func (s *Service) fetchUser(ctx context.Context, id int) (model.User, error) {
	endpoint := s.resolve("users/"+strconv.Itoa(id), nil)

	body, err := s.get(ctx, "user fetch", endpoint)
	if err != nil {
		return model.User{}, err
	}

	user, err := model.DecodeAPIUserResponse(body)
	if err != nil {
		return model.User{}, fmt.Errorf("decode user %d: %w: %v", id, ErrDecode, err)
	}
	return user, nil
}

func (s *Service) fetchAllUsers(ctx context.Context) ([]model.User, error) {
	users := make([]model.User, 0)

	for page := 1; ; page++ {
		endpoint := s.resolve("users", url.Values{"page": {strconv.Itoa(page)}})

		body, err := s.get(ctx, "page fetch", endpoint)
		if err != nil {
			return nil, err
		}

		resp, err := model.DecodeAPIUserListResponse(body)
		if err != nil {
			return nil, fmt.Errorf("decode page %d: %w: %v", page, ErrDecode, err)
		}

		users = append(users, resp.Users()...)

		if !resp.HasMore(page) {
			break
		}
	}

	return users, nil
}

// get issues one GET and returns the body of a 2xx response.
func (s *Service) get(ctx context.Context, op, endpoint string) ([]byte, error) {
	s.logger.Info("fetching from upstream", "op", op, "endpoint", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &RequestFailedError{Op: op, URL: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	return body, nil
}

func (s *Service) resolve(path string, query url.Values) string {
	u := s.baseURL.ResolveReference(&url.URL{Path: path})
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u.String()
}
