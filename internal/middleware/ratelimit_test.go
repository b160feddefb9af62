package middleware_test

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"mime/multipart"
	"net/url"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/echess/club-api/internal/middleware"
	"github.com/echess/club-api/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testHostAddr = "192.168.1.1:12345"

var errMultipartNotSupported = errors.New("multipart not supported in mock")

func newTestAPI() huma.API {
	return humachi.New(chi.NewMux(), huma.DefaultConfig("Test", "1.0.0"))
}

// trackingStore is an in-memory ratelimit.Store that records calls.
type trackingStore struct {
	counts     map[string]int64
	err        error
	lastKey    string
	lastLimit  int64
	lastWindow time.Duration
}

func newTrackingStore() *trackingStore {
	return &trackingStore{counts: make(map[string]int64)}
}

func (s *trackingStore) Take(_ context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	s.lastKey = key
	s.lastLimit = limit
	s.lastWindow = window

	if s.err != nil {
		return false, 0, s.err
	}

	if s.counts[key] >= limit {
		return false, s.counts[key], nil
	}

	s.counts[key]++

	return true, s.counts[key], nil
}

// mockHumaContext implements huma.Context for testing.
type mockHumaContext struct {
	headers    map[string]string
	host       string
	written    []byte
	statusCode int
	method     string
	operation  *huma.Operation
}

func newMockHumaContext() *mockHumaContext {
	return &mockHumaContext{
		headers: make(map[string]string),
		method:  "GET",
	}
}

func (m *mockHumaContext) Operation() *huma.Operation {
	return m.operation
}
func (m *mockHumaContext) Context() context.Context              { return context.Background() }
func (m *mockHumaContext) TLS() *tls.ConnectionState             { return nil }
func (m *mockHumaContext) Version() huma.ProtoVersion            { return huma.ProtoVersion{} }
func (m *mockHumaContext) Method() string                        { return m.method }
func (m *mockHumaContext) Host() string                          { return m.host }
func (m *mockHumaContext) RemoteAddr() string                    { return m.host }
func (m *mockHumaContext) URL() url.URL                          { return url.URL{} }
func (m *mockHumaContext) Param(_ string) string                 { return "" }
func (m *mockHumaContext) Query(_ string) string                 { return "" }
func (m *mockHumaContext) Header(name string) string             { return m.headers[name] }
func (m *mockHumaContext) EachHeader(_ func(name, value string)) {}
func (m *mockHumaContext) BodyReader() io.Reader                 { return nil }
func (m *mockHumaContext) GetMultipartForm() (*multipart.Form, error) {
	return nil, errMultipartNotSupported
}
func (m *mockHumaContext) SetReadDeadline(_ time.Time) error { return nil }
func (m *mockHumaContext) SetStatus(code int)                { m.statusCode = code }
func (m *mockHumaContext) Status() int                       { return m.statusCode }
func (m *mockHumaContext) AppendHeader(_, _ string)          {}
func (m *mockHumaContext) SetHeader(_, _ string)             {}
func (m *mockHumaContext) BodyWriter() io.Writer             { return &mockBodyWriter{ctx: m} }

type mockBodyWriter struct {
	ctx *mockHumaContext
}

func (w *mockBodyWriter) Write(p []byte) (n int, err error) {
	w.ctx.written = append(w.ctx.written, p...)

	return len(p), nil
}

func defaultLimit(max int64) ratelimit.LimitConfig {
	return ratelimit.LimitConfig{Window: time.Minute, Max: max}
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests under the quota", func(t *testing.T) {
		api := newTestAPI()
		store := newTrackingStore()
		mw := middleware.RateLimiter(api, store, defaultLimit(2), zap.NewNop())

		for i := range 2 {
			ctx := newMockHumaContext()
			ctx.host = testHostAddr

			nextCalled := false

			mw(ctx, func(_ huma.Context) {
				nextCalled = true
			})

			assert.True(t, nextCalled, "request %d should be allowed", i+1)
		}
	})

	t.Run("returns 429 over the quota", func(t *testing.T) {
		api := newTestAPI()
		store := newTrackingStore()
		mw := middleware.RateLimiter(api, store, defaultLimit(1), zap.NewNop())

		ctx := newMockHumaContext()
		ctx.host = testHostAddr

		mw(ctx, func(_ huma.Context) {})

		ctx2 := newMockHumaContext()
		ctx2.host = testHostAddr

		nextCalled := false

		mw(ctx2, func(_ huma.Context) {
			nextCalled = true
		})

		assert.False(t, nextCalled, "next should not be called when rate limited")
		assert.Equal(t, 429, ctx2.statusCode)
		assert.Contains(t, string(ctx2.written), "too many requests")
	})

	t.Run("returns 500 on store error", func(t *testing.T) {
		api := newTestAPI()
		store := newTrackingStore()
		store.err = errors.New("store down")
		mw := middleware.RateLimiter(api, store, defaultLimit(10), zap.NewNop())

		ctx := newMockHumaContext()
		ctx.host = testHostAddr

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.False(t, nextCalled)
		assert.Equal(t, 500, ctx.statusCode)
	})

	t.Run("keys by client IP and endpoint family", func(t *testing.T) {
		api := newTestAPI()
		store := newTrackingStore()
		mw := middleware.RateLimiter(api, store, defaultLimit(10), zap.NewNop())

		ctx := newMockHumaContext()
		ctx.host = testHostAddr
		ctx.operation = &huma.Operation{
			Path: "/login",
			Metadata: map[string]any{
				ratelimit.MetadataKey: ratelimit.EndpointConfig{Family: "login"},
			},
		}

		mw(ctx, func(_ huma.Context) {})

		assert.Equal(t, "192.168.1.1:login", store.lastKey)
	})

	t.Run("falls back to the route template as family", func(t *testing.T) {
		api := newTestAPI()
		store := newTrackingStore()
		mw := middleware.RateLimiter(api, store, defaultLimit(10), zap.NewNop())

		ctx := newMockHumaContext()
		ctx.host = testHostAddr
		ctx.operation = &huma.Operation{Path: "/members/{id}"}

		mw(ctx, func(_ huma.Context) {})

		assert.Equal(t, "192.168.1.1:/members/{id}", store.lastKey)
	})

	t.Run("families do not interfere", func(t *testing.T) {
		api := newTestAPI()
		store := newTrackingStore()
		mw := middleware.RateLimiter(api, store, defaultLimit(1), zap.NewNop())

		readOp := &huma.Operation{Path: "/members"}
		loginOp := &huma.Operation{
			Path: "/admin/login",
			Metadata: map[string]any{
				ratelimit.MetadataKey: ratelimit.EndpointConfig{Family: "login"},
			},
		}

		ctx := newMockHumaContext()
		ctx.host = testHostAddr
		ctx.operation = readOp

		mw(ctx, func(_ huma.Context) {})

		// Read quota is spent; the login family still admits.
		ctx2 := newMockHumaContext()
		ctx2.host = testHostAddr
		ctx2.operation = loginOp

		nextCalled := false

		mw(ctx2, func(_ huma.Context) {
			nextCalled = true
		})

		assert.True(t, nextCalled, "separate family keeps its own counter")
	})

	t.Run("applies metadata limit override", func(t *testing.T) {
		api := newTestAPI()
		store := newTrackingStore()
		mw := middleware.RateLimiter(api, store, defaultLimit(100), zap.NewNop())

		operation := &huma.Operation{
			Path: "/admin/login",
			Metadata: map[string]any{
				ratelimit.MetadataKey: ratelimit.EndpointConfig{
					Family: "login",
					Limit:  ratelimit.LimitConfig{Window: time.Minute, Max: 2},
				},
			},
		}

		for i := range 2 {
			ctx := newMockHumaContext()
			ctx.host = testHostAddr
			ctx.operation = operation

			nextCalled := false

			mw(ctx, func(_ huma.Context) {
				nextCalled = true
			})

			assert.True(t, nextCalled, "request %d should be allowed", i+1)
		}

		ctx := newMockHumaContext()
		ctx.host = testHostAddr
		ctx.operation = operation

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.False(t, nextCalled, "third request should be denied by the override")
		assert.Equal(t, 429, ctx.statusCode)
	})

	t.Run("skips rate limiting when disabled via metadata", func(t *testing.T) {
		api := newTestAPI()
		store := newTrackingStore()
		mw := middleware.RateLimiter(api, store, defaultLimit(1), zap.NewNop())

		operation := &huma.Operation{
			Path: "/health",
			Metadata: map[string]any{
				ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
			},
		}

		for i := range 3 {
			ctx := newMockHumaContext()
			ctx.host = testHostAddr
			ctx.operation = operation

			nextCalled := false

			mw(ctx, func(_ huma.Context) {
				nextCalled = true
			})

			assert.True(t, nextCalled, "request %d should bypass the limiter", i+1)
		}

		assert.Empty(t, store.counts, "disabled endpoints never touch the store")
	})

	t.Run("extracts IP from X-Forwarded-For header", func(t *testing.T) {
		api := newTestAPI()
		store := newTrackingStore()
		mw := middleware.RateLimiter(api, store, defaultLimit(10), zap.NewNop())

		ctx := newMockHumaContext()
		ctx.host = "10.0.0.1:12345"
		ctx.headers["X-Forwarded-For"] = "203.0.113.195, 70.41.3.18"
		ctx.operation = &huma.Operation{Path: "/members"}

		mw(ctx, func(_ huma.Context) {})

		assert.Equal(t, "203.0.113.195:/members", store.lastKey)
	})

	t.Run("extracts IP from X-Real-IP header", func(t *testing.T) {
		api := newTestAPI()
		store := newTrackingStore()
		mw := middleware.RateLimiter(api, store, defaultLimit(10), zap.NewNop())

		ctx := newMockHumaContext()
		ctx.host = "10.0.0.1:12345"
		ctx.headers["X-Real-IP"] = "203.0.113.100"
		ctx.operation = &huma.Operation{Path: "/members"}

		mw(ctx, func(_ huma.Context) {})

		assert.Equal(t, "203.0.113.100:/members", store.lastKey)
	})
}

func TestWithRequestMeta(t *testing.T) {
	api := newTestAPI()
	mw := middleware.WithRequestMeta(api)

	ctx := newMockHumaContext()
	ctx.host = testHostAddr
	ctx.headers["User-Agent"] = "TestAgent/1.0"

	var meta middleware.RequestMeta

	mw(ctx, func(next huma.Context) {
		meta = middleware.RequestMetaFromContext(next.Context())
	})

	assert.Equal(t, "192.168.1.1", meta.ClientIP)
	assert.Equal(t, "TestAgent/1.0", meta.UserAgent)
}
