package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrmorrispmorris/dailymood/backend/internal/apierror"
	"github.com/mrmorrispmorris/dailymood/backend/internal/logger"
	"github.com/mrmorrispmorris/dailymood/backend/pkg/supabase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier struct {
	tokens map[string]string
}

func (s stubVerifier) VerifyToken(ctx context.Context, token string) (*supabase.User, error) {
	id, ok := s.tokens[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &supabase.User{ID: id, Email: id + "@example.com"}, nil
}

func TestAuth(t *testing.T) {
	verifier := stubVerifier{tokens: map[string]string{"good-token": "user-1"}}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good-token", http.StatusUnauthorized, ""},
		{"empty token", "Bearer ", http.StatusUnauthorized, ""},
		{"rejected token", "Bearer bad-token", http.StatusUnauthorized, ""},
		{"valid token", "Bearer good-token", http.StatusOK, "user-1"},
		{"scheme is case-insensitive", "bearer good-token", http.StatusOK, "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser, gotCtxUser string
			router := gin.New()
			router.Use(Auth(verifier))
			router.GET("/me", func(c *gin.Context) {
				gotUser = UserID(c)
				gotCtxUser = logger.UserIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantUser, gotUser)
			assert.Equal(t, tt.wantUser, gotCtxUser)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, apierror.ContentTypeProblemJSON, w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestRequestLogger_RequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger(logger.Discard()))

	var fromCtx, fromGin string
	router.GET("/ping", func(c *gin.Context) {
		fromCtx = logger.RequestIDFromContext(c.Request.Context())
		fromGin = apierror.GetRequestID(c)
		c.Status(http.StatusOK)
	})

	t.Run("propagates incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-123", fromCtx)
		assert.Equal(t, "req-123", fromGin)
	})

	t.Run("generates id when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, fromCtx)
	})
}

func TestSecurityHeaders(t *testing.T) {
	for _, production := range []bool{false, true} {
		router := gin.New()
		router.Use(SecurityHeaders(production))
		router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, production, w.Header().Get("Strict-Transport-Security") != "")
	}
}

type recordingMetrics struct {
	mu      sync.Mutex
	routes  []string
	limited []string
}

func (r *recordingMetrics) ObserveHTTP(method, route string, status int, latency time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, method+" "+route)
}

func (r *recordingMetrics) ObserveRateLimited(limiter string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limited = append(r.limited, limiter)
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	m := &recordingMetrics{}
	router := gin.New()
	router.Use(Metrics(m))
	router.GET("/moods/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/moods/a", "/moods/b", "/nope"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, []string{"GET /moods/:id", "GET /moods/:id", "GET unmatched"}, m.routes)
}

func TestRateLimit(t *testing.T) {
	m := &recordingMetrics{}
	limiter := NewRateLimiter("chat", 2, m)
	defer limiter.Stop()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set(UserIDKey, id)
		}
		c.Next()
	})
	router.Use(RateLimit(limiter))
	router.POST("/chat", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/chat", nil)
		req.Header.Set("X-Test-User", user)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("user-1").Code)
	assert.Equal(t, http.StatusOK, send("user-1").Code)

	w := send("user-1")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))

	var problem apierror.ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, apierror.TypeRateLimit, problem.Type)

	// Other users have their own bucket
	assert.Equal(t, http.StatusOK, send("user-2").Code)
	assert.Equal(t, []string{"chat"}, m.limited)
}

func TestRateLimiter_Sweep(t *testing.T) {
	limiter := NewRateLimiter("sweep", 10, nil)
	defer limiter.Stop()

	now := time.Now()
	limiter.allow("ip:1", now.Add(-10*time.Minute))
	limiter.allow("ip:2", now)

	assert.Equal(t, 1, limiter.sweep(now))
	assert.Equal(t, 1, limiter.size())
}
