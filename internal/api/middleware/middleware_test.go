package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, "10.0.0.1:5555", "10.0.0.1"},
		{"fly header wins", map[string]string{"Fly-Client-IP": "1.1.1.1", "X-Forwarded-For": "2.2.2.2"}, "10.0.0.1:5555", "1.1.1.1"},
		{"first forwarded", map[string]string{"X-Forwarded-For": "2.2.2.2, 3.3.3.3"}, "10.0.0.1:5555", "2.2.2.2"},
		{"real ip", map[string]string{"X-Real-IP": "4.4.4.4"}, "10.0.0.1:5555", "4.4.4.4"},
		{"no port", nil, "10.0.0.1", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, RealIP(r))
		})
	}
}

func TestWhitelist(t *testing.T) {
	rl := NewRateLimiter(nil, zerolog.Nop(), RateLimiterConfig{
		Whitelist: []string{"192.168.1.10", "10.0.0.0/8", "not-a-cidr/99"},
	})

	assert.True(t, rl.isWhitelisted("192.168.1.10"))
	assert.True(t, rl.isWhitelisted("10.20.30.40"))
	assert.False(t, rl.isWhitelisted("192.168.1.11"))
	assert.False(t, rl.isWhitelisted("garbage"))
}

func TestRateLimiterDisabledWithoutRedis(t *testing.T) {
	rl := NewRateLimiter(nil, zerolog.Nop(), RateLimiterConfig{})
	assert.False(t, rl.Enabled())

	h := rl.Limit(RateLimit{Name: "test", Requests: 1, Window: time.Minute})(ok)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiterRedis(t *testing.T) {
	url := os.Getenv("ESCAPEROOM_TEST_REDIS_URL")
	if url == "" {
		t.Skip("ESCAPEROOM_TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	ip := "203.0.113.7"
	name := "test_" + strings.ReplaceAll(t.Name(), "/", "_") + time.Now().Format("150405.000")
	t.Cleanup(func() {
		client.Del(ctx, blockKey(ip), "violations:ip:"+ip)
	})

	rl := NewRateLimiter(client, zerolog.Nop(), RateLimiterConfig{AutoBlockEnabled: true})
	h := rl.Limit(RateLimit{Name: name, Requests: 2, Window: time.Hour})(ok)

	send := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	assert.Equal(t, http.StatusOK, send().Code)
	rec := send()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	for i := 0; i < violationThreshold; i++ {
		send()
	}
	assert.True(t, rl.blocker.IsBlocked(ctx, ip))
	assert.Equal(t, http.StatusForbidden, send().Code)

	rl.blocker.Unblock(ctx, ip)
	assert.False(t, rl.blocker.IsBlocked(ctx, ip))
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders("/game/", "/game/static/")(ok)

	csp := func(path string) string {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		return rec.Header().Get("Content-Security-Policy")
	}

	assert.Contains(t, csp("/game/"), "default-src 'self'")
	assert.Contains(t, csp("/game/static/app.js"), "default-src 'self'")
	assert.Equal(t, "default-src 'none'", csp("/game/checkSolution"))
	assert.Equal(t, "default-src 'none'", csp("/metrics"))
}

func TestMaxBodySize(t *testing.T) {
	h := MaxBodySize(16)(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 17))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateRequest(t *testing.T) {
	h := ValidateRequest(ok)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		ctype  string
		want   int
	}{
		{"json post", http.MethodPost, "/checkSolution", "{}", "application/json", http.StatusOK},
		{"json with charset", http.MethodPost, "/checkSolution", "{}", "application/json; charset=utf-8", http.StatusOK},
		{"form post", http.MethodPost, "/checkSolution", "a=b", "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"empty post", http.MethodPost, "/checkSolution", "", "", http.StatusOK},
		{"plain get", http.MethodGet, "/Neo/1", "", "", http.StatusOK},
		{"traversal", http.MethodGet, "/static/../secret", "", "", http.StatusBadRequest},
		{"script in query", http.MethodGet, "/api?x=<script>", "", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.body))
			r.URL.Path = strings.SplitN(tt.target, "?", 2)[0]
			if i := strings.Index(tt.target, "?"); i >= 0 {
				r.URL.RawQuery = tt.target[i+1:]
			}
			if tt.ctype != "" {
				r.Header.Set("Content-Type", tt.ctype)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRoutePattern(t *testing.T) {
	var got string
	r := chi.NewRouter()
	r.Get("/{agentName}/{puzzleId}", func(w http.ResponseWriter, req *http.Request) {
		got = routePattern(req)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/Neo/1", nil))
	assert.Equal(t, "/{agentName}/{puzzleId}", got)

	assert.Equal(t, "unmatched", routePattern(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = chimw.GetReqID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 26)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "caller-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, "caller-id", seen)
	assert.Equal(t, "caller-id", rec.Header().Get(RequestIDHeader))
}
