package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-registration/internal/config"
)

func TestCacheKey_DistinguishesPaths(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKey(cfg, http.MethodGet, "/event/1", "")
	b := cacheKey(cfg, http.MethodGet, "/event/2", "")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "cache:"))
	assert.Equal(t, a, cacheKey(cfg, http.MethodGet, "/event/1", ""))
	assert.NotEqual(t, a, cacheKey(cfg, http.MethodGet, "/event/1", "x=1"))

	route := config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}
	assert.Equal(t, cacheKey(route, http.MethodGet, "/event/1", "x=1"), cacheKey(route, http.MethodGet, "/event/1", ""))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"id":1}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)

	_, _, _, ok = decodePayload([]byte{0, 0, 0})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	assert.False(t, ok)
}

func TestCaptureWriter_Limit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	_, err := cw.Write([]byte("abcdef"))
	require.NoError(t, err)
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, int64(6), cw.size)
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestMiddleware_NilRedisPassesThrough(t *testing.T) {
	e := echo.New()
	handler := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	cache := NewRedisCache(config.CacheConfig{Enabled: true, Methods: []string{"GET"}}, nil)
	limit := NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil)
	evict := NewCacheEvictor(config.CacheConfig{Enabled: true}, nil, nil).Evict(func(echo.Context) []string {
		t.Fatal("paths must not be computed without redis")
		return nil
	})

	for _, mw := range []echo.MiddlewareFunc{cache, limit, evict} {
		req := httptest.NewRequest(http.MethodGet, "/event/1", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, mw(handler)(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
}

func TestRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/registerEvent/3", nil)
	req.RemoteAddr = "10.0.0.5:4321"
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/registerEvent/:id")

	assert.Equal(t, "rl:ip:10.0.0.5", rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
	assert.Equal(t, "rl:ip:10.0.0.5:route:POST /registerEvent/:id", rateKey(config.RateLimitConfig{Prefix: "rl"}, c))
}

func TestRequestLoggerAndID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	e.Use(RequestID(), RequestLogger(logger))
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(echo.HeaderXRequestID)
	assert.Len(t, id, 36)
	assert.Contains(t, buf.String(), `"uri":"/healthz"`)
	assert.Contains(t, buf.String(), id)
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     []string{http.MethodGet},
		TTL:         time.Minute,
		KeyStrategy: "route",
		Prefix:      "cache",
	}
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRedisCache_MissThenHit(t *testing.T) {
	rdb := newTestRedis(t)
	calls := 0
	e := echo.New()
	e.GET("/event/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id")})
	}, NewRedisCache(testCacheConfig(), rdb))

	first := serve(e, http.MethodGet, "/event/1")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := serve(e, http.MethodGet, "/event/1")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Contains(t, second.Header().Get(echo.HeaderContentType), "application/json")
	assert.Equal(t, 1, calls)

	other := serve(e, http.MethodGet, "/event/2")
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestRedisCache_SkipsNon200(t *testing.T) {
	rdb := newTestRedis(t)
	calls := 0
	e := echo.New()
	e.GET("/event/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Event not found"})
	}, NewRedisCache(testCacheConfig(), rdb))

	for i := 0; i < 2; i++ {
		rec := serve(e, http.MethodGet, "/event/9")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, calls)
}

func TestRedisCache_CachePathOverride(t *testing.T) {
	rdb := newTestRedis(t)
	calls := 0
	canonical := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(CachePathKey, "/event/1")
			return next(c)
		}
	}
	e := echo.New()
	e.GET("/event/:id", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, "one")
	}, canonical, NewRedisCache(testCacheConfig(), rdb))

	assert.Equal(t, "MISS", serve(e, http.MethodGet, "/event/01").Header().Get("X-Cache"))
	assert.Equal(t, "HIT", serve(e, http.MethodGet, "/event/1").Header().Get("X-Cache"))
	assert.Equal(t, 1, calls)
}

func TestCacheEvictor_EvictsOnSuccessOnly(t *testing.T) {
	rdb := newTestRedis(t)
	cfg := testCacheConfig()
	reads := 0
	writeStatus := http.StatusCreated

	e := echo.New()
	e.GET("/event/:id", func(c echo.Context) error {
		reads++
		return c.String(http.StatusOK, "event")
	}, NewRedisCache(cfg, rdb))
	evict := NewCacheEvictor(cfg, rdb, nil).Evict(func(c echo.Context) []string {
		return []string{"/event/" + c.Param("id")}
	})
	e.POST("/registerEvent/:id", func(c echo.Context) error {
		return c.NoContent(writeStatus)
	}, evict)

	serve(e, http.MethodGet, "/event/1")
	assert.Equal(t, "HIT", serve(e, http.MethodGet, "/event/1").Header().Get("X-Cache"))

	writeStatus = http.StatusBadRequest
	serve(e, http.MethodPost, "/registerEvent/1")
	assert.Equal(t, "HIT", serve(e, http.MethodGet, "/event/1").Header().Get("X-Cache"))

	writeStatus = http.StatusCreated
	serve(e, http.MethodPost, "/registerEvent/1")
	assert.Equal(t, "MISS", serve(e, http.MethodGet, "/event/1").Header().Get("X-Cache"))
	assert.Equal(t, 2, reads)
}
