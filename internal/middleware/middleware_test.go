package middleware

import (
    "crypto/sha1"
    "fmt"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/go-redis/redismock/v9"
    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/rs/zerolog"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/venue-booking/internal/config"
    "github.com/iliyamo/venue-booking/internal/utils"
)

const secret = "test-secret"

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func whoami(c echo.Context) error {
    id, ok := UserID(c)
    return c.JSON(http.StatusOK, echo.Map{"id": id, "authenticated": ok, "role": Role(c)})
}

func TestJWTAuth(t *testing.T) {
    e := echo.New()
    e.GET("/me", whoami, JWTAuth(secret))

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/me", nil))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    req := httptest.NewRequest(http.MethodGet, "/me", nil)
    req.Header.Set("Authorization", "Bearer not-a-jwt")
    assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)

    tok, err := utils.NewAccessToken(secret, 42, "OWNER", 1)
    require.NoError(t, err)
    req = httptest.NewRequest(http.MethodGet, "/me", nil)
    req.Header.Set("Authorization", "Bearer "+tok.Token)
    rec = serve(e, req)
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"id":42,"authenticated":true,"role":"OWNER"}`, rec.Body.String())
}

func TestOptionalJWT(t *testing.T) {
    e := echo.New()
    e.GET("/me", whoami, OptionalJWT(secret))

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/me", nil))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"id":0,"authenticated":false,"role":""}`, rec.Body.String())

    req := httptest.NewRequest(http.MethodGet, "/me", nil)
    req.Header.Set("Authorization", "Bearer garbage")
    assert.Equal(t, http.StatusUnauthorized, serve(e, req).Code)
}

func TestRequireRole(t *testing.T) {
    e := echo.New()
    e.GET("/admin", whoami, JWTAuth(secret), RequireRole("ADMIN"))

    for role, want := range map[string]int{"ADMIN": http.StatusOK, "CUSTOMER": http.StatusForbidden} {
        tok, err := utils.NewAccessToken(secret, 1, role, 1)
        require.NoError(t, err)
        req := httptest.NewRequest(http.MethodGet, "/admin", nil)
        req.Header.Set("Authorization", "Bearer "+tok.Token)
        assert.Equal(t, want, serve(e, req).Code, role)
    }
}

func TestSessionIssuesAndReuses(t *testing.T) {
    e := echo.New()
    e.GET("/s", func(c echo.Context) error { return c.String(http.StatusOK, SessionID(c)) }, Session(time.Hour))

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/s", nil))
    issued := rec.Body.String()
    _, err := uuid.Parse(issued)
    require.NoError(t, err)
    assert.Equal(t, issued, rec.Header().Get(SessionHeader))
    require.Len(t, rec.Result().Cookies(), 1)
    assert.Equal(t, issued, rec.Result().Cookies()[0].Value)

    req := httptest.NewRequest(http.MethodGet, "/s", nil)
    req.AddCookie(&http.Cookie{Name: SessionCookie, Value: issued})
    rec = serve(e, req)
    assert.Equal(t, issued, rec.Body.String())
    assert.Empty(t, rec.Result().Cookies())

    fixed := uuid.NewString()
    req = httptest.NewRequest(http.MethodGet, "/s", nil)
    req.Header.Set(SessionHeader, fixed)
    assert.Equal(t, fixed, serve(e, req).Body.String())

    req = httptest.NewRequest(http.MethodGet, "/s", nil)
    req.Header.Set(SessionHeader, "../../etc")
    rec = serve(e, req)
    assert.NotEqual(t, "../../etc", rec.Body.String())
    assert.Len(t, rec.Result().Cookies(), 1)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
    e := echo.New()
    e.Use(RequestLogger(zerolog.Nop()), Metrics())
    e.GET("/ping", func(c echo.Context) error {
        assert.NotNil(t, zerolog.Ctx(c.Request().Context()))
        return c.NoContent(http.StatusNoContent)
    })

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/ping", nil))
    assert.Equal(t, http.StatusNoContent, rec.Code)
    _, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
    assert.NoError(t, err)

    req := httptest.NewRequest(http.MethodGet, "/ping", nil)
    req.Header.Set(RequestIDHeader, "abc-123")
    assert.Equal(t, "abc-123", serve(e, req).Header().Get(RequestIDHeader))

    rec = serve(e, httptest.NewRequest(http.MethodGet, "/missing", nil))
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimitPassThrough(t *testing.T) {
    ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

    e := echo.New()
    e.POST("/off", ok, RateLimit(config.RateLimitConfig{Enabled: false}, nil))
    assert.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodPost, "/off", nil)).Code)

    down := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
    defer down.Close()
    cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute, Prefix: "rl"}
    e.POST("/down", ok, RateLimit(cfg, down))
    assert.Equal(t, http.StatusOK, serve(e, httptest.NewRequest(http.MethodPost, "/down", nil)).Code)
}

func TestRateKey(t *testing.T) {
    e := echo.New()
    req := httptest.NewRequest(http.MethodPost, "/v1/checkout/7/submit", nil)
    req.RemoteAddr = "10.0.0.1:5000"
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/v1/checkout/:id/submit")
    c.Set("user_id", uint64(9))

    assert.Equal(t, "rl:ip:10.0.0.1", rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip"}, c))
    assert.Equal(t, "rl:user:9", rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c))
    assert.Equal(t, "rl:ip:10.0.0.1:user:9:route:POST /v1/checkout/:id/submit", rateKey(config.RateLimitConfig{Prefix: "rl"}, c))
}

func venueBody(c echo.Context) error {
    return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, []byte(`{"id":`+c.Param("id")+`}`))
}

func keyFor(path string) string {
    sum := sha1.Sum([]byte("GET " + path + "?"))
    return fmt.Sprintf("cache:%x", sum[:])
}

func TestResponseCacheMissStores(t *testing.T) {
    db, mock := redismock.NewClientMock()
    cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "cache", MaxBodyBytes: 1024}

    hdr := http.Header{}
    hdr.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"id":1}`))
    require.NoError(t, err)

    mock.ExpectGet(keyFor("/v1/venues/1")).RedisNil()
    mock.ExpectSet(keyFor("/v1/venues/1"), payload, time.Minute).SetVal("OK")

    e := echo.New()
    e.GET("/v1/venues/:id", venueBody, ResponseCache(cfg, db))

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/v1/venues/1", nil))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
    assert.JSONEq(t, `{"id":1}`, rec.Body.String())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResponseCacheHit(t *testing.T) {
    db, mock := redismock.NewClientMock()
    cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "cache", MaxBodyBytes: 1024}

    hdr := http.Header{}
    hdr.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"id":2,"cached":true}`))
    require.NoError(t, err)
    mock.ExpectGet(keyFor("/v1/venues/2")).SetVal(string(payload))

    e := echo.New()
    e.GET("/v1/venues/:id", func(c echo.Context) error {
        t.Fatal("handler must not run on a hit")
        return nil
    }, ResponseCache(cfg, db))

    rec := serve(e, httptest.NewRequest(http.MethodGet, "/v1/venues/2", nil))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
    assert.JSONEq(t, `{"id":2,"cached":true}`, rec.Body.String())
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayloadRejectsTruncated(t *testing.T) {
    _, _, _, ok := decodePayload([]byte{0, 0})
    assert.False(t, ok)
    _, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 99})
    assert.False(t, ok)
}
