package middleware_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/relay/http/middleware"
)

func TestIdempotent(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := middleware.NewRedisCache(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	caches := map[string]middleware.IdempotencyCacher{
		"Map":   middleware.NewIdemResMap(),
		"Redis": rc,
	}

	for name, cache := range caches {
		t.Run(name, func(t *testing.T) {
			testIdempotent(t, cache)
		})
	}
}

func testIdempotent(t *testing.T, cache middleware.IdempotencyCacher) {
	em := newTestEmitter(t)

	// Arrange
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	w := httptest.NewRecorder()

	// Act
	middleware.Idempotent(nil, nil, nil)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)

	// Arrange
	r = httptest.NewRequest(http.MethodPost, "https://example.com", nil)
	w = httptest.NewRecorder()

	// Act
	middleware.Idempotent(em, cache, sha256.New())(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Arrange
	testKey := "test-idempotency"
	h := sha256.New()
	b := h.Sum(nil)
	h.Reset()

	r = httptest.NewRequest(http.MethodPost, "https://example.com", nil)
	r.Header.Set(middleware.IdempotencyHeader, testKey)

	w = httptest.NewRecorder()

	// Act
	middleware.Idempotent(em, cache, h)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)

	v, ok := cache.Get(context.Background(), testKey)
	require.True(t, ok)
	require.Equal(t, http.StatusTeapot, v.Status)
	require.Equal(t, b, v.Req)
	require.Zero(t, v.Body.Len())
	require.Equal(t, "/", v.URI)

	// Arrange
	r = httptest.NewRequest(http.MethodPost, "https://example.com", nil)
	r.Header.Set(middleware.IdempotencyHeader, testKey)

	w = httptest.NewRecorder()

	// Act
	middleware.Idempotent(em, cache, h)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTeapot, w.Code)

	// Arrange
	r = httptest.NewRequest(http.MethodPost, "https://example.com/other", nil)
	r.Header.Set(middleware.IdempotencyHeader, testKey)

	w = httptest.NewRecorder()

	// Act
	middleware.Idempotent(em, cache, h)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Arrange
	r = httptest.NewRequest(http.MethodPost, "https://example.com/", strings.NewReader("test"))
	r.Header.Set(middleware.IdempotencyHeader, testKey)

	w = httptest.NewRecorder()

	// Act
	middleware.Idempotent(em, cache, h)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Arrange
	otherKey := "other"

	r = httptest.NewRequest(http.MethodPost, "https://example.com/", nil)
	r.Header.Set(middleware.IdempotencyHeader, otherKey)

	w = httptest.NewRecorder()

	cache.Set(r.Context(), otherKey, middleware.NewIdemRes("/", nil))

	// Act
	middleware.Idempotent(em, cache, h)(teapotHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusConflict, w.Code)

	// Arrange
	var incrementMe int
	incrementKey := "increment"
	incrementHandler := http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		incrementMe++
		wx.Header().Set("Content-Type", "text/plain")
		wx.Header().Add("X-Count", "first")
		wx.Header().Add("X-Count", "second")
		wx.WriteHeader(http.StatusCreated)
		wx.Write([]byte(strconv.Itoa(incrementMe)))
	})

	for i := 0; i < 3; i++ {
		r = httptest.NewRequest(http.MethodPost, "https://example.com/", strings.NewReader(`{"n":1}`))
		r.Header.Set(middleware.IdempotencyHeader, incrementKey)

		w = httptest.NewRecorder()

		// Act
		middleware.Idempotent(em, cache, h)(incrementHandler).ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, 1, incrementMe)
		require.Equal(t, "text/plain", w.Header().Get("Content-Type"))
		require.Equal(t, []string{"first", "second"}, w.Header().Values("X-Count"))

		s, err := strconv.Atoi(w.Body.String())
		require.Nil(t, err)
		require.Equal(t, incrementMe, s)
	}
}

func TestIdempotentReadsBody(t *testing.T) {
	// Arrange
	var got string
	h := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		b := new(bytes.Buffer)
		b.ReadFrom(r.Body)
		got = b.String()
	})

	r := httptest.NewRequest(http.MethodPost, "https://example.com/", strings.NewReader("payload"))
	r.Header.Set(middleware.IdempotencyHeader, "body")
	w := httptest.NewRecorder()

	// Act
	middleware.Idempotent(newTestEmitter(t), middleware.NewIdemResMap(), nil)(h).ServeHTTP(w, r)

	// Assert
	require.Equal(t, "payload", got)
}

func TestNewIdemRes(t *testing.T) {
	// Arrange
	uri := "/test?data=true"
	b := []byte("test")

	// Act
	ir := middleware.NewIdemRes(uri, b)

	// Assert
	require.Equal(t, uri, ir.URI)
	require.Equal(t, b, ir.Req)
	require.Zero(t, ir.Status)
	require.Equal(t, new(bytes.Buffer), ir.Body)
	require.Empty(t, ir.Header)
}

func TestIdemResGob(t *testing.T) {
	// Arrange
	ir := middleware.NewIdemRes("/widgets", []byte("sum"))
	ir.Status = http.StatusCreated
	ir.Header.Set("Location", "/widgets/1")
	ir.Body.WriteString(`{"id":1}`)

	// Act
	b, err := ir.GobEncode()
	require.Nil(t, err)

	actual := new(middleware.IdemRes)
	err = actual.GobDecode(b)

	// Assert
	require.Nil(t, err)
	require.Equal(t, ir.URI, actual.URI)
	require.Equal(t, ir.Status, actual.Status)
	require.Equal(t, "/widgets/1", actual.Header.Get("Location"))
	require.Equal(t, `{"id":1}`, actual.Body.String())

	res := actual.Response()
	require.Equal(t, http.StatusCreated, res.StatusCode())
	require.Equal(t, "/widgets/1", res.HeaderLine("Location"))
	require.Equal(t, `{"id":1}`, res.Body().String())
}
