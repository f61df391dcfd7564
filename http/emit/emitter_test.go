package emit_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/relay/http/emit"
	"github.com/xy-planning-network/relay/http/emit/emittest"
	"github.com/xy-planning-network/relay/http/resp"
	"github.com/xy-planning-network/relay/logger"
)

func newTestEmitter(t *testing.T, opts ...emit.EmitterOptFn) (*emit.Emitter, *bytes.Buffer) {
	t.Helper()
	t.Setenv("SENTRY_DSN", "")
	color.NoColor = true

	buf := new(bytes.Buffer)
	l := logger.New(logger.WithLogger(log.New(buf, "", 0)))
	return emit.NewEmitter(append([]emit.EmitterOptFn{emit.WithLogger(l)}, opts...)...), buf
}

func TestEmitOrderAndIdempotency(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	conn := emittest.NewMockConn(ctrl)
	em, logs := newTestEmitter(t)

	r := resp.Response{}.
		WithStatus(http.StatusOK).
		WithHeader("X-Powered-By", "relay").
		WithCookie(&http.Cookie{Name: "a", Value: "1"}).
		WithCookie(&http.Cookie{Name: "b", Value: "2", Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})

	status := conn.EXPECT().SetStatus(http.StatusOK, "OK").Return(nil).Times(1)
	header := conn.EXPECT().WriteHeader("X-Powered-By", "relay").Return(nil).Times(1).After(status)
	first := conn.EXPECT().
		SetCookie(gomock.Eq(&http.Cookie{Name: "a", Value: "1"})).
		Return(nil).
		Times(1).
		After(header)
	second := conn.EXPECT().
		SetCookie(gomock.Eq(&http.Cookie{Name: "b", Value: "2", Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})).
		Return(nil).
		Times(1).
		After(header)
	conn.EXPECT().End().Return(nil).Times(1).After(first).After(second)

	ex := emit.NewExchange(conn)

	// Act
	err := em.Emit(context.Background(), r, ex, true)

	// Assert
	require.NoError(t, err)
	require.True(t, ex.Committed())

	// Act
	err = em.Emit(context.Background(), r, ex, true)

	// Assert
	require.ErrorIs(t, err, emit.ErrDoubleEmission)
	require.Contains(t, logs.String(), "[WARN]")
	require.Contains(t, logs.String(), ex.ID())
}

func TestEmitHeadersInOrder(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	conn := emittest.NewMockConn(ctrl)
	em, _ := newTestEmitter(t)

	r := resp.Response{}.
		WithStatus(http.StatusCreated, "Made").
		WithHeader("Vary", "Accept").
		WithHeader("X-A", "1").
		WithAddedHeader("vary", "Origin").
		WithBody(resp.String("body"))

	gomock.InOrder(
		conn.EXPECT().SetStatus(http.StatusCreated, "Made").Return(nil),
		conn.EXPECT().WriteHeader("Vary", "Accept").Return(nil),
		conn.EXPECT().WriteHeader("Vary", "Origin").Return(nil),
		conn.EXPECT().WriteHeader("X-A", "1").Return(nil),
		conn.EXPECT().Write([]byte("body")).Return(4, nil),
	)

	// Act
	err := em.Emit(context.Background(), r, emit.NewExchange(conn), false)

	// Assert
	require.NoError(t, err)
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestEmitStream(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	conn := emittest.NewMockConn(ctrl)
	em, _ := newTestEmitter(t, emit.WithChunkSize(4))
	src := &closeRecorder{Reader: strings.NewReader("abcdefghij")}

	gomock.InOrder(
		conn.EXPECT().SetStatus(http.StatusOK, "OK").Return(nil),
		conn.EXPECT().Write([]byte("abcd")).Return(4, nil),
		conn.EXPECT().Write([]byte("efgh")).Return(4, nil),
		conn.EXPECT().Write([]byte("ij")).Return(2, nil),
		conn.EXPECT().End().Return(nil),
	)

	// Act
	err := em.Emit(context.Background(), resp.Response{}.WithBody(resp.Stream(src)), emit.NewExchange(conn), true)

	// Assert
	require.NoError(t, err)
	require.True(t, src.closed)
}

func TestEmitConnError(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	conn := emittest.NewMockConn(ctrl)
	em, logs := newTestEmitter(t)
	src := &closeRecorder{Reader: strings.NewReader("abc")}
	broken := errors.New("broken pipe")

	gomock.InOrder(
		conn.EXPECT().SetStatus(http.StatusOK, "OK").Return(nil),
		conn.EXPECT().WriteHeader("X-A", "1").Return(broken),
	)

	r := resp.Response{}.WithHeader("X-A", "1").WithBody(resp.Stream(src))
	ex := emit.NewExchange(conn)

	// Act
	err := em.Emit(context.Background(), r, ex, true)

	// Assert
	require.ErrorIs(t, err, emit.ErrEmission)
	require.ErrorIs(t, err, broken)
	require.True(t, ex.Committed())
	require.True(t, src.closed)
	require.Contains(t, logs.String(), "[ERROR]")
	require.Contains(t, logs.String(), "broken pipe")

	// Act
	err = em.Emit(context.Background(), r, ex, true)

	// Assert
	require.ErrorIs(t, err, emit.ErrDoubleEmission)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestEmitStreamReadError(t *testing.T) {
	// Arrange
	ctrl := gomock.NewController(t)
	conn := emittest.NewMockConn(ctrl)
	em, _ := newTestEmitter(t)

	conn.EXPECT().SetStatus(http.StatusOK, "OK").Return(nil)

	// Act
	err := em.Emit(context.Background(), resp.Response{}.WithBody(resp.Stream(failingReader{})), emit.NewExchange(conn), true)

	// Assert
	require.ErrorIs(t, err, emit.ErrEmission)
	require.Contains(t, err.Error(), "disk gone")
}

func TestEmitCancelled(t *testing.T) {
	t.Run("Before", func(t *testing.T) {
		// Arrange
		ctrl := gomock.NewController(t)
		conn := emittest.NewMockConn(ctrl)
		em, _ := newTestEmitter(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		ex := emit.NewExchange(conn)

		// Act
		err := em.Emit(ctx, resp.Response{}, ex, true)

		// Assert
		require.ErrorIs(t, err, emit.ErrEmission)
		require.ErrorIs(t, err, context.Canceled)
		require.True(t, ex.Committed())
	})

	t.Run("Midway", func(t *testing.T) {
		// Arrange
		ctrl := gomock.NewController(t)
		conn := emittest.NewMockConn(ctrl)
		em, _ := newTestEmitter(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		conn.EXPECT().
			SetStatus(http.StatusOK, "OK").
			DoAndReturn(func(int, string) error {
				cancel()
				return nil
			})

		r := resp.Response{}.WithHeader("X-A", "1").WithBody(resp.String("never"))

		// Act
		err := em.Emit(ctx, r, emit.NewExchange(conn), true)

		// Assert
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestEmitInvalid(t *testing.T) {
	// Arrange
	em, _ := newTestEmitter(t)

	// Act
	err := em.Emit(context.Background(), resp.Response{}, nil, true)

	// Assert
	require.ErrorIs(t, err, emit.ErrInvalid)

	// Act
	err = em.Emit(context.Background(), nil, emit.NewExchange(emit.NewWriterConn(httptest.NewRecorder())), true)

	// Assert
	require.ErrorIs(t, err, emit.ErrInvalid)
}

func TestEmitUpdatesScope(t *testing.T) {
	// Arrange
	em, _ := newTestEmitter(t)
	s := resp.NewScope(httptest.NewRequest(http.MethodGet, "/", nil))
	ctx := resp.NewScopeContext(context.Background(), s)
	r := resp.Response{}.WithStatus(http.StatusAccepted)

	// Act
	err := em.Emit(ctx, r, emit.NewExchange(emit.NewWriterConn(httptest.NewRecorder())), true)

	// Assert
	require.NoError(t, err)
	require.Equal(t, r, s.Response())

	// Act
	err = em.Emit(ctx, r.Raw("raw"), emit.NewExchange(emit.NewWriterConn(httptest.NewRecorder())), true)

	// Assert
	require.NoError(t, err)
	require.Equal(t, r, s.Response())
}
