package emit_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/relay/http/emit"
)

func TestNewExchange(t *testing.T) {
	// Act
	a := emit.NewExchange(emit.NewWriterConn(httptest.NewRecorder()))
	b := emit.NewExchange(emit.NewWriterConn(httptest.NewRecorder()))

	// Assert
	_, err := uuid.Parse(a.ID())
	require.NoError(t, err)
	require.NotEqual(t, a.ID(), b.ID())
	require.False(t, a.Committed())
}

func TestExchangeContext(t *testing.T) {
	// Arrange
	ex := emit.NewExchange(emit.NewWriterConn(httptest.NewRecorder()))
	ctx := emit.NewExchangeContext(context.Background(), ex)

	// Act
	actual, err := emit.ExchangeFromContext(ctx)

	// Assert
	require.NoError(t, err)
	require.Same(t, ex, actual)

	// Act
	_, err = emit.ExchangeFromContext(context.Background())

	// Assert
	require.ErrorIs(t, err, emit.ErrInvalid)
}
