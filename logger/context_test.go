package logger_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/relay/logger"
)

func TestLogContextMarshalText(t *testing.T) {
	tcs := []struct {
		name     string
		lc       logger.LogContext
		expected string
	}{
		{"Zero-Value", logger.LogContext{}, `{}`},
		{"Caller-Elided", logger.LogContext{Caller: "main.go:1"}, `{}`},
		{"Data", logger.LogContext{Data: map[string]any{"test": "data"}}, `{"data":{"test":"data"}}`},
		{"Error", logger.LogContext{Error: errors.New("test")}, `{"error":"test"}`},
		{"Exchange", logger.LogContext{Exchange: "abc", Status: 302}, `{"exchange":"abc","status":302}`},
		{
			"Request",
			logger.LogContext{Request: httptest.NewRequest(http.MethodGet, "https://example.com/index?q=1", nil)},
			`{"request":{"method":"GET","url":"https://example.com/index?q=1"}}`,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			b, err := tc.lc.MarshalText()

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.expected, string(b))
			require.Equal(t, tc.expected, tc.lc.String())
		})
	}

	t.Run("Unrepresentable", func(t *testing.T) {
		lc := logger.LogContext{Data: map[string]any{"ch": make(chan int)}}
		_, err := lc.MarshalText()
		require.NotNil(t, err)
		require.Contains(t, lc.String(), `"error"`)
	})
}

func TestCurrentCaller(t *testing.T) {
	var actual string
	func() {
		actual = logger.CurrentCaller()
	}()

	require.Regexp(t, regexp.MustCompile(`logger/context_test\.go:\d+$`), actual)
}
