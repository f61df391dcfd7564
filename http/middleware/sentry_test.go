package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/http/middleware"
)

func TestReportPanic(t *testing.T) {
	// Arrange
	panicky := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) { panic("oops") })

	// Act + Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", middleware.ReportPanic(relay.Development)))
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", middleware.ReportPanic(relay.Testing)))

	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act + Assert
	require.NotPanics(t, func() { middleware.ReportPanic(relay.Production)(panicky).ServeHTTP(w, r) })
}
