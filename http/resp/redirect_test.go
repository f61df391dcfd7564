package resp_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/relay/http/resp"
)

func TestResolveRedirect(t *testing.T) {
	base := &url.URL{Scheme: "http", Host: "127.0.0.1:9501"}

	tcs := []struct {
		name     string
		base     *url.URL
		target   string
		expected string
		err      error
	}{
		{"Absolute", base, "https://example.com", "https://example.com", nil},
		{"Absolute-No-Base", nil, "https://example.com", "https://example.com", nil},
		{"Scheme-Relative", base, "//cdn.example.com/a", "//cdn.example.com/a", nil},
		{"Leading-Slash", base, "/index", "http://127.0.0.1:9501/index", nil},
		{"No-Leading-Slash", base, "index", "http://127.0.0.1:9501/index", nil},
		{"Query", base, "index?a=1#top", "http://127.0.0.1:9501/index?a=1#top", nil},
		{"Empty", base, "", "http://127.0.0.1:9501/", nil},
		{"No-Scheme-Base", &url.URL{Host: "example.com"}, "a", "http://example.com/a", nil},
		{"Nil-Base", nil, "/index", "", resp.ErrRedirectResolution},
		{"No-Host", &url.URL{Scheme: "https"}, "/index", "", resp.ErrRedirectResolution},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			actual, err := resp.ResolveRedirect(tc.base, tc.target)

			// Assert
			require.ErrorIs(t, err, tc.err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestResponseRedirect(t *testing.T) {
	base := &url.URL{Scheme: "http", Host: "127.0.0.1:9501"}

	t.Run("Default-Code", func(t *testing.T) {
		// Act
		r, err := resp.Response{}.Redirect(base, "https://example.com")

		// Assert
		require.NoError(t, err)
		require.Equal(t, http.StatusFound, r.StatusCode())
		require.Equal(t, "https://example.com", r.HeaderLine("Location"))
	})

	t.Run("Relative", func(t *testing.T) {
		// Act
		r, err := resp.Response{}.Redirect(base, "index", http.StatusMovedPermanently)

		// Assert
		require.NoError(t, err)
		require.Equal(t, http.StatusMovedPermanently, r.StatusCode())
		require.Equal(t, "http://127.0.0.1:9501/index", r.HeaderLine("Location"))
	})

	t.Run("Unresolvable", func(t *testing.T) {
		// Arrange
		orig := resp.Response{}.WithStatus(http.StatusAccepted)

		// Act
		r, err := orig.Redirect(nil, "index")

		// Assert
		require.ErrorIs(t, err, resp.ErrRedirectResolution)
		require.Equal(t, http.StatusAccepted, r.StatusCode())
		require.False(t, r.Header().Has("Location"))
	})
}
