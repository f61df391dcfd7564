package resp

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveRedirect resolves target into an absolute URL for a Location header.
//
// A target carrying a scheme, or starting with "//", is returned unchanged.
// Otherwise, target is a path on base's host: exactly one "/" separates them
// and an empty target redirects to "/".
// base's scheme defaults to http.
//
// A relative target without a base or a base without a host returns ErrRedirectResolution.
func ResolveRedirect(base *url.URL, target string) (string, error) {
	if hasScheme(target) || strings.HasPrefix(target, "//") {
		return target, nil
	}

	if base == nil || base.Host == "" {
		return "", fmt.Errorf("%w: no host to resolve %q against", ErrRedirectResolution, target)
	}

	scheme := base.Scheme
	if scheme == "" {
		scheme = "http"
	}

	return scheme + "://" + base.Host + "/" + strings.TrimLeft(target, "/"), nil
}

// hasScheme reports whether s begins with a URI scheme, i.e., ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ) ":".
func hasScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' || c == '+' || c == '-' || c == '.':
			if i == 0 {
				return false
			}
		case c == ':':
			return i > 0
		default:
			return false
		}
	}

	return false
}
