package resp

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// A Fn is one step of building a Response.
type Fn func(Response) (Response, error)

// Code sets the status code.
func Code(c int) Fn {
	return func(r Response) (Response, error) {
		if c <= 0 {
			return r, fmt.Errorf("%w: status code %d", ErrInvalid, c)
		}

		return r.WithStatus(c), nil
	}
}

// SetHeader replaces the values of name with value.
func SetHeader(name, value string) Fn {
	return func(r Response) (Response, error) { return r.WithHeader(name, value), nil }
}

// AddHeader appends value to the values of name.
func AddHeader(name, value string) Fn {
	return func(r Response) (Response, error) { return r.WithAddedHeader(name, value), nil }
}

// SetCookie sets c.
func SetCookie(c *http.Cookie) Fn {
	return func(r Response) (Response, error) {
		if c == nil {
			return r, fmt.Errorf("%w: nil cookie", ErrInvalid)
		}

		return r.WithCookie(c), nil
	}
}

// Json serializes data into the body.
func Json(data any) Fn {
	return func(r Response) (Response, error) { return r.Json(data) }
}

// Xml serializes data into the body under the root element.
func Xml(data any, root string) Fn {
	return func(r Response) (Response, error) { return r.Xml(data, root) }
}

// Redirect points the Location header at target.
func Redirect(base *url.URL, target string, code ...int) Fn {
	return func(r Response) (Response, error) { return r.Redirect(base, target, code...) }
}

// Download attaches src under filename.
func Download(src io.Reader, filename string) Fn {
	return func(r Response) (Response, error) { return r.Download(src, filename), nil }
}

// Apply runs fns in order on r, stopping at the first error.
func Apply(r Response, fns ...Fn) (Response, error) {
	var err error
	for _, fn := range fns {
		if r, err = fn(r); err != nil {
			return r, err
		}
	}

	return r, nil
}
