package resp

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// A Response builds an HTTP response out of immutable steps.
//
// Every method returning a Response returns a new value, leaving the receiver untouched,
// so a Response can be shared and branched from freely.
// The zero value is a 200 OK with no headers, cookies or body.
type Response struct {
	msg Message
}

// New constructs a Response from m.
func New(m Message) Response { return Response{msg: m} }

// Message returns the plain message the Response has built.
func (r Response) Message() Message { return r.msg }

// StatusCode returns the response status code.
func (r Response) StatusCode() int { return r.msg.StatusCode() }

// ReasonPhrase returns the reason phrase accompanying the status code.
func (r Response) ReasonPhrase() string { return r.msg.ReasonPhrase() }

// Header returns the response's headers.
func (r Response) Header() Header { return r.msg.Header() }

// HeaderLine returns the values of name joined by a comma.
func (r Response) HeaderLine(name string) string { return r.msg.HeaderLine(name) }

// Cookies returns copies of the response's cookies.
func (r Response) Cookies() []*http.Cookie { return r.msg.Cookies() }

// Cookie returns a copy of the cookie named name or nil.
func (r Response) Cookie(name string) *http.Cookie { return r.msg.Cookie(name) }

// Body returns the response's body.
func (r Response) Body() Body { return r.msg.Body() }

// WithStatus sets the status code and, optionally, a reason phrase.
// A non-positive code leaves the Response unchanged.
func (r Response) WithStatus(code int, reason ...string) Response {
	r.msg = r.msg.WithStatus(code, reason...)
	return r
}

// WithHeader replaces every value of name with value.
func (r Response) WithHeader(name, value string) Response {
	r.msg = r.msg.WithHeader(name, value)
	return r
}

// WithAddedHeader appends value to the values of name.
func (r Response) WithAddedHeader(name, value string) Response {
	r.msg = r.msg.WithAddedHeader(name, value)
	return r
}

// WithoutHeader removes name.
func (r Response) WithoutHeader(name string) Response {
	r.msg = r.msg.WithoutHeader(name)
	return r
}

// WithCookie sets c, replacing a cookie of the same name.
func (r Response) WithCookie(c *http.Cookie) Response {
	r.msg = r.msg.WithCookie(c)
	return r
}

// WithBody replaces the body.
func (r Response) WithBody(b Body) Response {
	r.msg = r.msg.WithBody(b)
	return r
}

// WithContentType sets the Content-Type header.
func (r Response) WithContentType(ct string) Response {
	return r.WithHeader("Content-Type", ct)
}

// Raw returns the plain message with content as its body, verbatim.
// No Content-Type is inferred.
//
// content may be a string, a []byte, an io.Reader streamed at emission or a fmt.Stringer;
// anything else is formatted with fmt.Sprint and nil is an empty body.
func (r Response) Raw(content any) Message {
	var b Body
	switch c := content.(type) {
	case nil:
	case string:
		b = String(c)
	case []byte:
		b = Bytes(c)
	case io.Reader:
		b = Stream(c)
	case fmt.Stringer:
		b = String(c.String())
	default:
		b = String(fmt.Sprint(c))
	}

	return r.msg.WithBody(b)
}

// Json serializes data with ToJson into the body and sets Content-Type to application/json.
func (r Response) Json(data any) (Response, error) {
	s, err := ToJson(data)
	if err != nil {
		return r, err
	}

	return r.WithContentType(jsonContentType).WithBody(String(s)), nil
}

// Xml serializes data with ToXml into the body and sets Content-Type to application/xml.
func (r Response) Xml(data any, root string) (Response, error) {
	s, err := ToXml(data, root)
	if err != nil {
		return r, err
	}

	return r.WithContentType(xmlContentType).WithBody(String(s)), nil
}

// Redirect sets the Location header to target resolved against base with ResolveRedirect.
//
// The default status code is http.StatusFound.
func (r Response) Redirect(base *url.URL, target string, code ...int) (Response, error) {
	loc, err := ResolveRedirect(base, target)
	if err != nil {
		return r, err
	}

	status := http.StatusFound
	if len(code) > 0 && code[0] > 0 {
		status = code[0]
	}

	return r.WithStatus(status).WithHeader("Location", loc), nil
}

// Download binds the body to src as an attachment named filename.
// The content type follows filename's extension, defaulting to application/octet-stream;
// src is read only at emission.
func (r Response) Download(src io.Reader, filename string) Response {
	return r.download(src, filename, typeByName(filename))
}

// DownloadFile opens the file at path as an attachment,
// naming it after the file when filename is empty.
// The content type is detected from the file's first bytes.
// The emitter closes the file after streaming it.
func (r Response) DownloadFile(path, filename string) (Response, error) {
	f, size, err := openDownload(path)
	if err != nil {
		return r, err
	}

	ct, err := sniffFile(f)
	if err != nil {
		f.Close()
		return r, err
	}

	return r.
		download(f, downloadName(path, filename), ct).
		WithHeader("Content-Length", formatSize(size)), nil
}

func (r Response) download(src io.Reader, filename, ct string) Response {
	return r.
		WithHeader("Content-Disposition", contentDisposition(filename)).
		WithContentType(ct).
		WithBody(Stream(src))
}
