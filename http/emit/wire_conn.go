package emit

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"

	"golang.org/x/net/http/httpguts"
)

var _ Conn = (*wireConn)(nil)

// wireConn writes an HTTP/1.1 response onto a raw stream.
//
// Unless a Content-Length header is written, the body is sent with chunked transfer encoding.
// 1xx, 204 and 304 responses carry no body and so no framing.
type wireConn struct {
	bufw    *bufio.Writer
	chunked io.WriteCloser

	status    int
	wroteHead bool
	hasLength bool
	ended     bool
}

// NewWireConn constructs a Conn writing an HTTP/1.1 response onto w.
// Nothing reaches w until the head is complete or End is called.
func NewWireConn(w io.Writer) Conn {
	return &wireConn{bufw: bufio.NewWriterSize(w, 4096)}
}

func (c *wireConn) SetStatus(code int, reason string) error {
	if c.status != 0 {
		return fmt.Errorf("%w: status already written", ErrInvalid)
	}

	if err := checkStatus(code); err != nil {
		return err
	}

	if reason == "" {
		reason = http.StatusText(code)
	}

	if !httpguts.ValidHeaderFieldValue(reason) {
		return fmt.Errorf("%w: reason phrase %q", ErrInvalid, reason)
	}

	c.status = code
	_, err := fmt.Fprintf(c.bufw, "HTTP/1.1 %03d %s\r\n", code, reason)
	return err
}

func (c *wireConn) WriteHeader(name, value string) error {
	if err := c.headerLine(); err != nil {
		return err
	}

	if !httpguts.ValidHeaderFieldName(name) {
		return fmt.Errorf("%w: header name %q", ErrInvalid, name)
	}

	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("%w: value of header %s", ErrInvalid, name)
	}

	if strings.EqualFold(name, "Content-Length") {
		c.hasLength = true
	}

	_, err := c.bufw.WriteString(name + ": " + value + "\r\n")
	return err
}

func (c *wireConn) SetCookie(cookie *http.Cookie) error {
	if err := c.headerLine(); err != nil {
		return err
	}

	v := cookie.String()
	if v == "" {
		return fmt.Errorf("%w: cookie name %q", ErrInvalid, cookie.Name)
	}

	_, err := c.bufw.WriteString("Set-Cookie: " + v + "\r\n")
	return err
}

func (c *wireConn) Write(p []byte) (int, error) {
	if c.ended {
		return 0, fmt.Errorf("%w: response ended", ErrInvalid)
	}

	if err := c.finishHead(); err != nil {
		return 0, err
	}

	if !bodyAllowed(c.status) {
		if len(p) > 0 {
			return 0, fmt.Errorf("%w: %d responses carry no body", ErrInvalid, c.status)
		}

		return 0, nil
	}

	if c.chunked != nil {
		return c.chunked.Write(p)
	}

	return c.bufw.Write(p)
}

func (c *wireConn) End() error {
	if c.ended {
		return fmt.Errorf("%w: response already ended", ErrInvalid)
	}

	if err := c.finishHead(); err != nil {
		return err
	}

	c.ended = true
	if c.chunked != nil {
		if err := c.chunked.Close(); err != nil {
			return err
		}

		// NOTE: the chunked writer leaves the trailer section to its caller; there are no trailers.
		if _, err := c.bufw.WriteString("\r\n"); err != nil {
			return err
		}
	}

	return c.bufw.Flush()
}

// headerLine guards writing a header line after the status line and before the body.
func (c *wireConn) headerLine() error {
	if c.status == 0 {
		return fmt.Errorf("%w: status not written", ErrInvalid)
	}

	if c.wroteHead {
		return fmt.Errorf("%w: head already written", ErrInvalid)
	}

	return nil
}

func (c *wireConn) finishHead() error {
	if c.wroteHead {
		return nil
	}

	if c.status == 0 {
		return fmt.Errorf("%w: status not written", ErrInvalid)
	}

	if bodyAllowed(c.status) && !c.hasLength {
		c.chunked = httputil.NewChunkedWriter(c.bufw)
		if _, err := c.bufw.WriteString("Transfer-Encoding: chunked\r\n"); err != nil {
			return err
		}
	}

	c.wroteHead = true
	_, err := c.bufw.WriteString("\r\n")
	return err
}

// bodyAllowed reports whether a response with status code may carry a body.
func bodyAllowed(code int) bool {
	switch {
	case code >= 100 && code < 200:
		return false
	case code == http.StatusNoContent, code == http.StatusNotModified:
		return false
	default:
		return true
	}
}
