package emit

import (
	"fmt"
	"net/http"
)

var _ Conn = (*writerConn)(nil)

// writerConn adapts an http.ResponseWriter into a Conn.
//
// net/http writes the status line and headers together,
// so the status is held until the first Write or End.
type writerConn struct {
	w           http.ResponseWriter
	status      int
	wroteHeader bool
}

// NewWriterConn constructs a Conn writing onto w.
func NewWriterConn(w http.ResponseWriter) Conn {
	return &writerConn{w: w, status: http.StatusOK}
}

// SetStatus records code; net/http writes its own reason phrase.
func (c *writerConn) SetStatus(code int, _ string) error {
	if c.wroteHeader {
		return fmt.Errorf("%w: status already written", ErrInvalid)
	}

	if err := checkStatus(code); err != nil {
		return err
	}

	c.status = code
	return nil
}

func (c *writerConn) WriteHeader(name, value string) error {
	if c.wroteHeader {
		return fmt.Errorf("%w: cannot write header %s after the body", ErrInvalid, name)
	}

	c.w.Header().Add(name, value)
	return nil
}

func (c *writerConn) SetCookie(cookie *http.Cookie) error {
	if c.wroteHeader {
		return fmt.Errorf("%w: cannot set cookie %s after the body", ErrInvalid, cookie.Name)
	}

	v := cookie.String()
	if v == "" {
		return fmt.Errorf("%w: cookie name %q", ErrInvalid, cookie.Name)
	}

	c.w.Header().Add("Set-Cookie", v)
	return nil
}

func (c *writerConn) Write(p []byte) (int, error) {
	c.flushHeader()
	return c.w.Write(p)
}

func (c *writerConn) End() error {
	c.flushHeader()
	if f, ok := c.w.(http.Flusher); ok {
		f.Flush()
	}

	return nil
}

func (c *writerConn) flushHeader() {
	if c.wroteHeader {
		return
	}

	c.w.WriteHeader(c.status)
	c.wroteHeader = true
}
