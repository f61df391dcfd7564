package emit

import (
	"fmt"
	"net/http"
)

// A Conn is the write side of one HTTP response.
//
// An Emitter calls SetStatus once, then WriteHeader for every header value,
// SetCookie for every cookie, Write for every piece of the body and, finally, End.
type Conn interface {
	// SetStatus accepts three-digit codes only, i.e., 100 through 999.
	// A Conn from NewWriterConn drops reason; net/http writes its own reason phrase.
	SetStatus(code int, reason string) error

	// WriteHeader may be called repeatedly with the same name, once per value.
	WriteHeader(name, value string) error

	SetCookie(c *http.Cookie) error

	// Write may be called repeatedly while streaming a body.
	Write(p []byte) (int, error)

	// End signals the response is complete.
	End() error
}

// checkStatus errors on codes that do not fit the three digits of a status line.
func checkStatus(code int) error {
	if code < 100 || code > 999 {
		return fmt.Errorf("%w: status code %d", ErrInvalid, code)
	}

	return nil
}
