package resp

import (
	"bytes"
	"io"
)

// A Body is the payload of a Message:
// either materialized bytes or a lazy stream read at emission.
//
// A stream can be read only once;
// every Message sharing that Body shares the one stream.
type Body struct {
	b []byte
	r io.Reader
}

// Bytes constructs a materialized Body from a copy of b.
func Bytes(b []byte) Body { return Body{b: append([]byte(nil), b...)} }

// String constructs a materialized Body from s.
func String(s string) Body { return Body{b: []byte(s)} }

// Stream constructs a lazy Body reading from r.
// If r is also an io.Closer, the emitter closes it once drained.
func Stream(r io.Reader) Body {
	if r == nil {
		return Body{}
	}

	return Body{r: r}
}

// IsStream reports whether the Body is a lazy stream.
func (b Body) IsStream() bool { return b.r != nil }

// Len returns the number of materialized bytes or -1 for a stream.
func (b Body) Len() int {
	if b.r != nil {
		return -1
	}

	return len(b.b)
}

// Bytes returns a copy of the materialized bytes;
// a stream returns nil.
func (b Body) Bytes() []byte {
	if b.r != nil {
		return nil
	}

	return append([]byte(nil), b.b...)
}

// Reader returns an io.Reader over the Body.
// For a stream, this is the stream itself.
func (b Body) Reader() io.Reader {
	if b.r != nil {
		return b.r
	}

	return bytes.NewReader(b.b)
}

// String returns the materialized bytes as a string;
// a stream returns the empty string and is left unread.
func (b Body) String() string {
	if b.r != nil {
		return ""
	}

	return string(b.b)
}
