package resp

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const jsonContentType = "application/json"

// ToJson serializes data into a compact JSON document.
//
// Ordered maps and structs keep their key order; Go maps have their keys sorted.
// Unlike json.Marshal, <, > and & are not escaped.
//
// If data contains a cycle or a value JSON cannot represent,
// ToJson returns an error wrapping ErrSerialization.
func ToJson(data any) (string, error) {
	nd, err := normalize(data, jsonFormat)
	if err != nil {
		return "", err
	}

	b := getBuffer()
	defer putBuffer(b)

	w := newJsonWriter(b)
	if err := w.node(nd); err != nil {
		return "", err
	}

	return b.String(), nil
}

type jsonWriter struct {
	buf     *bytes.Buffer
	scratch *bytes.Buffer
	enc     *json.Encoder
}

func newJsonWriter(buf *bytes.Buffer) *jsonWriter {
	scratch := new(bytes.Buffer)
	enc := json.NewEncoder(scratch)
	enc.SetEscapeHTML(false)
	return &jsonWriter{buf: buf, scratch: scratch, enc: enc}
}

func (w *jsonWriter) node(nd node) error {
	switch nd.kind {
	case nullNode:
		w.buf.WriteString("null")

	case scalarNode:
		return w.scalar(nd.scalar)

	case rawJsonNode:
		w.buf.WriteString(nd.raw)

	case objectNode:
		w.buf.WriteByte('{')
		for i, c := range nd.children {
			if i > 0 {
				w.buf.WriteByte(',')
			}

			if err := w.scalar(c.key); err != nil {
				return err
			}

			w.buf.WriteByte(':')
			if err := w.node(c.val); err != nil {
				return err
			}
		}
		w.buf.WriteByte('}')

	case listNode:
		w.buf.WriteByte('[')
		for i, c := range nd.children {
			if i > 0 {
				w.buf.WriteByte(',')
			}

			if err := w.node(c.val); err != nil {
				return err
			}
		}
		w.buf.WriteByte(']')

	default:
		return fmt.Errorf("%w: cannot write XML as JSON", ErrSerialization)
	}

	return nil
}

// scalar writes v with encoding/json's rules, minus the Encoder's trailing newline.
func (w *jsonWriter) scalar(v any) error {
	w.scratch.Reset()
	if err := w.enc.Encode(v); err != nil {
		return fmt.Errorf("%w: %s", ErrSerialization, err)
	}

	w.buf.Write(bytes.TrimSuffix(w.scratch.Bytes(), []byte("\n")))
	return nil
}
