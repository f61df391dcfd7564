package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"hash"
	"io"
	"net/http"
	"sort"
	"sync"

	"github.com/xy-planning-network/relay/http/emit"
	"github.com/xy-planning-network/relay/http/resp"
)

const (
	IdempotencyHeader = "Idempotency-Key"
)

var (
	_            http.ResponseWriter = idemReqWriter{}
	hasherLock                       = sync.Mutex{}
	defaultCache                     = NewIdemResMap()
	defaultHash                      = sha256.New()
)

// Idempotent returns a middleware.Adapter that enables features
// of idempotency on a POST endpoint.
// GET, DELETE, PUT, & PATCH are idempotent by definition.
//
// Idempotent pulls a key (a UUID v4 string) from request headers
// to base the uniqueness of a POST request around.
//
// If a previous request has not used that key,
// Idempotent pairs all of the following values to the key:
// - the body of the request
// - the status code, headers and body of the resulting response
//
// If that key has been used before (and has not expired),
// Idempotent falls into one of these scenarios:
//
//   - if a status code has not been set for that key,
//     Idempotent responds with 409 since the idempotent request is still processing
//
//   - if the newly requested resource (the URI) does not match the original,
//     Idempotent responds with 422
//
//   - if the new request's body does not match the body of the original request's,
//     Idempotent responds with 422
//
// - Idempotent emits the status code, headers and body saved for the key
//
// em, cache and hasher can be nil.
// Idempotent will use a default *emit.Emitter, cache and implementation of hash.Hash, accordingly.
//
// Idempotent implements the draft Idempotent HTTP Header Field specification:
// https://tools.ietf.org/id/draft-idempotency-header-01.html
func Idempotent(em *emit.Emitter, cache IdempotencyCacher, hasher hash.Hash) Adapter {
	if em == nil {
		em = emit.NewEmitter()
	}

	if cache == nil {
		cache = defaultCache
	}

	if hasher == nil {
		hasher = defaultHash
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				status(em, w, r, http.StatusMethodNotAllowed)
				return
			}

			key := r.Header.Get(IdempotencyHeader)
			if key == "" {
				status(em, w, r, http.StatusBadRequest)
				return
			}

			sum, body, err := hashBody(hasher, r.Body)
			if err != nil {
				status(em, w, r, http.StatusInternalServerError)
				return
			}

			r.Body = io.NopCloser(body)

			ir, ok := cache.Get(r.Context(), key)
			if ok {
				if ir.Status == 0 {
					status(em, w, r, http.StatusConflict)
					return
				}

				if ir.URI != r.URL.RequestURI() || !bytes.Equal(ir.Req, sum) {
					status(em, w, r, http.StatusUnprocessableEntity)
					return
				}

				respond(em, w, r, ir.Response())
				return
			}

			ir = NewIdemRes(r.URL.RequestURI(), sum)
			cache.Set(r.Context(), key, ir)

			irw := idemReqWriter{
				ctx: r.Context(),
				c:   cache,
				i:   &ir,
				k:   key,
				w:   w,
			}
			handler.ServeHTTP(irw, r)
		})
	}
}

// hashBody sums the contents of body with hasher,
// returning a buffer holding those same contents.
func hashBody(hasher hash.Hash, body io.Reader) ([]byte, *bytes.Buffer, error) {
	hasherLock.Lock()
	defer hasherLock.Unlock()
	defer hasher.Reset()

	tee := bytes.NewBuffer(nil)
	if body != nil {
		if _, err := io.Copy(hasher, io.TeeReader(body, tee)); err != nil {
			return nil, nil, err
		}
	}

	return hasher.Sum(nil), tee, nil
}

// An IdemRes is data from an HTTP response
// that can be reused when another request
// matches the same idempotency key.
type IdemRes struct {
	Body   *bytes.Buffer
	Header http.Header
	Req    []byte
	Status int
	URI    string
}

// An idemResGob is an intermediate represenation of
// an IdemRes for the purposes of gob encoding/decoding.
//
// idemResGob is necessary as long as pkg gob cannot decode/encode
// fields in an IdemRes (e.g., Body).
type idemResGob struct {
	B []byte
	H map[string][]string
	R []byte
	S int
	U string
}

// NewIdemRes constructs a new *IdemRes.
func NewIdemRes(uri string, hashedBody []byte) IdemRes {
	return IdemRes{Body: bytes.NewBuffer(nil), Header: make(http.Header), URI: uri, Req: hashedBody}
}

// Response rebuilds the saved response as a resp.Response ready for emitting.
//
// Header names are sorted, since an http.Header keeps no order.
func (i IdemRes) Response() resp.Response {
	r := resp.Response{}.WithStatus(i.Status)

	names := make([]string, 0, len(i.Header))
	for name := range i.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, v := range i.Header[name] {
			r = r.WithAddedHeader(name, v)
		}
	}

	if i.Body != nil {
		r = r.WithBody(resp.Bytes(i.Body.Bytes()))
	}

	return r
}

// GobDecode unmarshals the gob-encoded []byte into fields of the *IdemRes.
//
// GobDecode implements gob.GobDecoder.
func (i *IdemRes) GobDecode(b []byte) error {
	g := new(idemResGob)
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(g); err != nil {
		return err
	}

	i.Body = bytes.NewBuffer(g.B)
	i.Header = http.Header(g.H)
	if i.Header == nil {
		i.Header = make(http.Header)
	}

	i.Req, i.Status, i.URI = g.R, g.S, g.U
	return nil
}

// GobEncode marshals the fields of the IdemRes into a gob-encoded []byte.
//
// GobEncode implements gob.GobEncoder.
func (i IdemRes) GobEncode() ([]byte, error) {
	var body []byte
	if i.Body != nil {
		body = i.Body.Bytes()
	}

	buf := bytes.NewBuffer(nil)
	g := idemResGob{body, i.Header, i.Req, i.Status, i.URI}
	if err := gob.NewEncoder(buf).Encode(g); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// An idemReqWriter pairs an IdemRes with an http.ResponseWriter
// so both can be written to by an HTTP handler.
// Changes to the IdemRes in such a way are saved in the cache.
//
// An idemReqWriter implements http.ResponseWriter.
type idemReqWriter struct {
	ctx context.Context
	c   IdempotencyCacher
	i   *IdemRes
	k   string
	w   http.ResponseWriter
}

// Header returns the http.Header of the underlying http.ResponseWriter.
func (irw idemReqWriter) Header() http.Header { return irw.w.Header() }

// Write writes the bytes to all consumers the idemReqWriter is concerned with.
func (irw idemReqWriter) Write(b []byte) (int, error) {
	select {
	case <-irw.ctx.Done():
		return 0, nil
	default:
		if irw.i.Status == 0 {
			irw.WriteHeader(http.StatusOK)
		}

		n, err := irw.w.Write(b)
		if err != nil {
			return n, err
		}

		if _, err = irw.i.Body.Write(b); err != nil {
			return n, err
		}

		irw.c.Set(irw.ctx, irw.k, *irw.i)
		return n, nil
	}
}

// WriteHeader copies the status code and headers about to be written to the *IdemRes for later reuse
// before actually writing the status code.
func (irw idemReqWriter) WriteHeader(s int) {
	select {
	case <-irw.ctx.Done():
		return
	default:
		irw.i.Header = irw.w.Header().Clone()
		irw.w.WriteHeader(s)
		irw.i.Status = s
		irw.c.Set(irw.ctx, irw.k, *irw.i)
	}
}

// Flush sends buffered data on to the client when the underlying http.ResponseWriter supports it.
//
// Flush implements http.Flusher.
func (irw idemReqWriter) Flush() {
	if f, ok := irw.w.(http.Flusher); ok {
		f.Flush()
	}
}
