package emit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/xy-planning-network/relay/http/resp"
	"github.com/xy-planning-network/relay/logger"
)

const (
	// DefaultChunkSize is the size of each write when streaming a body.
	DefaultChunkSize = 8 << 10

	emitterFrames = 1
)

// An Emitter commits responses onto Exchanges.
//
// An Emitter holds no per-request state;
// one *Emitter can serve every request of an application.
type Emitter struct {
	logger    logger.Logger
	chunkSize int

	// Pool of *[]byte to stream bodies through
	pool *sync.Pool
}

// NewEmitter constructs an *Emitter using the EmitterOptFns passed in.
func NewEmitter(opts ...EmitterOptFn) *Emitter {
	em := &Emitter{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(em)
	}

	if em.logger == nil {
		em.logger = logger.New()
	}

	if l, ok := em.logger.(logger.SkipLogger); ok {
		em.logger = l.AddSkip(l.Skip() + emitterFrames)
	}

	size := em.chunkSize
	em.pool = &sync.Pool{New: func() any {
		b := make([]byte, size)
		return &b
	}}

	return em
}

// Emit writes the message e yields onto ex's Conn:
//
//  1. the status code and reason phrase
//  2. every header value, in insertion order
//  3. every cookie
//  4. the body, streamed in chunks if it is a stream
//  5. if end is true, the end of the response
//
// ex is committed as soon as Emit begins writing, so a failed Emit cannot be retried on it;
// a second call returns ErrDoubleEmission without touching the Conn.
// A stream implementing io.Closer is closed once Emit returns.
//
// ctx is checked before each step. Cancelling it stops emission with an error wrapping ErrEmission,
// but the steps already written are not taken back.
//
// Once emitted, a resp.Response becomes the current Response of the resp.Scope in ctx, if any.
func (em *Emitter) Emit(ctx context.Context, e resp.Emittable, ex *Exchange, end bool) error {
	if ex == nil || ex.conn == nil {
		return fmt.Errorf("%w: no connection to emit onto", ErrInvalid)
	}

	if e == nil {
		return fmt.Errorf("%w: nothing to emit", ErrInvalid)
	}

	m := e.Message()
	lc := &logger.LogContext{Exchange: ex.id, Status: m.StatusCode()}
	if ex.committed {
		err := fmt.Errorf("%w: %s", ErrDoubleEmission, ex.id)
		lc.Error = err
		em.logger.Warn("response already emitted", lc)
		return err
	}

	ex.committed = true
	body := m.Body()
	if c, ok := body.Reader().(io.Closer); ok && body.IsStream() {
		defer c.Close()
	}

	if err := em.emit(ctx, m, ex.conn, end); err != nil {
		err = fmt.Errorf("%w: %w", ErrEmission, err)
		lc.Error = err
		em.logger.Error("could not emit response", lc)
		return err
	}

	if r, ok := e.(resp.Response); ok {
		if s, err := resp.ScopeFromContext(ctx); err == nil {
			s.Set(r)
		}
	}

	return nil
}

func (em *Emitter) emit(ctx context.Context, m resp.Message, c Conn, end bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.SetStatus(m.StatusCode(), m.ReasonPhrase()); err != nil {
		return fmt.Errorf("status: %w", err)
	}

	for _, f := range m.Header().Fields() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := c.WriteHeader(f.Name, f.Value); err != nil {
			return fmt.Errorf("header %s: %w", f.Name, err)
		}
	}

	for _, cookie := range m.Cookies() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := c.SetCookie(cookie); err != nil {
			return fmt.Errorf("cookie %s: %w", cookie.Name, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := em.writeBody(ctx, m.Body(), c); err != nil {
		return fmt.Errorf("body: %w", err)
	}

	if !end {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.End(); err != nil {
		return fmt.Errorf("end: %w", err)
	}

	return nil
}

func (em *Emitter) writeBody(ctx context.Context, body resp.Body, c Conn) error {
	if !body.IsStream() {
		if body.Len() == 0 {
			return nil
		}

		_, err := c.Write(body.Bytes())
		return err
	}

	bp := em.pool.Get().(*[]byte)
	defer em.pool.Put(bp)

	buf := *bp
	r := body.Reader()
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := c.Write(buf[:n]); werr != nil {
				return werr
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("reading stream: %w", err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}
