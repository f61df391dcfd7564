package emit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// An Exchange is one request/response cycle on a Conn.
//
// An Exchange is committed once emission onto it begins;
// it is handled by a single goroutine and is not safe for concurrent use.
type Exchange struct {
	id        string
	conn      Conn
	committed bool
}

// NewExchange constructs an *Exchange over c with a fresh UUID.
func NewExchange(c Conn) *Exchange {
	return &Exchange{id: uuid.NewString(), conn: c}
}

// ID returns the Exchange's UUID.
func (ex *Exchange) ID() string { return ex.id }

// Committed reports whether a response has been emitted onto the Exchange.
func (ex *Exchange) Committed() bool { return ex.committed }

type exchangeKey struct{}

// NewExchangeContext returns a copy of ctx carrying ex.
func NewExchangeContext(ctx context.Context, ex *Exchange) context.Context {
	return context.WithValue(ctx, exchangeKey{}, ex)
}

// ExchangeFromContext returns the *Exchange carried by ctx.
func ExchangeFromContext(ctx context.Context) (*Exchange, error) {
	ex, ok := ctx.Value(exchangeKey{}).(*Exchange)
	if !ok || ex == nil {
		return nil, fmt.Errorf("%w: no *Exchange in context", ErrInvalid)
	}

	return ex, nil
}
