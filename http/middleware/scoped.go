package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/http/emit"
	"github.com/xy-planning-network/relay/http/resp"
	"github.com/xy-planning-network/relay/logger"
)

// An errorEnvelope is the body of the response a failing resp.HandlerFunc answers with.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Scoped adapts h into an http.Handler.
//
// Scoped opens an emit.Exchange on w and a *resp.Scope for the request,
// carrying both in the request's context.Context.
// Once h returns, whatever the Scope holds is emitted, unless h already emitted onto the Exchange.
//
// If h returns an error before emitting, the Scope's Response is replaced by a JSON error response:
// a *resp.StatusError chooses its status code, any other error responds with 500.
// 5xx responses do not expose the error's message.
//
// em and l can be nil; Scoped uses defaults for either.
func Scoped(em *emit.Emitter, l logger.Logger, h resp.HandlerFunc) http.Handler {
	if em == nil {
		em = emit.NewEmitter()
	}

	if l == nil {
		l = logger.New()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ex := emit.NewExchange(emit.NewWriterConn(w))
		s := resp.NewScope(r)
		defer s.Clear()

		ctx := resp.NewScopeContext(r.Context(), s)
		ctx = emit.NewExchangeContext(ctx, ex)
		ctx = context.WithValue(ctx, relay.ExchangeIDKey, ex.ID())
		r = r.WithContext(ctx)

		if err := h(s, r); err != nil {
			if ex.Committed() {
				// NOTE(dlk): the Scope holds whatever went out on the wire; keep it as is
				l.Error("handler failed after emitting", &logger.LogContext{
					Error:    err,
					Exchange: ex.ID(),
					Request:  r,
					Status:   s.Response().StatusCode(),
				})
				return
			}

			code := http.StatusInternalServerError
			var se *resp.StatusError
			if errors.As(err, &se) && se.Code >= http.StatusBadRequest {
				code = se.Code
			}

			msg := err.Error()
			lc := &logger.LogContext{Error: err, Exchange: ex.ID(), Request: r, Status: code}
			if code >= http.StatusInternalServerError {
				msg = http.StatusText(code)
				l.Error("handler failed", lc)
			} else {
				l.Warn("handler failed", lc)
			}

			// NOTE(dlk): an errorEnvelope always serializes; on failure Json returns the bare status anyway
			er, _ := resp.Response{}.WithStatus(code).Json(errorEnvelope{Error: errorBody{Status: code, Message: msg}})
			s.Set(er)
		}

		if ex.Committed() {
			return
		}

		_ = em.Emit(ctx, s.Emittable(), ex, true)
	})
}
