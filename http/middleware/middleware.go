package middleware

import (
	"net/http"

	"github.com/xy-planning-network/relay/http/emit"
	"github.com/xy-planning-network/relay/http/resp"
)

// An Adapter allows chaining middlewares together.
type Adapter func(http.Handler) http.Handler

// Chain glues the set of adapters to the handler.
func Chain(handler http.Handler, adapters ...Adapter) http.Handler {
	//NOTE: Loop in reverse to preserve middleware order
	for i := len(adapters) - 1; i >= 0; i-- {
		if adapters[i] == nil {
			continue
		}

		handler = adapters[i](handler)
	}

	return handler
}

// NoopAdapter passes the request on to the next handler, doing nothing else.
func NoopAdapter(h http.Handler) http.Handler { return h }

// respond emits e as the whole response to r on w.
// Failures are logged by em.
func respond(em *emit.Emitter, w http.ResponseWriter, r *http.Request, e resp.Emittable) {
	ex := emit.NewExchange(emit.NewWriterConn(w))
	_ = em.Emit(r.Context(), e, ex, true)
}

// status emits an empty response with code.
func status(em *emit.Emitter, w http.ResponseWriter, r *http.Request, code int) {
	respond(em, w, r, resp.Response{}.WithStatus(code))
}
