/*
Package emit commits finished responses onto connections.

An Emitter writes a resp.Emittable onto the Conn of an Exchange exactly once,
in a fixed order: status, headers, cookies, body and, optionally, the end of the response.

	ex := emit.NewExchange(emit.NewWriterConn(w))
	if err := em.Emit(ctx, r, ex, true); err != nil {
		// the exchange is committed; a second Emit returns ErrDoubleEmission
	}

Emission is not atomic. If ctx is cancelled or the Conn fails part way through,
whatever was already written stays written and the Exchange remains committed.
*/
package emit
