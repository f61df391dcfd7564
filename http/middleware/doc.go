/*
The middleware package defines what a middleware is in relay and a set of basic middlewares.

The available middlewares are:
- CORS
- ForceHTTPS
- Idempotent
- InjectIPAddress
- LogRequest
- RateLimit
- ReportPanic
- RequestID

Scoped is not a middleware itself; it turns a resp.HandlerFunc into the http.Handler
at the end of a chain, emitting whatever the handler built on its resp.Scope.

Due to the amount of configuration required, middleware does not provide a default middleware chain
Instead, the following can be copy-pasted:

	vs := middleware.NewVisitors()
	adpts := []middleware.Adapter{
		middleware.ReportPanic(env),
		middleware.RateLimit(vs, em),
		middleware.ForceHTTPS(env, em),
		middleware.RequestID(relay.RequestIDKey),
		middleware.InjectIPAddress(),
		middleware.LogRequest(log),
	}

	h := middleware.Chain(middleware.Scoped(em, log, handler), adpts...)
*/
package middleware
