/*
Package resp builds HTTP responses as immutable values.

A Response starts from its zero value and grows through With methods,
each returning a new Response:

	r, err := resp.Response{}.
		WithStatus(http.StatusCreated).
		WithCookie(&http.Cookie{Name: "seen", Value: "1"}).
		Json(data)

Json and Xml serialize maps, ordered maps, structs, slices and scalars
with stable key order; types take over their own serialization
by implementing json.Marshaler, Arrayable or Xmlable.
Redirect resolves relative targets against the request's host,
and Download streams a body as an attachment.

During a request, a *Scope holds the current Response.
Middleware places the Scope in the request's context.Context
and hands the Scope's final value to an emitter once the handler returns.
*/
package resp
