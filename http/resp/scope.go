package resp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// A HandlerFunc handles a request by building onto the request's Scope.
//
// Returning an error abandons the Scope's Response in favor of an error response;
// return a *StatusError to choose its status code.
type HandlerFunc func(s *Scope, r *http.Request) error

// A Scope holds the current Response of one request.
//
// A Scope lives as long as its request and is carried in that request's context.Context.
// Only the goroutine handling the request uses it, so it is not safe for concurrent use.
type Scope struct {
	base *url.URL
	cur  Response
	out  Emittable
}

// NewScope constructs a *Scope for r, starting from the zero Response.
//
// Relative redirects resolve against r's host;
// the scheme is r.URL's, or https when r arrived over TLS, or http.
func NewScope(r *http.Request) *Scope {
	s := new(Scope)
	if r == nil {
		return s
	}

	host := r.Host
	if host == "" && r.URL != nil {
		host = r.URL.Host
	}

	scheme := "http"
	switch {
	case r.URL != nil && r.URL.Scheme != "":
		scheme = r.URL.Scheme
	case r.TLS != nil:
		scheme = "https"
	}

	if host != "" {
		s.base = &url.URL{Scheme: scheme, Host: host}
	}

	return s
}

// Base returns a copy of the URL relative redirects resolve against, or nil.
func (s *Scope) Base() *url.URL {
	if s.base == nil {
		return nil
	}

	u := *s.base
	return &u
}

// Response returns the current Response.
func (s *Scope) Response() Response { return s.cur }

// Set replaces the current Response with r.
func (s *Scope) Set(r Response) {
	s.cur = r
	s.out = nil
}

// Send replaces what is emitted at the end of the request with e,
// without touching the current Response.
func (s *Scope) Send(e Emittable) { s.out = e }

// Raw sends the current Response's Raw message with content as its body.
func (s *Scope) Raw(content any) { s.Send(s.cur.Raw(content)) }

// Emittable returns what was last passed to Send, otherwise the current Response.
func (s *Scope) Emittable() Emittable {
	if s.out != nil {
		return s.out
	}

	return s.cur
}

// Update applies fns to the current Response,
// storing the result only when every one succeeds.
func (s *Scope) Update(fns ...Fn) error {
	r, err := Apply(s.cur, fns...)
	if err != nil {
		return err
	}

	s.Set(r)
	return nil
}

// Json serializes data into the current Response.
func (s *Scope) Json(data any) error { return s.Update(Json(data)) }

// Xml serializes data into the current Response under the root element.
func (s *Scope) Xml(data any, root string) error { return s.Update(Xml(data, root)) }

// Redirect points the current Response at target, resolved against the request's URL.
func (s *Scope) Redirect(target string, code ...int) error {
	return s.Update(Redirect(s.base, target, code...))
}

// Clear resets the Scope at the end of its request.
func (s *Scope) Clear() { *s = Scope{} }

type scopeKey struct{}

// NewScopeContext returns a copy of ctx carrying s.
func NewScopeContext(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFromContext returns the *Scope carried by ctx.
//
// If ctx carries none, ErrNotFound returns.
func ScopeFromContext(ctx context.Context) (*Scope, error) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	if !ok || s == nil {
		return nil, fmt.Errorf("%w: no *Scope in context", ErrNotFound)
	}

	return s, nil
}
