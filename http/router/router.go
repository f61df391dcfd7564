package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/http/emit"
	"github.com/xy-planning-network/relay/http/middleware"
	"github.com/xy-planning-network/relay/http/resp"
	"github.com/xy-planning-network/relay/logger"
)

// cacheMaxAge is the Cache-Control max-age of files served by ServeFiles.
const cacheMaxAge = "max-age=2592000" // 30 days

// A Route maps a path and HTTP method to a [resp.HandlerFunc].
// Additional [middleware.Adapter] can be called when a server handles
// a request matching the Route.
//
// An empty Method matches every HTTP method.
type Route struct {
	Path        string
	Method      string
	Handler     resp.HandlerFunc
	Middlewares []middleware.Adapter
}

// Router routes requests to the [resp.HandlerFunc] of the matching [Route],
// emitting whatever the handler builds with the Router's [*emit.Emitter].
type Router struct {
	Env           relay.Environment
	em            *emit.Emitter
	everyReqStack []middleware.Adapter
	l             logger.Logger
	logReq        middleware.Adapter
	r             *mux.Router
}

// New constructs a [*Router] for the given environment.
//
// em and l can be nil; defaults are used instead.
// l also logs every request the Router handles.
func New(env relay.Environment, em *emit.Emitter, l logger.Logger) *Router {
	if l == nil {
		l = logger.New()
	}

	if em == nil {
		em = emit.NewEmitter(emit.WithLogger(l))
	}

	return &Router{
		Env:    env,
		em:     em,
		l:      l,
		logReq: middleware.LogRequest(l),
		r:      mux.NewRouter(),
	}
}

// CatchAll sets up a handler for all routes to funnel to for e.g. maintenance mode.
func (r *Router) CatchAll(handler resp.HandlerFunc) {
	mws := append([]middleware.Adapter{r.logReq}, r.stack()...)
	r.r.PathPrefix("/").Handler(middleware.Chain(r.wrap(handler), mws...))
}

// Handle applies the [Route] to the [*Router].
func (r *Router) Handle(route Route) {
	r.HandleRoutes([]Route{route})
}

// HandleNotFound sets the provided [resp.HandlerFunc] as the default function
// for when no other registered Route is matched.
func (r *Router) HandleNotFound(handler resp.HandlerFunc) {
	r.r.NotFoundHandler = middleware.Chain(r.wrap(handler), r.logReq)
}

// HandleMethodNotAllowed sets the provided [resp.HandlerFunc] as the function
// for when a registered path is requested with an HTTP method no Route names.
func (r *Router) HandleMethodNotAllowed(handler resp.HandlerFunc) {
	r.r.MethodNotAllowedHandler = middleware.Chain(r.wrap(handler), r.logReq)
}

// HandleRoutes registers the set of Routes on the Router
// and includes all the [middleware.Adapter] on each Route, after logging the request.
// Any [middleware.Adapter] already assigned to a Route is appended to middlewares,
// so are called after the default set.
func (r *Router) HandleRoutes(routes []Route, middlewares ...middleware.Adapter) {
	for _, route := range routes {
		mws := append([]middleware.Adapter{r.logReq}, r.stack()...)
		mws = append(mws, middlewares...)
		mws = append(mws, route.Middlewares...)

		mr := r.r.Handle(route.Path, middleware.Chain(r.wrap(route.Handler), mws...))
		if route.Method != "" {
			mr.Methods(route.Method)
		}
	}
}

// OnEveryRequest appends the middlewares to the existing stack
// that the [*Router] will apply to every request.
func (r *Router) OnEveryRequest(middlewares ...middleware.Adapter) {
	r.everyReqStack = append(r.everyReqStack, middlewares...)
}

// ServeFiles serves the files of root under prefix,
// marking them cacheable by clients.
func (r *Router) ServeFiles(prefix string, root http.FileSystem) {
	r.r.PathPrefix(prefix).Handler(middleware.Chain(
		http.StripPrefix(prefix, http.FileServer(root)),
		cacheControl,
		r.logReq,
	))
}

// ServeHTTP responds to an HTTP request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.r.ServeHTTP(w, req)
}

// Subrouter constructs a [Router] that handles requests to endpoints matching the prefix.
//
// e.g., r.Subrouter("/api/v1") handles requests to endpoints like /api/v1/users
func (r *Router) Subrouter(prefix string) *Router {
	return r.sub(r.r.PathPrefix(prefix).Subrouter())
}

// SubrouterHost constructs a [Router] that handles requests made to host.
func (r *Router) SubrouterHost(host string) *Router {
	return r.sub(r.r.Host(host).Subrouter())
}

func (r *Router) sub(mr *mux.Router) *Router {
	return &Router{
		Env:           r.Env,
		em:            r.em,
		everyReqStack: r.stack(),
		l:             r.l,
		logReq:        r.logReq,
		r:             mr,
	}
}

// stack copies everyReqStack so appending to it never writes into the Router's.
func (r *Router) stack() []middleware.Adapter {
	return append([]middleware.Adapter(nil), r.everyReqStack...)
}

// wrap adapts handler into an http.Handler recovering from panics where the environment reports them.
func (r *Router) wrap(handler resp.HandlerFunc) http.Handler {
	return middleware.ReportPanic(r.Env)(middleware.Scoped(r.em, r.l, handler))
}

// cacheControl helps by adding a "Cache-Control" header to the response.
func cacheControl(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cacheMaxAge)
		handler.ServeHTTP(w, r)
	})
}
