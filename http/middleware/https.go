package middleware

import (
	"net/http"
	"net/url"

	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/http/emit"
	"github.com/xy-planning-network/relay/http/resp"
)

// ForceHTTPS redirects HTTP requests to HTTPS if the environment is not "development".
//
// The "X-Forwarded-Proto" is used to check whether HTTP was requested due to a relay application
// running behind a proxy.
//
// The redirect is a 308 emitted by em; if em is nil, a default *emit.Emitter is used.
func ForceHTTPS(env relay.Environment, em *emit.Emitter) Adapter {
	if env.IsDevelopment() {
		return NoopAdapter
	}

	if em == nil {
		em = emit.NewEmitter()
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Forwarded-Proto") == "https" {
				handler.ServeHTTP(w, r)
				return
			}

			base := &url.URL{Scheme: "https", Host: r.Host}
			res, err := resp.Response{}.Redirect(base, r.URL.RequestURI(), http.StatusPermanentRedirect)
			if err != nil {
				status(em, w, r, http.StatusBadRequest)
				return
			}

			respond(em, w, r, res)
		})
	}
}
