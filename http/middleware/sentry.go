package middleware

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/xy-planning-network/relay"
)

// ReportPanic recovers panics from the handlers it wraps and reports them to Sentry
// when env reports panics.
//
// Otherwise, NoopAdapter returns and this middleware does nothing.
func ReportPanic(env relay.Environment) Adapter {
	if !env.ReportsPanics() {
		return NoopAdapter
	}

	sh := sentryhttp.New(sentryhttp.Options{
		Repanic:         false,
		WaitForDelivery: true,
	})

	return func(h http.Handler) http.Handler { return sh.Handle(h) }
}
