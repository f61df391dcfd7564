package middleware

import (
	"net/http"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/logger"
)

// scrubbed lists query parameters whose values are never logged.
var scrubbed = []string{"password", "token"}

// LogRequest logs the request's method, requested URL, and originating IP address
// using the enclosed implementation of logger.Logger,
// along with the status, size and duration of the response.
//
// LogRequest scrubs the values for the following keys:
// - password
// - token
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uri := r.URL.Path
			q := r.URL.Query()
			for _, key := range scrubbed {
				if q.Has(key) {
					q.Set(key, "xxxxxxx")
				}
			}

			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			strs := []string{r.Method, uri}
			if ip, ok := r.Context().Value(relay.IpAddrKey).(string); ok {
				strs = append([]string{ip}, strs...)
			}

			m := httpsnoop.CaptureMetricsFn(w, func(ww http.ResponseWriter) {
				h.ServeHTTP(ww, r)
			})

			data := map[string]any{
				"bytes":    m.Written,
				"duration": m.Duration.String(),
			}

			if id, ok := r.Context().Value(relay.RequestIDKey).(string); ok {
				data["request_id"] = id
			}

			ls.Info(strings.Join(strs, " "), &logger.LogContext{Data: data, Status: m.Code})
		})
	}
}
