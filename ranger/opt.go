package ranger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/http/emit"
	"github.com/xy-planning-network/relay/http/middleware"
	"github.com/xy-planning-network/relay/http/router"
	"github.com/xy-planning-network/relay/logger"
)

// A RangerOption configures a *Ranger either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some RangerOptions require data in others and thus an OptFollowup can be returned
// in order to be called at a later time when that data is available.
//
// WithLogger is an example of the first.
// An unexported field on the passed in *Ranger is updated with the enclosed value.
//
// WithRoutes is an example of the second.
// Routes are registered only when the closure it returns is called,
// after the *Ranger's router exists.
type RangerOption func(rng *Ranger) (OptFollowup, error)
type OptFollowup func() error

// WithBaseURL sets the URL the relay app is served over, replacing RELAY_BASE_URL.
func WithBaseURL(raw string) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		u, err := parseURL(raw)
		if err != nil {
			return nil, err
		}

		rng.url = u
		return nil, nil
	}
}

// WithContext exposes the provided context.Context to the relay app.
// Cancelling ctx stops (*Ranger).Guide.
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if ctx == nil {
			return nil, fmt.Errorf("%w: nil context.Context", relay.ErrMissingData)
		}

		rng.ctx = ctx
		return nil, nil
	}
}

// WithEmitter exposes the provided *emit.Emitter to the relay app.
func WithEmitter(em *emit.Emitter) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.em = em
		return nil, nil
	}
}

// WithEnv casts the provided string into a valid relay.Environment,
// or, reads from the RELAY_ENV environment variable a valid relay.Environment.
//
// If both fail, the default relay.Environment is set to Development.
func WithEnv(envVar string) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		e := relay.Environment(envVar)
		if err := e.Valid(); err != nil {
			e = relay.EnvVarOrEnv(environmentEnvVar, relay.Development)
		}

		rng.env = e
		return nil, nil
	}
}

// WithIdempotencyCache exposes the provided middleware.IdempotencyCacher to the relay app,
// replacing the cache RELAY_REDIS_ADDR configures.
func WithIdempotencyCache(c middleware.IdempotencyCacher) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.idem = c
		return nil, nil
	}
}

// WithLogger exposes the provided logger.Logger to the relay app.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.l = l
		return nil, nil
	}
}

// WithRoutes constructs a followup option that, when called,
// registers routes with the Ranger's router behind middlewares.
func WithRoutes(routes []router.Route, middlewares ...middleware.Adapter) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		return func() error {
			rng.HandleRoutes(routes, middlewares...)
			rng.l.Debug(fmt.Sprintf("registered %d routes", len(routes)), nil)
			return nil
		}, nil
	}
}

// WithServer exposes the *http.Server to the relay app.
// The Ranger's router becomes its Handler.
func WithServer(s *http.Server) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if s == nil {
			return nil, fmt.Errorf("%w: nil *http.Server", relay.ErrMissingData)
		}

		rng.srv = s
		if rng.Router != nil {
			rng.srv.Handler = rng.Router
		}

		return nil, nil
	}
}
