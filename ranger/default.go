package ranger

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/http/emit"
	"github.com/xy-planning-network/relay/http/middleware"
	"github.com/xy-planning-network/relay/http/resp"
	"github.com/xy-planning-network/relay/http/router"
	"github.com/xy-planning-network/relay/logger"
)

const (
	// Base URL defaults
	BaseURLEnvVar = "RELAY_BASE_URL"

	// App metadata
	ContactUsEnvVar  = "CONTACT_US_EMAIL"
	defaultContactUs = "hello@xyplanningnetwork.com"

	// CORS defaults
	corsOriginEnvVar = "RELAY_CORS_ORIGIN"

	// Emitter defaults
	chunkSizeEnvVar = "RELAY_CHUNK_SIZE"

	// Environment defaults
	environmentEnvVar = "RELAY_ENV"

	// Idempotency defaults
	redisAddrEnvVar     = "RELAY_REDIS_ADDR"
	redisPasswordEnvVar = "RELAY_REDIS_PASSWORD"
	redisPingTimeout    = 2 * time.Second

	// Log defaults
	logLevelEnvVar = "RELAY_LOG_LEVEL"

	// Maintenance mode defaults
	maintModeEnvVar = "RELAY_MAINTENANCE_MODE"
	maintRetryAfter = "600"

	// Web server defaults
	DefaultHost               = "localhost"
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second
)

var defaultBaseURL = "http://" + DefaultHost + DefaultPort

// defaultOpts are applied by New before any RangerOption passed in.
func defaultOpts() []RangerOption {
	return []RangerOption{
		WithEnv(""),
		withBaseURL(),
		withDefaults(),
	}
}

// withBaseURL reads the URL the app is served over from RELAY_BASE_URL.
func withBaseURL() RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		u := relay.EnvVarOrURL(BaseURLEnvVar, defaultBaseURL)
		if u == nil {
			return nil, fmt.Errorf("%w: %s is not a URL", relay.ErrNotValid, BaseURLEnvVar)
		}

		rng.url = u
		return nil, nil
	}
}

// withDefaults constructs a followup filling in every component
// a RangerOption passed to New did not supply.
func withDefaults() RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		return func() error {
			if rng.ctx == nil {
				rng.ctx = context.Background()
			}

			if rng.l == nil {
				rng.l = defaultLogger(rng.env)
			}

			if rng.em == nil {
				rng.em = defaultEmitter(rng.l)
			}

			if rng.idem == nil {
				rng.idem = defaultIdempotencyCache(rng.ctx, rng.l)
			}

			rng.Router = defaultRouter(rng.env, rng.em, rng.l, defaultMiddlewares(rng.env, rng.em))
			if relay.EnvVarOrBool(maintModeEnvVar, false) {
				rng.l.Warn("maintenance mode on: every route answers 503", nil)
				rng.Router.CatchAll(MaintModeHandler(relay.EnvVarOrString(ContactUsEnvVar, defaultContactUs)))
			}

			if rng.srv == nil {
				rng.srv = defaultServer(rng.ctx)
			}

			rng.srv.Handler = rng.Router
			return nil
		}, nil
	}
}

// defaultLogger constructs a [logger.Logger] configured for use in the application.
func defaultLogger(env relay.Environment) logger.Logger {
	l := logger.New(
		logger.WithEnv(env.String()),
		logger.WithLevel(relay.EnvVarOrLogLevel(logLevelEnvVar, logger.LogLevelInfo)),
	)
	l.Debug("setting up app logger", nil)

	return l
}

// defaultEmitter constructs the [*emit.Emitter] writing every response.
func defaultEmitter(l logger.Logger) *emit.Emitter {
	return emit.NewEmitter(
		emit.WithLogger(l),
		emit.WithChunkSize(relay.EnvVarOrInt(chunkSizeEnvVar, emit.DefaultChunkSize)),
	)
}

// defaultIdempotencyCache connects to Redis when RELAY_REDIS_ADDR is set,
// otherwise falling back to keeping responses in memory.
func defaultIdempotencyCache(ctx context.Context, l logger.Logger) middleware.IdempotencyCacher {
	addr := relay.EnvVarOrString(redisAddrEnvVar, "")
	if addr == "" {
		l.Debug("using in-memory idempotency cache", nil)
		return middleware.NewIdemResMap()
	}

	cache := middleware.NewRedisCache(&redis.Options{
		Addr:     addr,
		Password: relay.EnvVarOrString(redisPasswordEnvVar, ""),
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := cache.Ping(pingCtx); err != nil {
		l.Error("could not reach redis, using in-memory idempotency cache", &logger.LogContext{Error: err})
		cache.Close()
		return middleware.NewIdemResMap()
	}

	l.Debug(fmt.Sprintf("using redis idempotency cache at %s", addr), nil)
	return cache
}

// defaultMiddlewares is the stack of [middleware.Adapter] called on every request.
func defaultMiddlewares(env relay.Environment, em *emit.Emitter) []middleware.Adapter {
	return []middleware.Adapter{
		middleware.RateLimit(middleware.NewVisitors(), em),
		middleware.ForceHTTPS(env, em),
		middleware.CORS(relay.EnvVarOrString(corsOriginEnvVar, "")),
		middleware.RequestID(relay.RequestIDKey),
		middleware.InjectIPAddress(),
	}
}

// defaultRouter constructs a [*router.Router] to be used by the web server.
func defaultRouter(env relay.Environment, em *emit.Emitter, l logger.Logger, mws []middleware.Adapter) *router.Router {
	route := router.New(env, em, l)
	route.OnEveryRequest(mws...)
	route.HandleNotFound(func(_ *resp.Scope, _ *http.Request) error {
		return resp.NewStatusError(http.StatusNotFound, nil)
	})

	return route
}

// defaultServer constructs a default [*http.Server].
func defaultServer(ctx context.Context) *http.Server {
	port := relay.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		IdleTimeout:  relay.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  relay.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: relay.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}

// MaintModeHandler answers every request with 503 and a Retry-After header,
// pointing users at contact in the body.
func MaintModeHandler(contact string) resp.HandlerFunc {
	return func(s *resp.Scope, r *http.Request) error {
		body := map[string]string{
			"message": fmt.Sprintf("%s is down for maintenance; questions can go to %s", r.Host, contact),
		}

		return s.Update(
			resp.Code(http.StatusServiceUnavailable),
			resp.SetHeader("Retry-After", maintRetryAfter),
			resp.Json(body),
		)
	}
}

// parseURL is the *url.URL form of raw, or an error wrapping relay.ErrNotValid.
func parseURL(raw string) (*url.URL, error) {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", relay.ErrNotValid, err)
	}

	return u, nil
}
