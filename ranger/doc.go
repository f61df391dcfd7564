/*
Package ranger initializes and manages a relay app with sane defaults.

# Ranger

The main entrypoint to package ranger is the [Ranger] type.
A [Ranger] ought to be constructed with [New].

[*Ranger.Guide] begins a relay app's web server.
By default, [*Ranger.Guide] listens on [DefaultPort] (:3000),
assuming either a reverse proxy proxies requests
or only a client application makes direct requests to the relay web server.

Upon calling [*Ranger.Guide], all routes configured up to that point are now active.
Stop that web server with [*Ranger.Shutdown],
cancel the context.Context passed to [WithContext],
or send a signal [*Ranger.Guide] listens for.

Every route runs behind the same middleware stack:
rate limiting, forcing HTTPS outside of development, CORS, request IDs and IP address injection.
[*Ranger.Idempotent] adds idempotency to POST routes.

# Configuration

A developer configures a relay app through environment variables
and by passing [RangerOption] to [New].

Environment variables ought to be set in a file called ".env"
found at the same directory the application is executed from.

Here are the available environment variables.
  - CONTACT_US_EMAIL: the email address end users can contact during maintenance; default: hello@xyplanningnetwork.com
  - PORT: the port the application should listen on; default: :3000
  - RELAY_BASE_URL: the base URL the application runs on; default: http://localhost:3000
  - RELAY_CHUNK_SIZE: the number of bytes streamed response bodies are written in; default: 8192
  - RELAY_CORS_ORIGIN: the origin allowed to make cross-origin requests; default: none
  - RELAY_ENV: the environment the application is running in; cf. [relay.Environment]
  - RELAY_LOG_LEVEL: the level at which to begin logging; default: INFO; cf. [logger.LogLevel]
  - RELAY_MAINTENANCE_MODE: when true, every request is answered with 503; default: false
  - RELAY_REDIS_ADDR: the address of a Redis server caching idempotent responses; default: in memory
  - RELAY_REDIS_PASSWORD: the password for authenticating with that Redis server
  - SENTRY_DSN: the DSN errors and panics are reported to; default: none
  - SERVER_IDLE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for idling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for writing HTTP responses; default: 5s
*/
package ranger
