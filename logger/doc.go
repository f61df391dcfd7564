/*
Package logger provides logging functionality to a relay app by defining the required behavior in [Logger]
and providing an implementation of it with [RelayLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
[RelayLogger] accepts a [LogLevel] and only emits messages at or above it.
For example, initialized with [LogLevelWarn],
only [*RelayLogger.Warn], [*RelayLogger.Error], and [*RelayLogger.Fatal] produce messages.

# RelayLogger

Log messages emitted by [RelayLogger] are composed of a few parts:
  - timestamp
  - log level
  - call site
  - message
  - log context

Here's an example:

	2022/04/28 15:55:21 [ERROR] relay/http/emit/emitter.go:143 'could not emit' log_context: {"error":"broken pipe","exchange":"6d1c...","status":200}

The log context is a JSON-encoded [*LogContext].
It carries data inessential to the message proper,
like the exchange a response was being emitted on.

# SentryLogger

When SENTRY_DSN is set, [New] returns a [*SentryLogger],
which ships errors carried in a [*LogContext] to Sentry.
*/
package logger
