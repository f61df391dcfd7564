package ranger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	// TODO(dlk): configurable env files
	_ "github.com/joho/godotenv/autoload"
	"github.com/xy-planning-network/relay"
	"github.com/xy-planning-network/relay/http/emit"
	"github.com/xy-planning-network/relay/http/middleware"
	"github.com/xy-planning-network/relay/http/router"
	"github.com/xy-planning-network/relay/logger"
)

const shutdownTimeout = 5 * time.Second

// A Ranger manages and exposes all components of a relay app to one another.
type Ranger struct {
	*router.Router

	ctx  context.Context
	em   *emit.Emitter
	env  relay.Environment
	idem middleware.IdempotencyCacher
	l    logger.Logger
	srv  *http.Server
	url  *url.URL
}

// New constructs a Ranger from the provided options.
// Default options are applied first followed by the options passed into New.
// Options supplied to New overwrite default configurations.
func New(opts ...RangerOption) (*Ranger, error) {
	r := new(Ranger)
	followups := make([]OptFollowup, 0)

	// NOTE(dlk): calling an option configures the *Ranger under construction.
	// Some options require data from other options.
	// These options, therefore, must delay configuring the *Ranger
	// until either (1) user supplied RangerOptions or (2) default RangerOptions
	// configure the *Ranger first.
	// They return an OptFollowup to be called after the initial set of options are run.
	for _, opt := range append(defaultOpts(), opts...) {
		fn, err := opt(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", relay.ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	for _, fn := range followups {
		if err := fn(); err != nil {
			return nil, fmt.Errorf("%w: %s", relay.ErrBadConfig, err)
		}
	}

	return r, nil
}

func (r *Ranger) EmitEmitter() *emit.Emitter                        { return r.em }
func (r *Ranger) EmitEnv() relay.Environment                        { return r.env }
func (r *Ranger) EmitIdempotencyCache() middleware.IdempotencyCacher { return r.idem }
func (r *Ranger) EmitLogger() logger.Logger                         { return r.l }
func (r *Ranger) EmitServer() *http.Server                          { return r.srv }

// EmitURL returns a copy of the URL the relay app is served over.
func (r *Ranger) EmitURL() *url.URL {
	u := *r.url
	return &u
}

// Idempotent constructs a [middleware.Adapter] making POST routes idempotent
// through the Ranger's idempotency cache.
func (r *Ranger) Idempotent() middleware.Adapter {
	return middleware.Idempotent(r.em, r.idem, nil)
}

// Guide begins the web server.
//
// These, and (*Ranger).Shutdown, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
// - cancelling the context.Context passed to WithContext
func (r *Ranger) Guide() error {
	ctx, stop := signal.NotifyContext(
		r.ctx,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.l.Info(fmt.Sprintf("running web server at %s", r.srv.Addr), nil)
		if err := r.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("could not listen: %w", err)
		}

		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			r.l.Error(err.Error(), nil)
			return err
		}

		return nil

	case <-ctx.Done():
		r.l.Info("received shutdown signal", nil)
		return r.Shutdown()
	}
}

// Shutdown shutdowns the web server, waiting for open requests to finish.
func (r *Ranger) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	r.l.Info("shutting down web server", nil)
	err := r.srv.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	r.l.Info("web server shutdown successfully", nil)
	return nil
}
