package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/myrjola/holocron/internal/errors"
)

func (app *application) configureAndStartServer(ctx context.Context, addr string, requestTimeout time.Duration) error {
	var err error
	shutdownComplete := make(chan struct{})
	idleTimeout := time.Minute
	// The server timeouts leave room for the timeout handler to respond first.
	serverTimeout := requestTimeout + time.Second
	srv := &http.Server{ //nolint:exhaustruct // defaults are fine for the rest
		ErrorLog:          slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
		Handler:           app.routes(requestTimeout),
		IdleTimeout:       idleTimeout,
		ReadTimeout:       serverTimeout,
		WriteTimeout:      serverTimeout,
		ReadHeaderTimeout: time.Second,
	}
	go func() {
		sigctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		<-sigctx.Done()
		app.logger.LogAttrs(ctx, slog.LevelInfo, "shutting down server")

		// We received an interrupt signal or the context was cancelled, shut down.
		shutdownContext, cancel := context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd // 5s
		defer cancel()
		if shutdownErr := srv.Shutdown(shutdownContext); shutdownErr != nil {
			app.logger.LogAttrs(ctx, slog.LevelError, "error shutting down server",
				errors.SlogError(errors.Wrap(shutdownErr, "shutdown server")))
		}
		close(shutdownComplete)
	}()

	var listener net.Listener
	if listener, err = net.Listen("tcp", addr); err != nil {
		return errors.Wrap(err, "TCP listen")
	}
	app.logger.LogAttrs(ctx, slog.LevelInfo, "starting server",
		slog.String("addr", listener.Addr().String()))
	if err = srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server serve")
	}
	<-shutdownComplete

	return nil
}
