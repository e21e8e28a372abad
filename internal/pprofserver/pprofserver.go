// Package pprofserver exposes the runtime profiles on a separate listener so that they are not reachable through the
// public server.
package pprofserver

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/myrjola/holocron/internal/errors"
)

// LogAddrKey is the attribute the listening address is logged with. It differs from the one of the main server so
// that the two can't be confused.
const LogAddrKey = "pprof_addr"

func Handle(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
}

func newServer(logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	Handle(mux)
	return &http.Server{ //nolint:exhaustruct // defaults are fine for a loopback debug server
		Handler:           mux,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
		ReadHeaderTimeout: time.Second,
	}
}

// Launch starts a pprof server on addr, which should be a loopback address such as "localhost:6060". The server is
// shut down when ctx is done. The returned address is the one actually listened on.
func Launch(ctx context.Context, addr string, logger *slog.Logger) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", errors.Wrap(err, "pprof listen", slog.String("addr", addr))
	}
	srv := newServer(logger)
	logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String(LogAddrKey, listener.Addr().String()))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if serveErr := srv.Serve(listener); !errors.Is(serveErr, http.ErrServerClosed) {
			logger.LogAttrs(ctx, slog.LevelError, "pprof server stopped", errors.SlogError(serveErr))
		}
	}()
	return listener.Addr().String(), nil
}
