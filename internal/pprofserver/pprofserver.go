// Package pprofserver serves the runtime profiling endpoints on a loopback
// listener, kept separate from the public API listener so the profiles are
// never reachable from outside the host.
package pprofserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/fieldworks/skiptrace/internal/errors"
)

// Handle registers the pprof handlers on mux.
func Handle(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
}

// Launch starts a pprof server in a goroutine at the IPv6 loopback address
// ::1 and the given port. The process exits if the server stops, making a
// lost profiling listener visible instead of silent.
func Launch(port string, logger *slog.Logger) {
	go func() {
		ctx := context.Background()
		addr := fmt.Sprintf("[::1]%s", port)
		mux := http.NewServeMux()
		Handle(mux)
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: time.Second,
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String("addr", addr))
		err := srv.ListenAndServe()
		logger.LogAttrs(ctx, slog.LevelError, "pprof server exited", errors.SlogError(err))
		os.Exit(0)
	}()
}
