package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	sderrors "github.com/RSGInc/spatialdigraph/pkg/errors"
	"github.com/RSGInc/spatialdigraph/pkg/gis"
	"github.com/RSGInc/spatialdigraph/pkg/spatial"
)

// newServeCmd creates the serve command exposing a loaded dataset over HTTP.
//
// Endpoints:
//   - GET /healthz           liveness probe
//   - GET /features          the whole graph as a FeatureCollection
//   - GET /nodes/{id}        a single node feature
//   - GET /edges/{from}/{to} a single edge feature
func newServeCmd() *cobra.Command {
	var (
		flags readFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve [dataset]",
		Short: "Serve a dataset's features over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			logger := loggerFromContext(ctx)

			if addr == "" {
				addr = cfg.Addr
			}

			g, err := gis.Read(ctx, args[0], flags.options(cfg))
			if err != nil {
				return err
			}
			logger.Infof("Serving %d nodes and %d edges on %s", g.NumNodes(), g.NumEdges(), addr)

			srv := &http.Server{
				Addr:              addr,
				Handler:           newRouter(g, logger),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
				return ctx.Err()
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

// newRouter builds the chi router serving the graph. The graph is loaded
// once and treated as read-only; no further synchronization is needed.
func newRouter(g *spatial.Graph, logger *charmlog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/features", func(w http.ResponseWriter, _ *http.Request) {
		fc, err := g.FeatureCollection()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, fc)
	})

	r.Get("/nodes/{id}", func(w http.ResponseWriter, req *http.Request) {
		f, err := g.Feature(chi.URLParam(req, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	})

	r.Get("/edges/{from}/{to}", func(w http.ResponseWriter, req *http.Request) {
		f, err := g.Feature(chi.URLParam(req, "from"), chi.URLParam(req, "to"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	})

	return r
}

// requestLogger logs each request with method, path, and duration.
func requestLogger(logger *charmlog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, req)
			logger.Debugf("%s %s (%s)", req.Method, req.URL.Path, time.Since(start).Round(time.Millisecond))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps library error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch sderrors.GetCode(err) {
	case sderrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case sderrors.ErrCodeUsage, sderrors.ErrCodeConfig:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": sderrors.UserMessage(err)})
}
