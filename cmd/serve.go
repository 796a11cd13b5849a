package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mdf/internal/pipeline"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simulation API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		cfg.Server.Port = port
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		cat, err := loadCatalog()
		if err != nil {
			return eris.Wrap(err, "serve: load catalog")
		}
		orch := pipeline.New(pipeline.Options{
			Catalog:   cat,
			StepDelay: orchestratorDelay(cfg.Simulation.StepDelay),
		})

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(ctx, orch, cfg.Request(), cfg.Server.AllowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// buildRouter wires the API routes. ctx bounds the runs the server starts;
// defaults seed every run request before the body is applied.
func buildRouter(ctx context.Context, orch *pipeline.Orchestrator, defaults pipeline.Request, origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/sources", func(w http.ResponseWriter, r *http.Request) {
		cat := orch.Catalog()
		writeJSON(w, http.StatusOK, map[string]any{
			"sources": cat.Sources,
			"presets": cat.Presets,
		})
	})

	r.Route("/runs", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			req := defaults
			req.Sources = slices.Clone(defaults.Sources)
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}

			updates, err := orch.Start(ctx, req)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			snap := orch.Snapshot()

			// Drain in the background; the run outlives this request.
			go func() {
				for u := range updates {
					if u.Err != nil {
						zap.L().Info("run stopped", zap.String("run_id", u.RunID), zap.Error(u.Err))
					}
					if u.Final != nil {
						zap.L().Info("run complete",
							zap.String("run_id", u.RunID),
							zap.Int("profiles", len(u.Final.Profiles)),
						)
					}
				}
			}()

			writeJSON(w, http.StatusAccepted, map[string]any{
				"status":  "accepted",
				"runId":   snap.RunID,
				"sources": snap.Sources,
				"seed":    snap.Seed,
			})
		})

		r.Post("/advance", func(w http.ResponseWriter, r *http.Request) {
			if !orch.Advance() {
				writeError(w, http.StatusConflict, "no run is waiting to advance")
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "advanced"})
		})

		r.Get("/current", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, orch.Snapshot())
		})

		r.Get("/current/profiles", func(w http.ResponseWriter, r *http.Request) {
			snap := orch.Snapshot()
			writeJSON(w, http.StatusOK, map[string]any{
				"runId":    snap.RunID,
				"stage":    snap.Stage,
				"profiles": snap.Profiles,
				"quality":  snap.Quality,
			})
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
