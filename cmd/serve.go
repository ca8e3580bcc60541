package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lodeline/orescore/internal/config"
	"github.com/lodeline/orescore/internal/model"
	"github.com/lodeline/orescore/internal/scoring"
	"github.com/lodeline/orescore/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scoring API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		weights, err := loadWeightConfig(cfg.Weights)
		if err != nil {
			return err
		}

		engine := scoring.NewEngine(cfg.Engine, scoring.ZapObserver{})
		router := newRouter(engine, st, weights, rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter assembles the API routes with middleware.
func newRouter(engine *scoring.Engine, st store.Store, weights *config.WeightsFile, limit rate.Limit, burst int) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(rateLimiter(limit, burst))

	r.Get("/health", handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/score", handleScore(engine, st, weights))
		r.Get("/metrics", handleMetrics)
		r.Get("/runs", handleListRuns(st))
		r.Get("/runs/{id}", handleGetRun(st))
	})

	return r
}

// rateLimiter applies a single server-wide token bucket.
func rateLimiter(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// scoreRequest is the POST /v1/score body.
type scoreRequest struct {
	Companies []model.Company    `json:"companies"`
	Tiers     []model.AccessTier `json:"tiers,omitempty"`
	Save      bool               `json:"save,omitempty"`
}

func handleScore(engine *scoring.Engine, st store.Store, weights *config.WeightsFile) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Companies) == 0 {
			writeError(w, http.StatusBadRequest, "companies is required")
			return
		}

		tiers := req.Tiers
		if len(tiers) == 0 {
			tiers = []model.AccessTier{model.TierFree, model.TierPro, model.TierPremium}
		}
		for _, t := range tiers {
			switch t {
			case model.TierFree, model.TierPro, model.TierPremium:
			default:
				writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown tier %q", t))
				return
			}
		}

		results := engine.ScoreAll(req.Companies, weights.Weights, weights.NormalizeByShares, model.MetricsForTiers(tiers...))

		run := &model.ScoringRun{
			ID:           uuid.NewString(),
			CreatedAt:    time.Now().UTC(),
			CompanyCount: len(req.Companies),
			Results:      results,
		}

		if req.Save {
			if err := st.SaveRun(r.Context(), run); err != nil {
				zap.L().Error("save run failed", zap.String("run", run.ID), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "failed to persist run")
				return
			}
		}

		writeJSON(w, http.StatusOK, run)
	}
}

func handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.AllMetrics)
}

func handleListRuns(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.RunFilter{Limit: 50}
		if since := r.URL.Query().Get("since"); since != "" {
			d, err := time.ParseDuration(since)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid since duration")
				return
			}
			filter.CreatedAfter = time.Now().Add(-d)
		}

		runs, err := st.ListRuns(r.Context(), filter)
		if err != nil {
			zap.L().Error("list runs failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list runs")
			return
		}
		if runs == nil {
			runs = []model.ScoringRun{}
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

func handleGetRun(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := st.GetRun(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		writeJSON(w, http.StatusOK, run)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
