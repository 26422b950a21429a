// Package server provides the HTTP API for the recommendation pipeline.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mbaxter/reeltaste/internal/letterboxd"
	"github.com/mbaxter/reeltaste/internal/pipeline"
	"github.com/mbaxter/reeltaste/internal/server/ratelimit"
	"github.com/mbaxter/reeltaste/internal/trakt"
	"github.com/mbaxter/reeltaste/internal/types"
)

// Recommender runs one recommendation request; implemented by the pipeline.
type Recommender interface {
	Recommend(ctx context.Context, req pipeline.Request) (*types.Recommendation, error)
}

// Diagnoser produces a listing visibility report for a username.
type Diagnoser interface {
	Diagnose(ctx context.Context, user string) *letterboxd.Report
}

// Config holds server configuration.
type Config struct {
	Port      int
	RateLimit *ratelimit.Config
}

// Server represents the HTTP server.
type Server struct {
	httpServer  *http.Server
	recommender Recommender
	diagnoser   Diagnoser
	trakt       *trakt.Client
	rateLimiter *ratelimit.Limiter
	validator   *requestValidator
}

// New creates a new server instance. The Trakt client may be nil when no
// Trakt credentials are configured; its routes then answer 503.
func New(cfg Config, recommender Recommender, diagnoser Diagnoser, traktClient *trakt.Client) *Server {
	s := &Server{
		recommender: recommender,
		diagnoser:   diagnoser,
		trakt:       traktClient,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		validator:   newRequestValidator(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /recommend", s.handleRecommend)
	mux.HandleFunc("GET /diagnose/{username}", s.handleDiagnose)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /trakt/token", s.handleTraktToken)
	mux.HandleFunc("GET /trakt/users/{username}/ratings", s.handleTraktRatings)
	mux.HandleFunc("GET /trakt/users/{username}/history", s.handleTraktHistory)
	mux.HandleFunc("GET /trakt/users/{username}/watchlist", s.handleTraktWatchlist)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.withRateLimit(s.withLogging(s.withCORS(mux))),
		// A recommend request scrapes, resolves, embeds, and ranks, so the
		// write timeout runs long.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-stop
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	log.Info().Msg("server stopped")
	return nil
}

// Handler exposes the configured handler chain for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r))

		setRateLimitHeaders(w, info)
		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
			}
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("encoding json response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// clientID extracts the client identifier (the IP) from the request.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}
