// cmd/server is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stridefantasy/roster-engine/internal/config"
	"github.com/stridefantasy/roster-engine/internal/database"
	"github.com/stridefantasy/roster-engine/internal/handler"
	"github.com/stridefantasy/roster-engine/internal/repository"
	"github.com/stridefantasy/roster-engine/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ── 1. Connect to PostgreSQL ──────────────────────────────────────────
	pool, err := database.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	log.Println("connected to PostgreSQL")

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// ── 2. Wire up layers ────────────────────────────────────────────────
	athleteRepo := repository.NewAthleteRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	rosterSvc := service.NewRosterService(athleteRepo, sessionRepo, cfg.Game.RosterConfig(), cfg.Game.RosterLockTime)
	rosterHandler := handler.NewRosterHandler(rosterSvc)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.CORS)            // permissive CORS for the browser UI

	// Operational endpoints
	r.Get("/health", handler.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Get("/athletes", rosterHandler.ListAthletes)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", rosterHandler.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", rosterHandler.GetSession)
			r.Put("/slots/{slot}", rosterHandler.SetSlot)
			r.Delete("/slots/{slot}", rosterHandler.ClearSlot)
			r.Post("/clear", rosterHandler.ClearRoster)
			r.Post("/submit", rosterHandler.Submit)
			r.Post("/lock", rosterHandler.Lock)
			r.Get("/validation", rosterHandler.Validation)
			r.Get("/preflight", rosterHandler.Preflight)
		})
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Printf("server listening on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}
