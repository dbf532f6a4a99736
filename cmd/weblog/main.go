package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	adapthttp "weblog/internal/adapter/http"
	"weblog/internal/adapter/postgres"
	"weblog/internal/app"
	"weblog/internal/config"
)

func main() {
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer func() { _ = db.Close() }()

	sessionRepo := postgres.NewSessionRepo(db)
	postRepo := postgres.NewPostRepo(db)

	hasher := app.NewBcryptHasher(cfg.BcryptCost)
	authSvc := app.NewAuthService(db, sessionRepo, hasher, cfg.SessionTTL)
	postSvc := app.NewPostService(postRepo)

	opts := []adapthttp.Option{adapthttp.WithCORS(cfg.AllowedOrigins)}
	if cfg.ForwardAuth {
		opts = append(opts, adapthttp.WithForwardAuth())
	}
	if cfg.SSOEnabled() {
		oidcCfg, err := adapthttp.NewOIDCConfig(context.Background(),
			cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL)
		if err != nil {
			log.Fatalf("oidc setup: %v", err)
		}
		opts = append(opts, adapthttp.WithOIDC(oidcCfg))
	}

	go sweepSessions(authSvc, cfg.SweepInterval)

	h := adapthttp.New(authSvc, postSvc, cfg.SessionTTL, opts...).Handler()
	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// sweepSessions periodically removes expired sessions.
func sweepSessions(auth *app.AuthService, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := auth.SweepExpiredSessions(ctx); err != nil {
			log.Printf("session sweep: %v", err)
		}
		cancel()
	}
}
