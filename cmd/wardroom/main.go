package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/wardroomhq/wardroom/internal/api"
	"github.com/wardroomhq/wardroom/internal/config"
	"github.com/wardroomhq/wardroom/internal/session"
	"github.com/wardroomhq/wardroom/internal/session/storage"
	"github.com/wardroomhq/wardroom/internal/store"
	"github.com/wardroomhq/wardroom/internal/web"
	"github.com/wardroomhq/wardroom/internal/web/handlers"
	"github.com/wardroomhq/wardroom/internal/web/middleware"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()

	var keyring session.Storage
	switch cfg.Session.Backend {
	case "redis":
		opt, err := redis.ParseURL(cfg.Session.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient := redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; falling back to file keyring")
			keyring = storage.NewFile(cfg.Session.FilePath)
		} else {
			keyring = storage.NewRedis(redisClient, cfg.Session.RedisPrefix)
		}
	default:
		keyring = storage.NewFile(cfg.Session.FilePath)
	}

	client := api.New(cfg.API.BaseURL, log)
	sessions := session.NewStore(client, keyring, log)
	client.SetTokenSource(sessions.Token)
	client.OnAuthError(sessions.ForceLogout)

	if err := sessions.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("restore session")
	}
	if sessions.IsAuthenticated() {
		// Confirm the persisted token is still good; a stale one tears the
		// session down before the first page loads.
		if err := sessions.Refresh(ctx); err != nil {
			log.Info().Msg("persisted session rejected; operator must sign in again")
		}
	}

	users := store.NewUsers(client, log)
	projects := store.NewProjects(client, log)

	render := handlers.NewRenderer(log)
	flash := handlers.NewFlash(cfg.Web.CookieSecret, cfg.Web.IsDevelopment)
	guard := middleware.NewGuard(sessions, log)

	loginLimit, err := middleware.NewIPRateLimiter(cfg.Web.LoginRateLimit)
	if err != nil {
		log.Fatal().Err(err).Msg("create login rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.Web.IsDevelopment))

	router := web.NewRouter(web.RouterConfig{
		Auth:           handlers.NewAuthHandler(sessions, client, render, flash, log),
		Dashboard:      handlers.NewDashboardHandler(users, projects, render, flash, log),
		Users:          handlers.NewUsersHandler(users, render, flash, log),
		Projects:       handlers.NewProjectsHandler(projects, render, flash, log),
		Guard:          guard,
		Log:            log,
		Secure:         secureMiddleware,
		LoginRateLimit: loginLimit,
		Metrics:        true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("api", cfg.API.BaseURL).Msg("console starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("console stopped")
}
