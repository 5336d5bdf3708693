package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "hotel_directory/internal/adapters/http_server"
	"hotel_directory/internal/adapters/observability"
	redisad "hotel_directory/internal/adapters/redis"
	"hotel_directory/internal/app"
	"hotel_directory/internal/domain"
	"hotel_directory/internal/shared"
	"hotel_directory/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve(cfg.MetricsAddr)

	// persistence slot
	slot, closeSlot, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.SlotBackend).Msg("slot backend unavailable")
	}
	defer func() {
		if err := closeSlot(); err != nil {
			log.Warn().Err(err).Msg("slot close failed")
		}
	}()

	dir := app.NewDirectory(slot, cfg.SlotKey, nil)
	hotels := dir.Initialize(ctx)
	countries := app.LoadCountryCatalog(ctx, slot, cfg.CountryKey)
	log.Info().Int("hotels", len(hotels)).Int("countries", len(countries.List())).Msg("directory ready")

	// query cache is optional
	var cache domain.Cache
	if cfg.CacheTTL > 0 {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}

	// http
	srv := server.New(log.Logger, 15*time.Second)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:         app.NewQueryService(dir, cache, cfg.CacheTTL),
		Sessions:  app.NewEditorSessions(dir, countries),
		Guard:     app.NewDeletionGuard(dir),
		Countries: countries,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
