package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_directory/internal/adapters/countries"
	"hotel_directory/internal/adapters/observability"
	"hotel_directory/internal/app"
	"hotel_directory/internal/shared"
	"hotel_directory/internal/storage"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Strs("sources", cfg.CountrySources).
		Int("workers", cfg.Workers).
		Int("rps", cfg.FetchRPS).
		Str("backend", cfg.SlotBackend).
		Msg("country sync starting")

	slot, closeSlot, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("slot backend unavailable")
	}

	svc := app.NewCountrySyncService(countries.New(cfg.FetchRPS), slot, cfg.CountryKey)
	n, err := svc.Sync(ctx, cfg.CountrySources, cfg.Workers)
	if cerr := closeSlot(); cerr != nil {
		log.Warn().Err(cerr).Msg("slot close failed")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("country sync failed")
	}
	log.Info().Int("countries", n).Str("key", cfg.CountryKey).Msg("country sync completed")
}
