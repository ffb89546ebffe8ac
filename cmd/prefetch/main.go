// Command prefetch probes both review upstreams once and warms the primary cache.
// It exits non-zero when the booking platform had to be replaced by sample data,
// which makes it usable as a deploy-time credential check.
package main

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"flex_reviews/internal/adapters/google"
	"flex_reviews/internal/adapters/hostaway"
	"flex_reviews/internal/adapters/observability"
	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/app"
	"flex_reviews/internal/shared"
)

func main() { os.Exit(run()) }

func run() int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.HostawayBase).
		Int("workers", cfg.PrefetchWorkers).
		Strs("locations", cfg.PrefetchLocations).
		Msg("prefetch starting")

	primary, err := hostaway.New(cfg.HostawayBase, cfg.HostawayAccountID, cfg.HostawayKey, cfg.HostawayRPS, cfg.HostawayTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Hostaway client")
	}
	secondary, err := google.New(cfg.GoogleBase, cfg.GoogleKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Google client")
	}

	var opts []app.FetcherOption
	if cfg.RedisAddr != "" {
		cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer cache.Close()
		opts = append(opts, app.WithCache(cache, cfg.CacheTTL))
	}
	fetcher := app.NewFetcher(primary, secondary, opts...)

	// 2) primary: drop whatever is cached so the probe hits the platform.
	if err := fetcher.InvalidatePrimary(ctx); err != nil {
		log.Warn().Err(err).Msg("cache invalidate failed")
	}
	res := fetcher.FetchPrimaryReviews(ctx)
	log.Info().
		Int("reviews", len(res.Reviews)).
		Bool("fallback", res.Fallback).
		Str("reason", res.Reason).
		Msg("hostaway probe done")

	// 3) secondary: one probe per location, bounded by the worker count.
	sem := semaphore.NewWeighted(int64(cfg.PrefetchWorkers))
	var wg sync.WaitGroup

	for _, loc := range cfg.PrefetchLocations {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Error().Err(err).Msg("semaphore acquire failed")
			break
		}

		wg.Add(1)
		go func(locationID string) {
			defer wg.Done()
			defer sem.Release(1)

			g := fetcher.FetchSecondaryReviews(ctx, locationID)
			log.Info().
				Str("location_id", locationID).
				Int("reviews", len(g.Reviews)).
				Bool("fallback", g.Fallback).
				Msg("google probe done")
		}(loc)
	}

	wg.Wait()
	log.Info().Msg("prefetch completed")

	if res.Fallback {
		return 1
	}
	return 0
}
