package shared

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	HostawayBase      string
	HostawayAccountID string
	HostawayKey       string
	HostawayTimeout   time.Duration
	HostawayRPS       int

	GoogleBase string
	GoogleKey  string

	RedisAddr string // empty disables the cache
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	CORSOrigins []string

	PrefetchLocations []string
	PrefetchWorkers   int
}

// IsDev reports whether APP_ENV selects the local development profile.
func (c Config) IsDev() bool { return isDev(c.AppEnv) }

func isDev(env string) bool { return env == "dev" || env == "development" }

// Load reads configuration from the environment. In development a local .env file
// is loaded first; variables already set in the environment win.
func Load() (Config, error) {
	if isDev(os.Getenv("APP_ENV")) {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Msg("failed to load .env")
		}
	}

	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    ":" + env("PORT", "3001"),
		MetricsAddr: env("METRICS_ADDR", ""),

		HostawayBase:      env("HOSTAWAY_BASE_URL", "https://api.hostaway.com/v1"),
		HostawayAccountID: os.Getenv("HOSTAWAY_ACCOUNT_ID"),
		HostawayKey:       os.Getenv("HOSTAWAY_API_KEY"),
		HostawayTimeout:   time.Duration(atoi("HOSTAWAY_TIMEOUT_SECONDS", 10)) * time.Second,
		HostawayRPS:       atoi("HOSTAWAY_RPS", 5),

		GoogleBase: env("GOOGLE_PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		GoogleKey:  os.Getenv("GOOGLE_PLACES_API_KEY"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisPass: os.Getenv("REDIS_PASSWORD"),
		RedisDB:   atoi("REDIS_DB", 0),
		CacheTTL:  time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		CORSOrigins: list("CORS_ORIGINS", "*"),

		PrefetchLocations: list("PREFETCH_LOCATIONS", "default"),
		PrefetchWorkers:   atoi("PREFETCH_WORKERS", 4),
	}

	var missing []string
	for k, v := range map[string]string{
		"HOSTAWAY_ACCOUNT_ID":   c.HostawayAccountID,
		"HOSTAWAY_API_KEY":      c.HostawayKey,
		"GOOGLE_PLACES_API_KEY": c.GoogleKey,
	} {
		if v == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.PrefetchWorkers < 1 {
		c.PrefetchWorkers = 1
	}
	return c, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

// list splits a comma separated variable, dropping blanks.
func list(k, def string) []string {
	var out []string
	for _, p := range strings.Split(env(k, def), ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
