package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const DefaultCountrySource = "https://pkgstore.datahub.io/core/world-cities/world-cities_json/data/5b3dd46ad10990bca47b04b4739a02ba/world-cities_json.json"

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	SlotBackend    string // memory|sqlite|mysql|redis
	SlotKey        string
	CountryKey     string
	SQLitePath     string
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	CacheTTL       time.Duration
	CountrySources []string
	FetchRPS       int
	Workers        int
}

// Load reads the configuration from the environment. A .env file in the
// working directory is honoured when present; real env vars win over it.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		SlotBackend:    strings.ToLower(env("SLOT_BACKEND", "sqlite")),
		SlotKey:        env("SLOT_KEY", "hotels"),
		CountryKey:     env("COUNTRY_KEY", "countries"),
		SQLitePath:     env("SQLITE_PATH", "hotels.db"),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 0)) * time.Second,
		CountrySources: splitList(env("COUNTRY_SOURCES", DefaultCountrySource)),
		FetchRPS:       atoi("COUNTRY_FETCH_RPS", 5),
		Workers:        atoi("COUNTRY_WORKERS", 4),
	}
	switch c.SlotBackend {
	case "memory", "sqlite", "mysql", "redis":
	default:
		log.Warn().Str("backend", c.SlotBackend).Msg("unknown SLOT_BACKEND, using sqlite")
		c.SlotBackend = "sqlite"
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
