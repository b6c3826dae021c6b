package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	LogLevel        string
	HTTPAddr        string
	MetricsAddr     string
	MySQLDSN        string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	JWTSecret       string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	AuthRPS         float64
	AuthBurst       int
	TrustProxy      bool
	CacheTTL        time.Duration
	MigrateOnStart  bool
	JanitorSchedule string
	FeedURL         string
	FeedKey         string
	ImportWorkers   int
}

// Load reads the environment, after merging an optional .env file from the
// working directory (real env vars win).
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg(".env loaded")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		LogLevel:        env("LOG_LEVEL", "info"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/booking?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		JWTSecret:       env("JWT_SECRET", ""),
		AccessTTL:       time.Duration(atoi("ACCESS_TTL_SECONDS", 300)) * time.Second,
		RefreshTTL:      time.Duration(atoi("REFRESH_TTL_SECONDS", 86400)) * time.Second,
		AuthRPS:         atof("AUTH_RPS", 1),
		AuthBurst:       atoi("AUTH_BURST", 5),
		TrustProxy:      env("TRUST_PROXY", "false") == "true",
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		MigrateOnStart:  env("MIGRATE_ON_START", "false") == "true",
		JanitorSchedule: env("JANITOR_SCHEDULE", "@hourly"),
		FeedURL:         env("FEED_URL", ""),
		FeedKey:         env("FEED_KEY", ""),
		ImportWorkers:   atoi("IMPORT_WORKERS", 4),
	}
	if c.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
