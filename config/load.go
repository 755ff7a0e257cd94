package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func Load() App {
	_ = godotenv.Load()

	cfg := App{
		Port:           getenv("APP_PORT", "8080"),
		DatabaseURL:    must("DATABASE_URL"),
		JWTSecret:      getenv("JWT_SECRET", "local_dev_secret"),
		Env:            getenv("APP_ENV", "dev"),
		RentalLimit:    getint("RENTAL_LIMIT", 3),
		RentalDueDays:  getint("RENTAL_DUE_DAYS", 14),
		LateFeeDefault: getfloat("LATE_FEE_DEFAULT", 20),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("invalid int env, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		slog.Warn("invalid float env, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
