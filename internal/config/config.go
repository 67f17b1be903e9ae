package config

import (
	"log"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"4000"`
	DBDSN       string `env:"DB_DSN" envDefault:"drwheels.db"`
	JWTSecret   string `env:"JWT_SECRET" envDefault:"default-secret-key-change-in-production-min-32-chars"`
	JWTTTLHours int    `env:"JWT_TTL_HOURS" envDefault:"720"`
	CORSOrigins string `env:"CORS_ORIGIN" envDefault:"http://localhost:3000"`
	// RateLimits disables the limiter tiers when false (tests).
	RateLimits bool   `env:"RATE_LIMITS" envDefault:"true"`
	LogFile    string `env:"LOG_FILE" envDefault:""`
}

func Load() Config {
	// .env is optional; env vars win either way
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("[config] parse: %v", err)
	}
	if cfg.JWTSecret == "default-secret-key-change-in-production-min-32-chars" {
		log.Println("[config] JWT_SECRET not set, using default. Set JWT_SECRET in .env for production!")
	}
	log.Printf("[config] PORT=%s DB_DSN=%s CORS_ORIGIN=%s", cfg.Port, cfg.DBDSN, cfg.CORSOrigins)
	return cfg
}
