package main

import (
	"os"

	"github.com/joho/godotenv"
)

// Config is the server's process configuration, loaded from a .env
// file (when present) and the environment, with flag overrides applied
// in main.
type Config struct {
	Addr      string
	StaticDir string
	DBPath    string
}

func LoadConfig() Config {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	return Config{
		Addr:      envOr("ADDR", ":8080"),
		StaticDir: envOr("STATIC_DIR", "../client"),
		DBPath:    envOr("DB_PATH", "bomberman.db"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
