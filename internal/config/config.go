package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the process configuration, sourced from a .env file when
// present and the environment otherwise.
type Config struct {
	Addr      string
	DBPath    string // empty selects the in-memory store
	LogLevel  string
	StaticDir string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v; using system environment", err)
	}
	return &Config{
		Addr:      getenv("FORMLITE_ADDR", ":8080"),
		DBPath:    os.Getenv("FORMLITE_DB_PATH"),
		LogLevel:  getenv("FORMLITE_LOG_LEVEL", "info"),
		StaticDir: os.Getenv("FORMLITE_STATIC_DIR"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
