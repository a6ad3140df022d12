package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the service configuration, populated from environment
// variables (optionally via a .env file).
type Config struct {
	Addr           string
	DataDir        string
	AllowedOrigins []string
	ExecutorURL    string
	LogFile        string
}

// Load reads configuration from the environment. Defaults match the dev
// setup: the API on :8000 and the Vue dev servers as allowed origins.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables from OS")
	}

	return &Config{
		Addr:           getEnv("ADDR", ":8000"),
		DataDir:        getEnv("DATA_DIR", "data"),
		AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		ExecutorURL:    strings.TrimSpace(os.Getenv("EXECUTOR_URL")),
		LogFile:        strings.TrimSpace(os.Getenv("LOG_FILE")),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
