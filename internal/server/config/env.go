package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays environment variables. A .env file (or the file named
// by ENV_FILE) is loaded first; variables already set in the process win.
//
// Recognised variables:
//
//	PORT, LISTEN_ADDR, DATABASE_DSN, JWT_SECRET, BCRYPT_COST, HASH_WORKERS,
//	STORE_TIMEOUT, GEMINI_ENDPOINT, GEMINI_API_KEY, GEMINI_MODEL,
//	GEMINI_TIMEOUT, CORS_ORIGINS, AUTH_RATE_LIMIT, AUTH_RATE_BURST, LOG_LEVEL
//
// Malformed numeric or duration values panic, same as a broken JSON file.
func parseEnv(config *Config) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		config.ListenAddr = ":" + v
	}
	envString(&config.ListenAddr, "LISTEN_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "JWT_SECRET")
	envInt(&config.BcryptCost, "BCRYPT_COST")
	envInt(&config.HashWorkers, "HASH_WORKERS")
	envDuration(&config.StoreTimeout, "STORE_TIMEOUT")
	envString(&config.GenAIEndpoint, "GEMINI_ENDPOINT")
	envString(&config.GenAIAPIKey, "GEMINI_API_KEY")
	envString(&config.GenAIModel, "GEMINI_MODEL")
	envDuration(&config.GenAITimeout, "GEMINI_TIMEOUT")
	envInt(&config.AuthRateBurst, "AUTH_RATE_BURST")
	envString(&config.LogLevel, "LOG_LEVEL")

	if v, ok := os.LookupEnv("AUTH_RATE_LIMIT"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(err)
		}
		config.AuthRateLimit = f
	}
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok && v != "" {
		config.CORSOrigins = splitList(v)
	}
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		*dst = n
	}
}

func envDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
