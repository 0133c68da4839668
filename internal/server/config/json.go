package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/mindease/internal/flagx"
	"github.com/dmitrijs2005/mindease/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Absent keys leave the
// current value untouched.
type JsonConfig struct {
	ListenAddr    *string         `json:"listen_addr"`
	DatabaseDSN   *string         `json:"database_dsn"`
	SecretKey     *string         `json:"secret_key"`
	BcryptCost    *int            `json:"bcrypt_cost"`
	HashWorkers   *int            `json:"hash_workers"`
	StoreTimeout  *timex.Duration `json:"store_timeout"`
	GenAIEndpoint *string         `json:"genai_endpoint"`
	GenAIAPIKey   *string         `json:"genai_api_key"`
	GenAIModel    *string         `json:"genai_model"`
	GenAITimeout  *timex.Duration `json:"genai_timeout"`
	CORSOrigins   []string        `json:"cors_origins"`
	AuthRateLimit *float64        `json:"auth_rate_limit"`
	AuthRateBurst *int            `json:"auth_rate_burst"`
	LogLevel      *string         `json:"log_level"`
}

// parseJson loads the file named by -c/-config (if any) into config.
// An unreadable or malformed file panics: the server must not start on a
// config it could not read.
func parseJson(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIf(&config.ListenAddr, c.ListenAddr)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.HashWorkers, c.HashWorkers)
	setIf(&config.GenAIEndpoint, c.GenAIEndpoint)
	setIf(&config.GenAIAPIKey, c.GenAIAPIKey)
	setIf(&config.GenAIModel, c.GenAIModel)
	setIf(&config.AuthRateLimit, c.AuthRateLimit)
	setIf(&config.AuthRateBurst, c.AuthRateBurst)
	setIf(&config.LogLevel, c.LogLevel)
	if c.StoreTimeout != nil {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	if c.GenAITimeout != nil {
		config.GenAITimeout = c.GenAITimeout.Duration
	}
	if c.CORSOrigins != nil {
		config.CORSOrigins = c.CORSOrigins
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
