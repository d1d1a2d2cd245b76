package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	CacheEnabled bool
	RedisHost    string
	RedisPort    string
	RedisTTL     time.Duration
	BDFare       BDFare
	FlyHub       FlyHub
}

type BDFare struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Configured reports whether any BDFare variable is set. A partially set
// supplier is a startup error, not a silently skipped one.
func (c BDFare) Configured() bool {
	return c.BaseURL != "" || c.APIKey != ""
}

type FlyHub struct {
	BaseURL   string
	Username  string
	APIKey    string
	EndUserIP string
	Timeout   time.Duration
}

func (c FlyHub) Configured() bool {
	return c.BaseURL != "" || c.Username != "" || c.APIKey != ""
}

// Load reads the process configuration once at startup. A .env file in the
// working directory is applied first when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:         getEnv("PORT", "8080"),
		CacheEnabled: getEnvBool("CACHE_ENABLED", false),
		RedisHost:    getEnv("REDIS_HOST", "localhost"),
		RedisPort:    getEnv("REDIS_PORT", "6379"),
		RedisTTL:     getEnvDuration("REDIS_TTL", 5*time.Minute),
		BDFare: BDFare{
			BaseURL: os.Getenv("BDFARE_BASE_URL"),
			APIKey:  os.Getenv("BDFARE_API_KEY"),
			Timeout: getEnvDuration("BDFARE_TIMEOUT", 60*time.Second),
		},
		FlyHub: FlyHub{
			BaseURL:   os.Getenv("FLYHUB_PRODUCTION_URL"),
			Username:  os.Getenv("FLYHUB_USERNAME"),
			APIKey:    os.Getenv("FLYHUB_API_KEY"),
			EndUserIP: getEnv("FLYHUB_END_USER_IP", "127.0.0.1"),
			Timeout:   getEnvDuration("FLYHUB_TIMEOUT", 60*time.Second),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
