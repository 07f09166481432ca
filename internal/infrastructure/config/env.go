package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read at startup.
const (
	EnvConfigPath    = "DOC2CODE_CONFIG"
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenRouterKey = "OPENROUTER_API_KEY"
	EnvGroqKey       = "GROQ_API_KEY"
	EnvAppURL        = "NEXT_PUBLIC_APP_URL"
	EnvRedisURL      = "REDIS_URL"
	EnvPort          = "PORT"
)

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding variables already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overlays environment variables onto the configuration.
// Non-empty variables win over file values; an unparsable PORT is ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := getenv(EnvOpenAIKey); v != "" {
		c.Providers.OpenAI.APIKey = v
	}
	if v := getenv(EnvOpenRouterKey); v != "" {
		c.Providers.OpenRouter.APIKey = v
	}
	if v := getenv(EnvGroqKey); v != "" {
		c.Providers.Groq.APIKey = v
	}
	if v := getenv(EnvAppURL); v != "" {
		c.Providers.AppURL = v
	}
	if v := getenv(EnvRedisURL); v != "" {
		c.Redis.URL = v
	}
	if v := getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}
