package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	Port string

	// Storage
	StoreBackend string // "memory" or "postgres"
	DatabaseURL  string

	// LLM Configuration
	LLMProvider string // "openai" or "groq"
	LLMModel    string // "gpt-4o", "gpt-4o-mini", "llama-3.3-70b-versatile"
	LLMAPIKey   string // OpenAI or Groq API key
	LLMBaseURL  string
	LLMTimeout  time.Duration

	// Uploads
	UploadTmpDir   string
	MaxUploadBytes int64

	// Logging
	Log      string // "dev" for zap development output
	LogLevel string
	LogDir   string

	CORSOrigins []string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
		log.Println("Attempting to load from parent directory...")
		err = godotenv.Load("../../.env")
		if err != nil {
			log.Println("Warning: Could not load .env file, using environment variables")
		}
	}

	// LLM configuration
	llmProvider := strings.ToLower(getEnv("LLM_PROVIDER", "openai"))

	// Get API key based on provider
	llmAPIKey := ""
	if llmProvider == "openai" {
		llmAPIKey = os.Getenv("OPENAI_API_KEY")
	} else if llmProvider == "groq" {
		llmAPIKey = os.Getenv("GROQ_API_KEY")
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LLMProvider:    llmProvider,
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o"),
		LLMAPIKey:      llmAPIKey,
		LLMBaseURL:     os.Getenv("LLM_BASE_URL"),
		LLMTimeout:     getEnvAsDuration("LLM_TIMEOUT", 2*time.Minute),
		UploadTmpDir:   getEnv("UPLOAD_TMP_DIR", os.TempDir()),
		MaxUploadBytes: getEnvAsInt64("MAX_UPLOAD_BYTES", 10<<20),
		Log:            strings.ToLower(os.Getenv("LOG")),
		LogLevel:       strings.ToLower(getEnv("LOGLEVEL", "info")),
		LogDir:         getEnv("LOG_DIR", "logs"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
	}
}

// Validate returns warnings for optional settings and an error for fatal ones.
// A missing LLM key is only a warning: analysis calls fail when they run.
func (c *Config) Validate() (warnings []string, err error) {
	switch c.StoreBackend {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("STORE_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND: %q", c.StoreBackend)
	}

	if c.LLMProvider != "openai" && c.LLMProvider != "groq" {
		return nil, fmt.Errorf("unknown LLM_PROVIDER: %q", c.LLMProvider)
	}
	if strings.TrimSpace(c.LLMAPIKey) == "" {
		warnings = append(warnings, "LLM API key is empty, document analysis will fail")
	}
	if c.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return warnings, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
