package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Ai        AIConfig
	Assistant AssistantConfig
	Auth      AuthConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	SocketLogFilePath  string
	CorsAllowedOrigins string
	NatsURL            string // empty disables turn events
	RedisURL           string // empty disables the result cache
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Connection string // empty serves the catalog from CatalogSeedPath
	Verbose    bool
}

type AIConfig struct {
	LLMProvider       string // "ollama", "huggingface" or "none"
	LLMModel          string // e.g. "qwen2.5"
	LLMBaseURL        string
	LLMApiKey         string
	GenerationTimeout time.Duration
}

type AssistantConfig struct {
	ContextStore     string // "memory" or "redis"
	ContextTTL       time.Duration
	PendingLimit     int
	HistoryLimit     int
	SearchCacheTTL   time.Duration
	PopularCacheTTL  time.Duration
	LexiconPath      string
	CatalogSeedPath  string
	CatalogFetchSize int
}

type AuthConfig struct {
	JwtSecret string
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			SocketLogFilePath:  getEnv("SOCKET_LOG_FILE_PATH", "logs/socket.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Verbose:    getEnvAsBool("DB_VERBOSE", false),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "qwen2.5"),
			LLMBaseURL:        getEnv("LLM_BASE_URL", "http://localhost:11434"),
			LLMApiKey:         getEnv("LLM_API_KEY", ""),
			GenerationTimeout: getEnvAsDuration("LLM_GENERATION_TIMEOUT", 8*time.Second),
		},
		Assistant: AssistantConfig{
			ContextStore:     getEnv("CONTEXT_STORE", "memory"),
			ContextTTL:       getEnvAsDuration("CONTEXT_TTL", 30*time.Minute),
			PendingLimit:     getEnvAsInt("PENDING_OPTION_LIMIT", 5),
			HistoryLimit:     getEnvAsInt("HISTORY_LIMIT", 10),
			SearchCacheTTL:   getEnvAsDuration("SEARCH_CACHE_TTL", 5*time.Minute),
			PopularCacheTTL:  getEnvAsDuration("POPULAR_CACHE_TTL", 10*time.Minute),
			LexiconPath:      getEnv("LEXICON_PATH", ""),
			CatalogSeedPath:  getEnv("CATALOG_SEED_PATH", "data/catalog.json"),
			CatalogFetchSize: getEnvAsInt("CATALOG_FETCH_SIZE", 200),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
