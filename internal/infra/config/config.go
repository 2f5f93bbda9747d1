package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env  string
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	LLMProvider     string // "anthropic" or "ollama"
	AnthropicAPIKey string
	AnthropicModel  string
	OllamaURL       string
	OllamaModel     string
	LLMTimeout      int // seconds
	LLMRatePerSec   float64

	AnswerMaxTokens  int
	CandidatePosts   int
	CommentScanPosts int
	CommentsPerPost  int
	MaxResults       int
	ContextMaxItems  int
	ContextMaxChars  int

	CacheEnabled    bool
	CacheSize       int
	CacheTTLMinutes int

	OTelEnabled bool
}

func Load() *Config {
	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "9020"),

		DBHost:     getEnv("DB_HOST", "forum-db"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "forum_user"),
		DBPassword: getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "forum_password"),
		DBName:     getEnv("DB_NAME", "forum_db"),

		LLMProvider:     getEnv("LLM_PROVIDER", "anthropic"),
		AnthropicAPIKey: getSecret("ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY_FILE", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
		OllamaURL:       getEnv("OLLAMA_URL", "http://ollama:11434"),
		OllamaModel:     getEnv("OLLAMA_MODEL", "llama3.1"),
		LLMTimeout:      getEnvInt("LLM_TIMEOUT_SECONDS", 60),
		LLMRatePerSec:   getEnvFloat("LLM_REQUESTS_PER_SECOND", 2),

		AnswerMaxTokens:  getEnvInt("ANSWER_MAX_TOKENS", 1200),
		CandidatePosts:   getEnvInt("CANDIDATE_POST_LIMIT", 50),
		CommentScanPosts: getEnvInt("COMMENT_SCAN_POSTS", 20),
		CommentsPerPost:  getEnvInt("COMMENTS_PER_POST", 10),
		MaxResults:       getEnvInt("RETRIEVAL_MAX_RESULTS", 10),
		ContextMaxItems:  getEnvInt("CONTEXT_MAX_ITEMS", 5),
		ContextMaxChars:  getEnvInt("CONTEXT_MAX_CHARS", 4000),

		CacheEnabled:    getEnvBool("ANSWER_CACHE_ENABLED", true),
		CacheSize:       getEnvInt("ANSWER_CACHE_SIZE", 256),
		CacheTTLMinutes: getEnvInt("ANSWER_CACHE_TTL_MINUTES", 5),

		OTelEnabled: getEnvBool("OTEL_LOGS_ENABLED", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getSecret resolves a value either directly from the environment or from
// a file referenced by a companion *_FILE variable (container secrets).
func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
