// Package config provides configuration management for riftcoach.
package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application.
type Config struct {
	// Riot API
	RiotAPIKey       string
	RiotBaseURLMatch string
	RiotTimeout      time.Duration

	// AI / LLM API
	AIAPIKey       string
	AIAPIURL       string
	AIEmbeddingURL string
	AIModel        string
	AIEmbedModel   string
	AITimeout      time.Duration

	// Milvus similarity store
	MilvusAddress    string
	MilvusUsername   string
	MilvusPassword   string
	MilvusCollection string
	RetrievalTimeout time.Duration

	// Redis
	RedisURL       string
	ReportCacheTTL time.Duration

	// Analysis knobs (per-request overridable)
	MergeWindowSeconds int
	TopTurningPoints   int
	RetrievalK         int
	MinSimilarity      float64
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		// Riot API
		RiotAPIKey:       os.Getenv("RIOT_API_KEY"),
		RiotBaseURLMatch: getEnvOrDefault("RIOT_BASE_URL_MATCH", "https://sea.api.riotgames.com"),
		RiotTimeout:      getEnvDuration("RIOT_TIMEOUT", 15*time.Second),

		// AI / LLM API
		AIAPIKey:       os.Getenv("AI_API_KEY"),
		AIAPIURL:       os.Getenv("AI_API_URL"),
		AIEmbeddingURL: os.Getenv("AI_EMBEDDING_URL"),
		AIModel:        getEnvOrDefault("AI_MODEL", "gpt-4o-mini"),
		AIEmbedModel:   getEnvOrDefault("AI_EMBED_MODEL", "text-embedding-3-small"),
		AITimeout:      getEnvDuration("AI_TIMEOUT", 60*time.Second),

		// Milvus
		MilvusAddress:    os.Getenv("MILVUS_ADDRESS"),
		MilvusUsername:   os.Getenv("MILVUS_USERNAME"),
		MilvusPassword:   os.Getenv("MILVUS_PASSWORD"),
		MilvusCollection: getEnvOrDefault("MILVUS_COLLECTION", "coach_passages"),
		RetrievalTimeout: getEnvDuration("RETRIEVAL_TIMEOUT", 10*time.Second),

		// Redis
		RedisURL:       os.Getenv("REDIS_URL"),
		ReportCacheTTL: getEnvDuration("REPORT_CACHE_TTL", 24*time.Hour),

		// Analysis knobs
		MergeWindowSeconds: getEnvInt("TURNING_POINT_MERGE_WINDOW_SECONDS", 30),
		TopTurningPoints:   getEnvInt("TOP_TURNING_POINTS", 3),
		RetrievalK:         getEnvInt("RETRIEVAL_K", 5),
		MinSimilarity:      getEnvFloat("MIN_SIMILARITY_SCORE", 0.6),
	}

	return cfg, nil
}

// Validate checks if all required configuration values are set and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.RiotAPIKey == "" {
		errs = append(errs, "RIOT_API_KEY is missing")
	}
	if c.AIAPIKey == "" {
		errs = append(errs, "AI_API_KEY is missing")
	}
	if c.AIAPIURL == "" {
		errs = append(errs, "AI_API_URL is missing")
	}

	if c.MergeWindowSeconds <= 0 {
		errs = append(errs, "TURNING_POINT_MERGE_WINDOW_SECONDS must be positive")
	}
	if c.TopTurningPoints < 1 {
		errs = append(errs, "TOP_TURNING_POINTS must be at least 1")
	}
	if c.RetrievalK < 1 {
		errs = append(errs, "RETRIEVAL_K must be at least 1")
	}
	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		errs = append(errs, "MIN_SIMILARITY_SCORE must be between 0 and 1")
	}
	if c.ReportCacheTTL < 0 {
		errs = append(errs, "REPORT_CACHE_TTL must not be negative")
	}

	if len(errs) > 0 {
		log.Println("Config errors:")
		for _, e := range errs {
			log.Printf("  - %s", e)
		}
		return errors.New("configuration validation failed")
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable parsed as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvFloat returns the environment variable parsed as float64 or a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable parsed as duration or a default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
