package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	Host        string
	Port        string
	Environment string
	GinMode     string

	// Database
	DatabaseURL string

	// Redis (provenance store)
	RedisURL string

	// Partition provider (unstructured-compatible API)
	PartitionBaseURL string
	PartitionAPIKey  string

	// Page-render provider
	RenderBaseURL string
	RenderDPI     int

	// Embedding Service (OpenAI compatible)
	EmbeddingAPIKey     string
	EmbeddingBaseURL    string
	EmbeddingModel      string
	EmbeddingDimensions int

	// Vision captioning model
	CaptionAPIKey  string
	CaptionBaseURL string
	CaptionModel   string

	// Answer synthesis model
	AnswerAPIKey  string
	AnswerBaseURL string
	AnswerModel   string

	// Voice transcription
	TranscribeURL        string
	TranscribeAPIKey     string
	TranscribeSampleRate int
	TranscribeTimeout    time.Duration

	// File Storage
	UploadDir     string
	FiguresDir    string
	MaxUploadSize int64

	// Retrieval
	MaxDocuments int
	RetrieveTopK int
	RecordFile   string
}

func Load() *Config {
	return &Config{
		Host:        getEnv("HOST", "0.0.0.0"),
		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		GinMode:     getEnv("GIN_MODE", "debug"),

		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/ragflow?sslmode=disable"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),

		PartitionBaseURL: getEnv("PARTITION_BASE_URL", "http://localhost:8500"),
		PartitionAPIKey:  getEnv("PARTITION_API_KEY", ""),

		RenderBaseURL: getEnv("RENDER_BASE_URL", "http://localhost:8501"),
		RenderDPI:     getEnvInt("RENDER_DPI", 300),

		EmbeddingAPIKey:     getEnv("OPENAI_API_KEY", ""),
		EmbeddingBaseURL:    getEnv("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
		EmbeddingModel:      getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimensions: getEnvInt("EMBEDDING_DIMENSIONS", 1536),

		CaptionAPIKey:  getEnv("GROQ_API_KEY", ""),
		CaptionBaseURL: getEnv("CAPTION_BASE_URL", "https://api.groq.com/openai/v1"),
		CaptionModel:   getEnv("CAPTION_MODEL", "meta-llama/llama-4-scout-17b-16e-instruct"),

		AnswerAPIKey:  getEnv("GEMINI_API_KEY", ""),
		AnswerBaseURL: getEnv("ANSWER_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
		AnswerModel:   getEnv("ANSWER_MODEL", "gemini-2.5-flash-lite"),

		TranscribeURL:        getEnv("TRANSCRIBE_URL", "wss://streaming.assemblyai.com/v3/ws"),
		TranscribeAPIKey:     getEnv("ASSEMBLYAI_API_KEY", ""),
		TranscribeSampleRate: getEnvInt("TRANSCRIBE_SAMPLE_RATE", 16000),
		TranscribeTimeout:    time.Duration(getEnvInt("TRANSCRIBE_TIMEOUT_SECONDS", 10)) * time.Second,

		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		FiguresDir:    getEnv("FIGURES_DIR", "./figures"),
		MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", 50*1024*1024), // 50MB

		MaxDocuments: getEnvInt("MAX_DOCUMENTS", 5),
		RetrieveTopK: getEnvInt("RETRIEVE_TOP_K", 3),
		RecordFile:   getEnv("RECORD_FILE", "processed.json"),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	return int(getEnvInt64(key, int64(defaultValue)))
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
