package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Storage   StorageConfig
	Assistant AssistantConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	OpenAI    string
	JWTSecret string
}

type StorageConfig struct {
	GatewayURL string
	APIKey     string
	QuotaBytes int64
}

type AssistantConfig struct {
	ChatModel       string
	TranscribeModel string
	TTSModel        string
	TTSVoice        string
	HistoryLimit    int
	ContextMerge    string // "latest" or "union"
	IncludeAudio    bool
	OcrTopic        string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			OpenAI:    getEnv("OPENAI_API_KEY", ""),
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Storage: StorageConfig{
			GatewayURL: getEnv("STORAGE_GATEWAY_URL", "http://localhost:9000"),
			APIKey:     getEnv("STORAGE_GATEWAY_API_KEY", ""),
			QuotaBytes: getEnvAsInt64("STORAGE_QUOTA_BYTES", 5*1024*1024*1024),
		},
		Assistant: AssistantConfig{
			ChatModel:       getEnv("ASSISTANT_CHAT_MODEL", "gpt-4-turbo"),
			TranscribeModel: getEnv("ASSISTANT_TRANSCRIBE_MODEL", "whisper-1"),
			TTSModel:        getEnv("ASSISTANT_TTS_MODEL", "tts-1"),
			TTSVoice:        getEnv("ASSISTANT_TTS_VOICE", "nova"),
			HistoryLimit:    getEnvAsInt("ASSISTANT_HISTORY_LIMIT", 10),
			ContextMerge:    getEnv("ASSISTANT_CONTEXT_MERGE", "latest"),
			IncludeAudio:    getEnvAsBool("ASSISTANT_INCLUDE_AUDIO", true),
			OcrTopic:        getEnv("ASSISTANT_OCR_TOPIC", "ocr.requests"),
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

func getEnvAsInt64(key string, fallback int64) int64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseInt(strValue, 10, 64); err == nil {
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
