package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port          string
	DatabasePath  string
	JWTSecret     string
	PublicBaseURL string // absolute prefix used in shared-image URLs

	UploadDir   string
	ThumbWidth  int
	ThumbHeight int

	// Object storage; when MinioHost is empty the disk store is used.
	MinioHost      string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	OpenAIKey   string
	OpenAIModel string
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env file")
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabasePath:  getEnv("DATABASE_PATH", "panovault.db"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),
		ThumbWidth:  getEnvInt("THUMB_WIDTH", 512),
		ThumbHeight: getEnvInt("THUMB_HEIGHT", 256),

		MinioHost:      getEnv("MINIO_HOST", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "panoramas"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer in environment, using default")
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
