package config

import (
	"os"
	"strconv"
	"strings"
)

type RecommendationServiceConfig struct {
	Port          string
	DataDir       string
	PostgresCfg   PostgresConfig
	RedisCfg      RedisConfig
	MinioCfg      MinioConfig
	RabbitMQCfg   RabbitMQConfig
	ClassifierCfg ClassifierConfig
	WeatherAPICfg WeatherAPIConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MinioConfig struct {
	Enabled        bool
	MinioURL       string
	MinioAccessKey string
	MinioSecretKey string
	MinioLocation  string
	MinioSecure    string
}

type RabbitMQConfig struct {
	Enabled  bool
	Username string
	Password string
	Host     string
	Port     string
}

type ClassifierConfig struct {
	URLs           []string
	TimeoutSeconds int
	DefaultTopK    int
}

type WeatherAPIConfig struct {
	ForecastURL     string
	ArchiveURL      string
	CacheTTLMinutes int
	TimeoutSeconds  int
}

func New() *RecommendationServiceConfig {
	return &RecommendationServiceConfig{
		Port:    getEnvOrDefault("PORT", "8088"),
		DataDir: getEnvOrDefault("DATA_DIR", "data"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "crop_recommendation"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		MinioCfg: MinioConfig{
			Enabled:        getEnvBoolOrDefault("MINIO_ENABLED", false),
			MinioURL:       getEnvOrDefault("MINIO_ENDPOINT", "http://localhost:9407"),
			MinioAccessKey: getEnvOrDefault("MINIO_ACCESS_KEY", "minio"),
			MinioSecretKey: getEnvOrDefault("MINIO_SECRET_KEY", "minio123"),
			MinioLocation:  getEnvOrDefault("MINIO_LOCATION", "us-east-1"),
			MinioSecure:    getEnvOrDefault("MINIO_SECURE", "false"),
		},
		RabbitMQCfg: RabbitMQConfig{
			Enabled:  getEnvBoolOrDefault("RABBITMQ_ENABLED", true),
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		ClassifierCfg: ClassifierConfig{
			URLs:           splitAndTrim(getEnvOrDefault("CLASSIFIER_URLS", "http://localhost:8000")),
			TimeoutSeconds: getEnvIntOrDefault("CLASSIFIER_TIMEOUT_SECONDS", 10),
			DefaultTopK:    getEnvIntOrDefault("CLASSIFIER_DEFAULT_TOP_K", 5),
		},
		WeatherAPICfg: WeatherAPIConfig{
			ForecastURL:     getEnvOrDefault("OPEN_METEO_FORECAST_URL", "https://api.open-meteo.com/v1/forecast"),
			ArchiveURL:      getEnvOrDefault("OPEN_METEO_ARCHIVE_URL", "https://archive-api.open-meteo.com/v1/archive"),
			CacheTTLMinutes: getEnvIntOrDefault("WEATHER_CACHE_TTL_MINUTES", 30),
			TimeoutSeconds:  getEnvIntOrDefault("WEATHER_TIMEOUT_SECONDS", 6),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
