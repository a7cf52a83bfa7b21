package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPPort string

	MongoURI    string
	MongoDBName string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string

	S3Region        string
	S3Bucket        string
	S3Endpoint      string
	S3PublicBaseURL string

	OSRMBaseURL string

	// DeliveryFee is the flat fee added to every order total.
	DeliveryFee float64

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	return &Config{
		Env:      getEnv("APP_ENV", "production"),
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "pitia"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),

		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Bucket:        getEnv("S3_BUCKET", "pitia-menu-images"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),

		OSRMBaseURL: getEnv("OSRM_BASE_URL", "https://router.project-osrm.org/route/v1"),

		DeliveryFee: getEnvFloat("DELIVERY_FEE", 20.0),

		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
