package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI  string
	DBName    string
	JWTSecret string
	RedisAddr string
	NatsURL   string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:  getEnvOrDefault("MONGO_URI", ""),
		DBName:    getEnvOrDefault("DB_NAME", "storefront"),
		JWTSecret: getEnvOrDefault("JWT_SECRET", ""),
		RedisAddr: getEnvOrDefault("REDIS_ADDR", ""),
		NatsURL:   getEnvOrDefault("NATS_URL", ""),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
