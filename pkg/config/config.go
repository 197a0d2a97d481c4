// backend/pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"prep-system/pkg/database"
)

type Config struct {
	Port           string
	Database       database.Config
	RedisAddr      string
	JWTSecret      string
	AllowedOrigins []string
	SeedFile       string
	QuizDuration   int
	TokenTTL       time.Duration
	ResultTTL      time.Duration
}

// Load reads a .env file when present, then the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}
	return FromEnv()
}

func FromEnv() *Config {
	return &Config{
		Port: getenv("PORT", "8080"),
		Database: database.Config{
			Driver:   getenv("DB_DRIVER", "postgres"),
			Host:     os.Getenv("DB_HOST"),
			Port:     getenv("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
			Path:     getenv("DB_PATH", "prep.db"),
		},
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AllowedOrigins: splitList(getenv("ALLOWED_ORIGINS", "http://localhost:3000")),
		SeedFile:       getenv("SEED_FILE", "data/content.json"),
		QuizDuration:   getint("QUIZ_DURATION", 600),
		TokenTTL:       getduration("TOKEN_TTL", 24*time.Hour),
		ResultTTL:      getduration("RESULT_TTL", 30*time.Minute),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not a duration, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
