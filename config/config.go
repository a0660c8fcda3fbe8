package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      string
	AllowedOrigins []string
	VAPIDPublicKey string
	VAPIDPrivate   string
	VAPIDSubject   string
	CronSecret     string
	GinMode        string
}

// Load reads .env if present and builds the config from the environment.
// JWT_SECRET and MONGODB_URI are required, everything else has a default.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		MongoURI:       os.Getenv("MONGODB_URI"),
		DBName:         getEnv("DB_NAME", "quotee"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		VAPIDPublicKey: os.Getenv("VAPID_PUBLIC_KEY"),
		VAPIDPrivate:   os.Getenv("VAPID_PRIVATE_KEY"),
		VAPIDSubject:   getEnv("VAPID_SUBJECT", "mailto:quoteeid.noreply@gmail.com"),
		CronSecret:     os.Getenv("CRON_SECRET"),
		GinMode:        getEnv("GIN_MODE", "debug"),
	}

	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
