package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server Settings
	AppPort     string
	HOST        string
	DatabaseURL string
	ResetDB     bool

	// JWT Settings
	JWTSecret     string
	JWTExpiration time.Duration

	// CORS Settings
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	expiration := 72 * time.Hour
	if raw := os.Getenv("JWT_EXPIRES_IN"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			expiration = parsed
		} else {
			log.Printf("Invalid JWT_EXPIRES_IN %q, falling back to %s", raw, expiration)
		}
	}

	config := &Config{
		AppPort:     os.Getenv("PORT"),
		HOST:        os.Getenv("HOST"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		ResetDB:     os.Getenv("RESET_DB") == "true",

		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiration: expiration,

		CORSAllowOrigins: []string{"*"},
		CORSAllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}

	if config.AppPort == "" {
		config.AppPort = "8080"
	}

	return config
}
