package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DB struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type MQ struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type App struct {
	HTTPPort       int
	Database       DB
	Rabbit         MQ
	Redis          Redis
	JWTSecret      string
	UsersFile      string
	MenuFile       string
	RequestTimeout time.Duration
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (App, error) {
	_ = godotenv.Load()

	a := App{
		HTTPPort: getInt("HTTP_PORT", 8080),
		Database: DB{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "tiffinbox"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Rabbit: MQ{
			Host:     getEnv("RABBIT_HOST", "localhost"),
			Port:     getInt("RABBIT_PORT", 5672),
			User:     getEnv("RABBIT_USER", "guest"),
			Password: getEnv("RABBIT_PASSWORD", "guest"),
			VHost:    getEnv("RABBIT_VHOST", "/"),
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		JWTSecret:      os.Getenv("JWT_SECRET"),
		UsersFile:      getEnv("USERS_FILE", "users.json"),
		MenuFile:       getEnv("MENU_FILE", "menu.json"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
	}

	if a.JWTSecret == "" {
		return App{}, errors.New("JWT_SECRET is required")
	}
	return a, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
