package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Port string

	// StorageBackend selects the plan store: memory | postgres | redis.
	StorageBackend string
	DatabaseURL    string
	RedisAddr      string

	// RoutingBackend selects the routing oracle: offline | google.
	RoutingBackend string
	MapsAPIKey     string
	RoutingTimeout time.Duration

	DailyBudgetMinutes int
}

// Load reads configuration from the environment, with an optional .env
// file for local runs.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found (using environment variables)")
	}

	return Config{
		Port:               getenv("PORT", "8080"),
		StorageBackend:     getenv("STORAGE_BACKEND", "memory"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisAddr:          getenv("REDIS_ADDR", "localhost:6379"),
		RoutingBackend:     getenv("ROUTING_BACKEND", "offline"),
		MapsAPIKey:         os.Getenv("MAPS_API_KEY"),
		RoutingTimeout:     time.Duration(getenvInt("ROUTING_TIMEOUT_SECONDS", 8)) * time.Second,
		DailyBudgetMinutes: getenvInt("DAILY_BUDGET_MINUTES", 480),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", k, v, def)
		return def
	}
	return n
}
