package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                    string
	Env                     string
	Store                   string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	RedisURL                string
	NATSURL                 string
	AuthMode                string
	FirebaseCredentialsPath string
	JWTSecret               string
	FeedPageSize            int
	StoryRingLimit          int
	StoryTTL                time.Duration
	StoryCacheTTL           time.Duration
	LogLevel                string
}

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	AuthFirebase = "firebase"
	AuthJWT      = "jwt"
)

// Load reads .env (if present) and the process environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		Store:                   getEnv("STORE", StorePostgres),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "pawprint"),
		RedisURL:                getEnv("REDIS_URL", ""),
		NATSURL:                 getEnv("NATS_URL", ""),
		AuthMode:                getEnv("AUTH_MODE", AuthFirebase),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		FeedPageSize:            getEnvInt("FEED_PAGE_SIZE", 50),
		StoryRingLimit:          getEnvInt("STORY_RING_LIMIT", 50),
		StoryTTL:                getEnvDuration("STORY_TTL", 24*time.Hour),
		StoryCacheTTL:           getEnvDuration("STORY_CACHE_TTL", 60*time.Second),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
