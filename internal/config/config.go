package config

import (
	"crypto/rand"
	"log"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	ServerPort  string
	Environment string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	// Redis configuration
	RedisAddress string
	CacheTTL     time.Duration

	// JWT configuration
	JWTSecret string

	// Blob storage
	StorageRoot   string
	PublicBaseURL string

	WorkerPoolSize int

	FrontendAddress string
}

// Global application configuration
var AppConfig Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Find .env file
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		// Try to find .env in parent directories
		envPath = filepath.Join("..", ".env")
		if _, err := os.Stat(envPath); os.IsNotExist(err) {
			envPath = filepath.Join("..", "..", ".env")
		}
	}

	// Load .env file if it exists
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = generateRandomSecret(32)
		log.Println("Generated random JWT secret")
	}

	port := getEnv("PORT", "8080")
	AppConfig = Config{
		ServerPort:      port,
		Environment:     getEnv("ENV", "development"),
		DBDriver:        getEnv("DB_DRIVER", "postgres"),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "invitation_editor"),
		DBPath:          getEnv("DB_PATH", "invitation_editor.db"),
		RedisAddress:    getEnv("REDIS_ADDRESS", "localhost:6379"),
		CacheTTL:        getDuration("CACHE_TTL", 24*time.Hour),
		JWTSecret:       jwtSecret,
		StorageRoot:     getEnv("STORAGE_ROOT", "uploads"),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
		WorkerPoolSize:  getInt("WORKER_POOL_SIZE", 4),
		FrontendAddress: getEnv("FRONTEND_ADDRESS", "https://production-frontend.com"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

// generateRandomSecret generates a random secret of the specified length
func generateRandomSecret(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	secret := make([]byte, length)
	limit := big.NewInt(int64(len(charset)))
	for i := range secret {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			n = big.NewInt(time.Now().UnixNano() % int64(len(charset)))
		}
		secret[i] = charset[n.Int64()]
	}
	return string(secret)
}
