package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults applied when a knob is absent from both the env file and the
// process environment. Lockout and token lifetimes mirror the storefront
// security policy: 5 attempts, 15 minute lock, 2 hour access tokens,
// 7 day refresh tokens.
const (
	DefaultPort                  = "5000"
	DefaultAccessTokenExpiryMin  = 120
	DefaultRefreshTokenExpiryMin = 10080
	DefaultLoginMaxAttempts      = 5
	DefaultLockoutMinutes        = 15
	DefaultBcryptCost            = 14
)

type Config struct {
	Env       string
	Port      string
	DBURL     string
	RedisURL  string
	JWTSecret string

	AccessExpiryMin  int
	RefreshExpiryMin int
	LoginMaxAttempts int
	LockoutMinutes   int
	BcryptCost       int
}

// Load reads config/.env.dev or config/.env.prod depending on ENV, then
// resolves every knob from the environment. Values already present in the
// environment win over the file.
func Load() *Config {
	env := getEnv("ENV", "development")

	envFile := "config/.env.dev"
	if env == "production" {
		envFile = "config/.env.prod"
	}
	// Missing file is fine; containers usually inject real env vars.
	_ = godotenv.Load(envFile)

	return &Config{
		Env:              env,
		Port:             getEnv("PORT", DefaultPort),
		DBURL:            mustGetEnv("DB_URL"),
		RedisURL:         getEnv("REDIS_URL", ""),
		JWTSecret:        mustGetEnv("JWT_SECRET"),
		AccessExpiryMin:  getEnvAsInt("ACCESS_TOKEN_EXPIRY", DefaultAccessTokenExpiryMin),
		RefreshExpiryMin: getEnvAsInt("REFRESH_TOKEN_EXPIRY", DefaultRefreshTokenExpiryMin),
		LoginMaxAttempts: getEnvAsInt("LOGIN_MAX_ATTEMPTS", DefaultLoginMaxAttempts),
		LockoutMinutes:   getEnvAsInt("LOCKOUT_MINUTES", DefaultLockoutMinutes),
		BcryptCost:       getEnvAsInt("BCRYPT_COST", DefaultBcryptCost),
	}
}

// IsProduction reports whether the service runs with production hardening
// (secure cookies, generic 500 bodies).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
