package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv applies environment variables, loading .env first when it
// exists. Variables already set in the process win over .env.
func parseEnv(config *Config) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	config.EndpointAddr = getEnv("SERVER_ADDR", config.EndpointAddr)
	config.DatabaseDSN = getEnv("DATABASE_DSN", config.DatabaseDSN)
	config.SecretKey = getEnv("JWT_SECRET", config.SecretKey)
	config.RedisAddr = getEnv("REDIS_ADDR", config.RedisAddr)
	config.RedisPassword = getEnv("REDIS_PASSWORD", config.RedisPassword)
	config.S3RootUser = getEnv("S3_ROOT_USER", config.S3RootUser)
	config.S3RootPassword = getEnv("S3_ROOT_PASSWORD", config.S3RootPassword)
	config.S3Bucket = getEnv("S3_BUCKET", config.S3Bucket)
	config.S3Region = getEnv("S3_REGION", config.S3Region)
	config.S3BaseEndpoint = getEnv("S3_BASE_ENDPOINT", config.S3BaseEndpoint)
	config.LogLevel = getEnv("LOG_LEVEL", config.LogLevel)

	var err error
	if config.RedisDB, err = getEnvAsInt("REDIS_DB", config.RedisDB); err != nil {
		return err
	}
	if config.BcryptCost, err = getEnvAsInt("BCRYPT_COST", config.BcryptCost); err != nil {
		return err
	}
	if config.AccessTokenTTL, err = getEnvAsDuration("ACCESS_TOKEN_TTL", config.AccessTokenTTL); err != nil {
		return err
	}
	if config.OTPTTL, err = getEnvAsDuration("OTP_TTL", config.OTPTTL); err != nil {
		return err
	}
	if config.ResetTokenTTL, err = getEnvAsDuration("RESET_TOKEN_TTL", config.ResetTokenTTL); err != nil {
		return err
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
