package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// SecretKey signs session tokens. Startup fails without it.
	SecretKey    string
	TokenExpiry  time.Duration // bearer tokens issued at login/profile update
	CookieExpiry time.Duration // browser cookie sessions

	SMTPHost  string
	SMTPPort  string
	SMTPFrom  string
	EmailUser string
	EmailPass string

	// ImageStoreType selects where profile images are written: "local" or "s3".
	ImageStoreType string
	UploadDir      string
	UploadBaseURL  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	S3BucketName   string

	GoogleClientID string

	AllowedOrigins []string // CORS allowed origins
}

// Load reads all configuration from environment variables. Absence of the
// signing secret is an error; everything else has a development fallback.
func Load() (*Config, error) {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		return nil, fmt.Errorf("SECRET_KEY is not defined in the environment variables")
	}

	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "bdgram"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		SecretKey:    secret,
		TokenExpiry:  time.Duration(getEnvInt("TOKEN_EXPIRY_MINUTES", 60)) * time.Minute,
		CookieExpiry: time.Duration(getEnvInt("COOKIE_EXPIRY_DAYS", 7)) * 24 * time.Hour,

		SMTPHost:  getEnv("SMTP_HOST", "localhost"),
		SMTPPort:  getEnv("SMTP_PORT", "587"),
		SMTPFrom:  getEnv("SMTP_FROM", "noreply@bdgram.com"),
		EmailUser: getEnv("EMAIL_USER", ""),
		EmailPass: getEnv("EMAIL_PASS", ""),

		ImageStoreType: getEnv("IMAGE_STORE", "local"),
		UploadDir:      getEnv("UPLOAD_DIR", "./public/uploads/images"),
		UploadBaseURL:  getEnv("UPLOAD_BASE_URL", "/api/uploads/images"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		S3BucketName:   getEnv("S3_BUCKET_NAME", "bdgram-uploads"),

		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
