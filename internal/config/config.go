package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the API process reads from the environment.
type Config struct {
	Port string

	DBDriver string // "mysql" or "sqlite3"
	DBDSN    string

	RedisURL string // empty keeps the cart cache in memory

	JWTSecret string

	StorageURL    string // project URL of the object storage service
	StorageBucket string
	UploadDir     string

	RazorpayKeyID     string
	RazorpayKeySecret string

	ResendAPIKey string
	MailFrom     string
	EnquiryEmail string

	AdminEmails []string
	CORSOrigins []string

	SessionTimeout time.Duration
	StoreIdleTTL   time.Duration
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		DBDriver:          getEnv("DB_DRIVER", "mysql"),
		DBDSN:             getEnv("DB_DSN_PRIMARY", "root:root@tcp(127.0.0.1:3306)/artyaffairs?parseTime=true"),
		RedisURL:          os.Getenv("REDIS_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		StorageURL:        getEnv("STORAGE_URL", "http://localhost:8080"),
		StorageBucket:     getEnv("STORAGE_BUCKET", "artwork-images"),
		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		ResendAPIKey:      os.Getenv("RESEND_API_KEY"),
		MailFrom:          getEnv("RESEND_FROM_EMAIL", "Arty Affairs <notifications@artyaffairs.com>"),
		EnquiryEmail:      getEnv("ENQUIRY_EMAIL", "hello@artyaffairs.com"),
		AdminEmails:       splitList(os.Getenv("ADMIN_EMAILS")),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		SessionTimeout:    getDuration("SESSION_TIMEOUT", 5*time.Second),
		StoreIdleTTL:      getDuration("STORE_IDLE_TTL", 30*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
