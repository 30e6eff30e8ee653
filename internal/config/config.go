package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Scylla   ScyllaConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Elastic  ElasticConfig
	MinIO    MinIOConfig
	Stripe   StripeConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
	OAuth    OAuthConfig
	Catalog  CatalogConfig
}

type ServerConfig struct {
	Port        string
	BaseURL     string
	FrontendURL string
	CORSOrigins []string
	// AdminEmails may trigger maintenance routes such as the search reindex.
	AdminEmails []string
}

// StoreConfig selects the table backend for cart and wishlist rows: "scylla" or "postgres".
type StoreConfig struct {
	Driver       string
	SignOutGuard time.Duration
}

type ScyllaConfig struct {
	Hosts      []string
	Keyspace   string
	Username   string
	Password   string
	SSLEnabled bool
	CACertPath string
	Timeout    time.Duration
	NumConns   int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type ElasticConfig struct {
	URL      string
	User     string
	Password string
	Index    string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type StripeConfig struct {
	SecretKey  string
	Currency   string
	SuccessURL string
	CancelURL  string
}

// SMTPConfig also carries the mail provider switch: "smtp" (default) or "sendgrid".
type SMTPConfig struct {
	Provider         string
	SendGridAPIKey   string
	Host             string
	Port             int
	Username         string
	Password         string
	From             string
	ContactRecipient string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	SessionSecret string
	OTPTTL        time.Duration
}

type OAuthConfig struct {
	GoogleClientID       string
	GoogleClientSecret   string
	FacebookClientID     string
	FacebookClientSecret string
	CallbackBaseURL      string
}

type CatalogConfig struct {
	BaseURL  string
	CacheTTL time.Duration
	Timeout  time.Duration
}

// Load reads .env (if any) then the process environment.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	} else {
		log.Println("✅ .env file loaded")
	}

	port := getEnv("PORT", "8080")
	baseURL := getEnv("BASE_URL", "http://localhost:"+port)
	frontendURL := getEnv("FRONTEND_URL", "http://localhost:3000")

	return &Config{
		Server: ServerConfig{
			Port:        port,
			BaseURL:     baseURL,
			FrontendURL: frontendURL,
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", frontendURL)),
			AdminEmails: splitList(os.Getenv("ADMIN_EMAILS")),
		},
		Store: StoreConfig{
			Driver:       strings.ToLower(getEnv("STORE_DRIVER", "scylla")),
			SignOutGuard: getDuration("SIGNOUT_GUARD", time.Second),
		},
		Scylla: ScyllaConfig{
			Hosts:      splitList(os.Getenv("SCYLLA_HOSTS")),
			Keyspace:   getEnv("SCYLLA_KEYSPACE", "verideal"),
			Username:   os.Getenv("SCYLLA_USERNAME"),
			Password:   os.Getenv("SCYLLA_PASSWORD"),
			SSLEnabled: strings.ToLower(os.Getenv("SCYLLA_SSL_ENABLED")) == "true",
			CACertPath: os.Getenv("SCYLLA_SSL_CA_PATH"),
			Timeout:    getDuration("SCYLLA_TIMEOUT", 5*time.Second),
			NumConns:   getInt("SCYLLA_NUM_CONNS", 20),
		},
		Postgres: PostgresConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     getInt("DB_PORT", 5432),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Elastic: ElasticConfig{
			URL:      os.Getenv("ELASTIC_URL"),
			User:     os.Getenv("ELASTIC_USER"),
			Password: os.Getenv("ELASTIC_PASSWORD"),
			Index:    getEnv("ELASTIC_INDEX", "products"),
		},
		MinIO: MinIOConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
			Bucket:    getEnv("MINIO_BUCKET", "verideal-avatars"),
		},
		Stripe: StripeConfig{
			SecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
			Currency:   getEnv("STRIPE_CURRENCY", "usd"),
			SuccessURL: getEnv("STRIPE_SUCCESS_URL", frontendURL+"/success?session_id={CHECKOUT_SESSION_ID}"),
			CancelURL:  getEnv("STRIPE_CANCEL_URL", frontendURL+"/checkout"),
		},
		SMTP: SMTPConfig{
			Provider:         strings.ToLower(getEnv("MAIL_PROVIDER", "smtp")),
			SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
			Host:             os.Getenv("SMTP_HOST"),
			Port:             getInt("SMTP_PORT", 587),
			Username:         os.Getenv("SMTP_USERNAME"),
			Password:         os.Getenv("SMTP_PASSWORD"),
			From:             getEnv("SMTP_FROM", "VeriDeal <noreply@verideal.shop>"),
			ContactRecipient: os.Getenv("CONTACT_RECIPIENT"),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			TokenTTL:      getDuration("JWT_TTL", 24*time.Hour),
			SessionSecret: os.Getenv("SESSION_SECRET"),
			OTPTTL:        getDuration("OTP_TTL", 5*time.Minute),
		},
		OAuth: OAuthConfig{
			GoogleClientID:       os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleClientSecret:   os.Getenv("GOOGLE_CLIENT_SECRET"),
			FacebookClientID:     os.Getenv("FACEBOOK_CLIENT_ID"),
			FacebookClientSecret: os.Getenv("FACEBOOK_CLIENT_SECRET"),
			CallbackBaseURL:      getEnv("OAUTH_CALLBACK_BASE_URL", baseURL+"/api/auth/oauth"),
		},
		Catalog: CatalogConfig{
			BaseURL:  getEnv("CATALOG_URL", "https://fakestoreapi.com"),
			CacheTTL: getDuration("CATALOG_CACHE_TTL", 10*time.Minute),
			Timeout:  getDuration("CATALOG_TIMEOUT", 10*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️ %s=%q is not a duration, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
