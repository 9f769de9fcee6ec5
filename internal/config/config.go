package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	MediaProviderCloudinary = "cloudinary"
	MediaProviderS3         = "s3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Media    MediaConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Mail     MailConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host          string
	Port          int
	BodyLimit     int // bytes, applies to multipart bodies too
	AllowedOrigin string
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	URL             string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds token configuration.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// MediaConfig selects and configures the image host.
type MediaConfig struct {
	Provider      string
	Folder        string
	UploadTimeout time.Duration
	MaxUploadSize int64

	CloudinaryURL       string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	S3Bucket        string
	S3Region        string
	S3PublicBaseURL string
}

// RedisConfig configures the product list cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// KafkaConfig configures the product event stream. No brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// MailConfig configures SMTP delivery of contact messages. An empty Host disables it.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string // contact inbox
	Timeout  time.Duration
}

func (c MailConfig) Enabled() bool {
	return c.Host != ""
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:          getEnv("SERVER_HOST", "0.0.0.0"),
			Port:          getEnvAsInt("SERVER_PORT", getEnvAsInt("PORT", 5000)),
			BodyLimit:     getEnvAsInt("BODY_LIMIT", 8*1024*1024),
			AllowedOrigin: getEnv("CORS_ORIGIN", "*"),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "portfolio"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvAsDuration("JWT_TTL", 24*time.Hour),
		},
		Media: MediaConfig{
			Provider:            strings.ToLower(getEnv("MEDIA_PROVIDER", MediaProviderCloudinary)),
			Folder:              getEnv("MEDIA_FOLDER", "Portfolio React"),
			UploadTimeout:       getEnvAsDuration("UPLOAD_TIMEOUT", 30*time.Second),
			MaxUploadSize:       int64(getEnvAsInt("MAX_UPLOAD_SIZE", 5*1024*1024)),
			CloudinaryURL:       getEnv("CLOUDINARY_URL", ""),
			CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			S3Bucket:            getEnv("S3_BUCKET", ""),
			S3Region:            getEnv("S3_REGION", "us-east-1"),
			S3PublicBaseURL:     getEnv("S3_PUBLIC_BASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      getEnvAsDuration("PRODUCT_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvAsList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "product_events"),
		},
	}

	smtpUser := getEnv("SMTP_USER", "")
	mailFrom := getEnv("MAIL_FROM", smtpUser)
	cfg.Mail = MailConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     getEnvAsInt("SMTP_PORT", 587),
		Username: smtpUser,
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     mailFrom,
		To:       getEnv("CONTACT_TO", mailFrom),
		Timeout:  getEnvAsDuration("SMTP_TIMEOUT", 15*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.URL == "" {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database name is required")
		}
	}

	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database idle connections cannot exceed open connections")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	switch c.Media.Provider {
	case MediaProviderCloudinary:
		if c.Media.CloudinaryURL == "" &&
			(c.Media.CloudinaryCloudName == "" || c.Media.CloudinaryAPIKey == "" || c.Media.CloudinaryAPISecret == "") {
			return fmt.Errorf("cloudinary credentials are required (CLOUDINARY_URL or cloud name, key and secret)")
		}
	case MediaProviderS3:
		if c.Media.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required when media provider is s3")
		}
		if c.Media.S3Region == "" {
			return fmt.Errorf("S3 region is required when media provider is s3")
		}
	default:
		return fmt.Errorf("invalid media provider: %s (must be cloudinary or s3)", c.Media.Provider)
	}

	if c.Media.UploadTimeout <= 0 {
		return fmt.Errorf("upload timeout must be positive")
	}

	if c.Media.MaxUploadSize < 1 {
		return fmt.Errorf("max upload size must be at least 1 byte")
	}

	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka topic is required when brokers are set")
	}

	if c.Mail.Enabled() {
		if c.Mail.Port < 1 || c.Mail.Port > 65535 {
			return fmt.Errorf("invalid SMTP port: %d", c.Mail.Port)
		}
		if c.Mail.From == "" || c.Mail.To == "" {
			return fmt.Errorf("mail sender and contact recipient are required when SMTP is set")
		}
		if c.Mail.Timeout <= 0 {
			return fmt.Errorf("SMTP timeout must be positive")
		}
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.Host,
		c.User,
		c.Password,
		c.Name,
		c.Port,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("30s") or bare seconds ("30").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping empty items.
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
