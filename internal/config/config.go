package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// ErrStoreNotConfigured is returned by Load when the Product Store location
// or credential is missing. The application cannot start without them.
var ErrStoreNotConfigured = errors.New("PRODUCT_STORE_URL and PRODUCT_STORE_KEY must be set")

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"` // development | production | demo
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`
	CORSOrigins    string `mapstructure:"CORS_ORIGINS"`

	// Product Store
	ProductStoreURL string `mapstructure:"PRODUCT_STORE_URL"`
	ProductStoreKey string `mapstructure:"PRODUCT_STORE_KEY"`

	// Realtime feed
	FeedDriver   string `mapstructure:"FEED_DRIVER"` // postgres | kafka
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`
	KafkaGroup   string `mapstructure:"KAFKA_GROUP"`

	// Local blob store
	RedisURL string `mapstructure:"REDIS_URL"`
	BlobKey  string `mapstructure:"BLOB_KEY"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`

	// SMTP
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`

	// Business
	ReceiptStoragePath string `mapstructure:"RECEIPT_STORAGE_PATH"`
	BusinessName       string `mapstructure:"BUSINESS_NAME"`
	BusinessTaxID      string `mapstructure:"BUSINESS_TAX_ID"`
	BusinessAddress    string `mapstructure:"BUSINESS_ADDRESS"`
	BusinessPhone      string `mapstructure:"BUSINESS_PHONE"`
	Timezone           string `mapstructure:"TIMEZONE"`
	AlertExpiryDays    int    `mapstructure:"ALERT_EXPIRY_DAYS"`
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// IsDemo reports whether the in-memory Product Store should be used.
func (c *Config) IsDemo() bool { return c.Env == "demo" }

// Brokers splits KAFKA_BROKERS on commas.
func (c *Config) Brokers() []string {
	return splitList(c.KafkaBrokers)
}

func splitList(raw string) []string {
	var out []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSOrigins)
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Sensible defaults for development
	v.SetDefault("PORT", 8000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("WORKER_POOL_SIZE", 3)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("PRODUCT_STORE_URL", "")
	v.SetDefault("PRODUCT_STORE_KEY", "")
	v.SetDefault("FEED_DRIVER", "postgres")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "minimarket.products")
	v.SetDefault("KAFKA_GROUP", "minimarket-pos")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("BLOB_KEY", "inventorySystem")
	v.SetDefault("JWT_SECRET", "dev-secret-change-me")
	v.SetDefault("JWT_EXPIRATION_HOURS", 8)
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("RECEIPT_STORAGE_PATH", "/tmp/minimarket/receipts")
	v.SetDefault("BUSINESS_NAME", "Minimarket Karito")
	v.SetDefault("BUSINESS_TAX_ID", "12345678901")
	v.SetDefault("BUSINESS_ADDRESS", "Jr. Ejemplo 123, Lima")
	v.SetDefault("BUSINESS_PHONE", "958-077-827")
	v.SetDefault("TIMEZONE", "America/Lima")
	v.SetDefault("ALERT_EXPIRY_DAYS", 30)

	// Optional .env file for local development, does not fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if !cfg.IsDemo() && (cfg.ProductStoreURL == "" || cfg.ProductStoreKey == "") {
		return nil, ErrStoreNotConfigured
	}
	return cfg, nil
}
