package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Payment  PaymentConfig
	Pricing  PricingConfig
	Menu     MenuConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" envDefault:"8080"`
	// Per-client limit on cart and checkout writes; zero disables it.
	WriteRateLimit float64 `env:"WRITE_RATE_LIMIT_RPS" envDefault:"5"`
	WriteBurst     int     `env:"WRITE_RATE_LIMIT_BURST" envDefault:"20"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string `env:"DB_HOST" envDefault:"localhost"`
	Port            int    `env:"DB_PORT" envDefault:"5432"`
	User            string `env:"DB_USER" envDefault:"postgres"`
	Password        string `env:"DB_PASSWORD"`
	Database        string `env:"DB_NAME" envDefault:"bakery"`
	MaxConnections  int    `env:"DB_MAX_CONNECTIONS" envDefault:"25"`
	MinConnections  int    `env:"DB_MIN_CONNECTIONS" envDefault:"5"`
	MaxConnLifetime int    `env:"DB_MAX_CONN_LIFETIME" envDefault:"300"` // seconds
	AutoMigrate     bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	// ApplicationName shows up in pg_stat_activity.
	ApplicationName  string        `env:"DB_APPLICATION_NAME" envDefault:"bakery-storefront"`
	StatementTimeout time.Duration `env:"DB_STATEMENT_TIMEOUT" envDefault:"5s"`
	ConnectTimeout   time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`
}

// RedisConfig holds the cart store and board cache connection.
type RedisConfig struct {
	Addr          string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password      string        `env:"REDIS_PASSWORD"`
	DB            int           `env:"REDIS_DB" envDefault:"0"`
	CartTTL       time.Duration `env:"CART_TTL" envDefault:"720h"`
	BoardCacheTTL time.Duration `env:"BOARD_CACHE_TTL" envDefault:"30s"`
}

// KafkaConfig holds order event publishing configuration.
type KafkaConfig struct {
	Enabled    bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	Brokers    []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	OrderTopic string   `env:"KAFKA_ORDER_TOPIC" envDefault:"bakery.orders"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "console"
}

// AuthConfig holds bearer token verification settings.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET"`
}

// PaymentConfig holds payment processor settings.
type PaymentConfig struct {
	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	Currency            string `env:"PAYMENT_CURRENCY" envDefault:"usd"`
	SimulationEnabled   bool   `env:"PAYMENT_SIMULATION_ENABLED" envDefault:"false"`
	// Intent creation fails fast for BreakerTimeout once the processor keeps failing.
	BreakerTimeout time.Duration `env:"PAYMENT_BREAKER_TIMEOUT" envDefault:"30s"`
}

// PricingConfig holds order total computation settings.
type PricingConfig struct {
	TaxRate           float64 `env:"TAX_RATE" envDefault:"0.082"`
	MinOrderCents     int64   `env:"MIN_ORDER_CENTS" envDefault:"50"`
	UnknownItemPolicy string  `env:"UNKNOWN_ITEM_POLICY" envDefault:"reject"` // "reject" or "drop"
}

// MenuConfig holds where the menu seed files are read from.
type MenuConfig struct {
	SeedPaths []string `env:"MENU_SEED_PATHS" envSeparator:","`
	S3Enabled bool     `env:"S3_ENABLED" envDefault:"false"`
	S3Bucket  string   `env:"S3_BUCKET"`
	S3Region  string   `env:"S3_REGION" envDefault:"us-east-1"`
	S3Prefix  string   `env:"S3_PREFIX" envDefault:"menu/"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
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

	if c.Server.WriteRateLimit < 0 || c.Server.WriteBurst < 0 {
		return fmt.Errorf("write rate limit must not be negative")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.StatementTimeout < 0 || c.Database.ConnectTimeout < 0 {
		return fmt.Errorf("database timeouts must not be negative")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required when kafka is enabled")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if c.Payment.StripeSecretKey == "" && !c.Payment.SimulationEnabled {
		return fmt.Errorf("stripe secret key is required unless payment simulation is enabled")
	}

	if c.Payment.StripeSecretKey != "" && c.Payment.StripeWebhookSecret == "" {
		return fmt.Errorf("stripe webhook secret is required when stripe is configured")
	}

	if c.Pricing.TaxRate < 0 || c.Pricing.TaxRate >= 1 {
		return fmt.Errorf("invalid tax rate: %v (must be in [0, 1))", c.Pricing.TaxRate)
	}

	if c.Pricing.MinOrderCents < 0 {
		return fmt.Errorf("minimum order must not be negative")
	}

	if c.Pricing.UnknownItemPolicy != "reject" && c.Pricing.UnknownItemPolicy != "drop" {
		return fmt.Errorf("invalid unknown item policy: %s (must be reject or drop)", c.Pricing.UnknownItemPolicy)
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

	if c.Menu.S3Enabled {
		if c.Menu.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.Menu.S3Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
