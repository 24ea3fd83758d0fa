// Package config resolves runtime settings: defaults, then an optional YAML file, then environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPPort        string        `yaml:"http_port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CookieSecure    bool          `yaml:"cookie_secure"`

	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	SessionTTL    time.Duration `yaml:"session_ttl"`

	JWTSecret  string `yaml:"jwt_secret"`
	BcryptCost int    `yaml:"bcrypt_cost"`

	// CredentialStore selects the user repository: "mongo" or "postgres".
	CredentialStore string   `yaml:"credential_store"`
	MongoURI        string   `yaml:"mongo_uri"`
	MongoDBName     string   `yaml:"mongo_db_name"`
	Postgres        Postgres `yaml:"postgres"`

	CatalogDBPath     string `yaml:"catalog_db_path"`
	CatalogMigrations string `yaml:"catalog_migrations"`

	KafkaBrokers []string `yaml:"kafka_brokers"`
}

type Postgres struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	DBName     string `yaml:"db_name"`
	Migrations string `yaml:"migrations"`
}

func defaults() *Config {
	return &Config{
		HTTPPort:        "4000",
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		RedisAddr:       "localhost:6379",
		SessionTTL:      24 * time.Hour,
		BcryptCost:      10,
		CredentialStore: "mongo",
		MongoURI:        "mongodb://localhost:27017",
		MongoDBName:     "miniAmazon",
		Postgres: Postgres{
			Host:       "localhost",
			Port:       5432,
			User:       "storefront",
			DBName:     "storefront",
			Migrations: "internal/repository/migrations",
		},
		CatalogDBPath:     "catalog.db",
		CatalogMigrations: "internal/catalog/migrations",
	}
}

// Load builds the configuration. A missing file at path is an error; an empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.HTTPPort = getEnv("HTTP_PORT", getEnv("PORT", cfg.HTTPPort))
	cfg.CookieSecure = getEnvBool("COOKIE_SECURE", cfg.CookieSecure)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", cfg.SessionTTL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.BcryptCost = getEnvInt("BCRYPT_COST", cfg.BcryptCost)
	cfg.CredentialStore = strings.ToLower(getEnv("CREDENTIAL_STORE", cfg.CredentialStore))
	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDBName = getEnv("MONGO_DB_NAME", cfg.MongoDBName)
	cfg.Postgres.Host = getEnv("POSTGRES_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = getEnvInt("POSTGRES_PORT", cfg.Postgres.Port)
	cfg.Postgres.User = getEnv("POSTGRES_USER", cfg.Postgres.User)
	cfg.Postgres.Password = getEnv("POSTGRES_PASSWORD", cfg.Postgres.Password)
	cfg.Postgres.DBName = getEnv("POSTGRES_DB", cfg.Postgres.DBName)
	cfg.Postgres.Migrations = getEnv("POSTGRES_MIGRATIONS", cfg.Postgres.Migrations)
	cfg.CatalogDBPath = getEnv("CATALOG_DB_PATH", cfg.CatalogDBPath)
	cfg.CatalogMigrations = getEnv("CATALOG_MIGRATIONS", cfg.CatalogMigrations)
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = splitCSV(brokers)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	switch c.CredentialStore {
	case "mongo", "postgres":
	default:
		return fmt.Errorf("config: unknown credential store %q", c.CredentialStore)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
