package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// Storage drivers
const (
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
	DriverFirestore = "firestore"
)

// Identity providers
const (
	AuthFirebase = "firebase"
	AuthJWT      = "jwt"
)

// Secret providers
const (
	SecretsGCP = "gcp"
	SecretsEnv = "env"
)

// DBConfig holds database configuration
type DBConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// GetDSN returns the connection string for the configured SQL driver
func (c *DBConfig) GetDSN() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Env             string
	ShutdownTimeout time.Duration
}

// AuthConfig holds identity verification configuration
type AuthConfig struct {
	Provider        string
	SigningKey      string
	ExpirationHours int
	CheckRevoked    bool
}

// FirebaseConfig holds Firebase Admin configuration
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

// MaxNamespaceLen keeps generated tenant ids (namespace, 30 char slug and a
// 6 char suffix joined by underscores) within the 80 character id columns.
const MaxNamespaceLen = 42

// TenantConfig holds tenant directory configuration
type TenantConfig struct {
	Namespace     string
	MemberKeySalt string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// SecretsConfig holds secret retrieval configuration
type SecretsConfig struct {
	Provider  string
	ProjectID string
	TTL       time.Duration
	Timeout   time.Duration
	CacheSize int
}

// ContentConfig holds content generation configuration
type ContentConfig struct {
	Model        string
	MaxTokens    int
	Temperature  float64
	Timeout      time.Duration
	BaseURL      string
	APIKeySecret string
	RateLimit    float64
}

// EmailConfig holds invitation email configuration
type EmailConfig struct {
	APIKeySecret string
	FromEmail    string
	FromName     string
	InviteURL    string
	Timeout      time.Duration
}

// KafkaConfig holds audit event publishing configuration
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Config holds all configuration
type Config struct {
	DB       DBConfig
	Server   ServerConfig
	Auth     AuthConfig
	Firebase FirebaseConfig
	Tenant   TenantConfig
	Log      LogConfig
	Secrets  SecretsConfig
	Content  ContentConfig
	Email    EmailConfig
	Kafka    KafkaConfig
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		DB: DBConfig{
			Driver:          getEnv("DB_DRIVER", DriverPostgres),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "password"),
			DBName:          getEnv("DB_NAME", "ahau"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			Path:            getEnv("DB_PATH", "ahau.db"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Env:             getEnv("APP_ENV", "development"),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			Provider:        getEnv("AUTH_PROVIDER", AuthFirebase),
			SigningKey:      getEnv("JWT_SIGNING_KEY", ""),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 1),
			CheckRevoked:    getEnvAsBool("AUTH_CHECK_REVOKED", true),
		},
		Firebase: FirebaseConfig{
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", getEnv("GOOGLE_CLOUD_PROJECT", "")),
			CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		},
		Tenant: TenantConfig{
			Namespace:     getEnv("TENANT_NAMESPACE", "ahau"),
			MemberKeySalt: getEnv("MEMBER_KEY_SALT", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Secrets: SecretsConfig{
			Provider:  getEnv("SECRETS_PROVIDER", SecretsEnv),
			ProjectID: getEnv("SECRETS_PROJECT_ID", getEnv("GOOGLE_CLOUD_PROJECT", "")),
			TTL:       getEnvAsDuration("SECRETS_TTL", 6*time.Hour),
			Timeout:   getEnvAsDuration("SECRETS_TIMEOUT", 5*time.Second),
			CacheSize: getEnvAsInt("SECRETS_CACHE_SIZE", 32),
		},
		Content: ContentConfig{
			Model:        getEnv("CONTENT_MODEL", "gpt-4o-mini"),
			MaxTokens:    getEnvAsInt("CONTENT_MAX_TOKENS", 300),
			Temperature:  getEnvAsFloat("CONTENT_TEMPERATURE", 0.7),
			Timeout:      getEnvAsDuration("CONTENT_TIMEOUT", 30*time.Second),
			BaseURL:      getEnv("CONTENT_BASE_URL", ""),
			APIKeySecret: getEnv("CONTENT_API_KEY_SECRET", "OPENAI_API_KEY"),
			RateLimit:    getEnvAsFloat("CONTENT_RATE_LIMIT", 2),
		},
		Email: EmailConfig{
			APIKeySecret: getEnv("EMAIL_API_KEY_SECRET", ""),
			FromEmail:    getEnv("EMAIL_FROM", "no-reply@ahau.app"),
			FromName:     getEnv("EMAIL_FROM_NAME", "Ahau"),
			InviteURL:    getEnv("EMAIL_INVITE_URL", "http://localhost:3000/ahau/invite"),
			Timeout:      getEnvAsDuration("EMAIL_TIMEOUT", 10*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvAsList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "ahau.audit"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown drivers and providers.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite, DriverFirestore:
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q", c.DB.Driver)
	}
	switch c.Auth.Provider {
	case AuthFirebase:
	case AuthJWT:
		if c.Auth.SigningKey == "" {
			return fmt.Errorf("config: JWT_SIGNING_KEY is required for the jwt auth provider")
		}
	default:
		return fmt.Errorf("config: unknown AUTH_PROVIDER %q", c.Auth.Provider)
	}
	switch c.Secrets.Provider {
	case SecretsGCP, SecretsEnv:
	default:
		return fmt.Errorf("config: unknown SECRETS_PROVIDER %q", c.Secrets.Provider)
	}
	if c.Tenant.Namespace == "" {
		return fmt.Errorf("config: TENANT_NAMESPACE must not be empty")
	}
	if len(c.Tenant.Namespace) > MaxNamespaceLen {
		return fmt.Errorf("config: TENANT_NAMESPACE must be at most %d characters", MaxNamespaceLen)
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.String("db_driver", c.DB.Driver),
		zap.String("db_host", c.DB.Host),
		zap.String("db_name", c.DB.DBName),
		zap.String("auth_provider", c.Auth.Provider),
		zap.String("secrets_provider", c.Secrets.Provider),
		zap.String("tenant_namespace", c.Tenant.Namespace),
		zap.Strings("kafka_brokers", c.Kafka.Brokers),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping empty entries.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper function to get environment variables as log levels
func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	valueStr := getEnv(key, "")
	switch valueStr {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
