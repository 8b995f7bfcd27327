package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/vcscsvcscs/fitai-planner/internal/security"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Completion CompletionConfig
	Export     ExportConfig
	Session    SessionConfig
	Logging    LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// CompletionConfig holds the language model service configuration.
// Without an API key every diet comes from the local rules.
type CompletionConfig struct {
	Provider    string // openai or azure
	APIKey      string
	BaseURL     string
	Endpoint    string
	Model       string // deployment name for azure
	Temperature float64
	MaxAttempts int
	Timeout     time.Duration
}

// ExportConfig holds plan document export configuration
type ExportConfig struct {
	Archive bool
	// EncryptionKey is a base64 AES-256 key; when set archived documents are encrypted
	EncryptionKey string
	Storage       StorageConfig
}

// StorageConfig holds Azure Blob Storage configuration
type StorageConfig struct {
	AccountName  string
	AccountKey   string
	Container    string
	BlobEndpoint string
}

// SessionConfig holds in-memory session configuration
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console, empty follows the environment
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)
	v.SetDefault("server.allowedorigins", []string{"http://localhost:3000"})

	// Completion defaults
	v.SetDefault("completion.provider", "openai")
	v.SetDefault("completion.model", "gpt-4o")
	v.SetDefault("completion.temperature", 0.7)
	v.SetDefault("completion.maxattempts", 1)
	v.SetDefault("completion.timeout", 60*time.Second)

	// Export defaults
	v.SetDefault("export.archive", false)
	v.SetDefault("export.storage.container", "plan-exports")

	// Session defaults
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.sweepinterval", 5*time.Minute)

	// Logging defaults
	v.SetDefault("logging.level", "info")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")
	v.BindEnv("server.allowedorigins", "CORS_ALLOWED_ORIGINS")

	// Completion
	v.BindEnv("completion.provider", "COMPLETION_PROVIDER")
	v.BindEnv("completion.apikey", "OPENAI_API_KEY", "AZURE_OPENAI_API_KEY")
	v.BindEnv("completion.baseurl", "OPENAI_BASE_URL")
	v.BindEnv("completion.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("completion.model", "OPENAI_MODEL", "AZURE_OPENAI_DEPLOYMENT")
	v.BindEnv("completion.maxattempts", "COMPLETION_MAX_ATTEMPTS")
	v.BindEnv("completion.timeout", "COMPLETION_TIMEOUT")

	// Export archive
	v.BindEnv("export.archive", "EXPORT_ARCHIVE")
	v.BindEnv("export.encryptionkey", "EXPORT_ENCRYPTION_KEY")
	v.BindEnv("export.storage.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("export.storage.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("export.storage.container", "AZURE_STORAGE_CONTAINER")
	v.BindEnv("export.storage.blobendpoint", "AZURE_STORAGE_BLOB_ENDPOINT")

	// Sessions
	v.BindEnv("session.ttl", "SESSION_TTL")
	v.BindEnv("session.sweepinterval", "SESSION_SWEEP_INTERVAL")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// CompletionEnabled reports whether a completion client should be built
func (c *Config) CompletionEnabled() bool {
	return c.Completion.APIKey != ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Completion.Provider {
	case "openai", "azure":
	default:
		return fmt.Errorf("completion.provider must be openai or azure, got %q", c.Completion.Provider)
	}

	if c.CompletionEnabled() {
		if c.Completion.Model == "" {
			return fmt.Errorf("completion.model is required")
		}
		if c.Completion.Provider == "azure" && c.Completion.Endpoint == "" {
			return fmt.Errorf("completion.endpoint is required for the azure provider")
		}
	}

	if c.Completion.MaxAttempts < 1 {
		return fmt.Errorf("completion.maxattempts must be at least 1")
	}

	if c.Completion.Temperature < 0 || c.Completion.Temperature > 2 {
		return fmt.Errorf("completion.temperature must be between 0 and 2")
	}

	if c.Export.Archive {
		if c.Export.Storage.AccountName == "" || c.Export.Storage.AccountKey == "" {
			return fmt.Errorf("azure storage account name and key are required when export.archive is enabled")
		}
		if c.Export.Storage.Container == "" {
			return fmt.Errorf("export.storage.container is required when export.archive is enabled")
		}
		if c.Export.EncryptionKey != "" {
			if _, err := security.NewEncryptorFromBase64(c.Export.EncryptionKey); err != nil {
				return fmt.Errorf("export.encryptionkey: %w", err)
			}
		}
	}

	if c.Session.TTL < 0 {
		return fmt.Errorf("session.ttl must not be negative")
	}

	return nil
}
