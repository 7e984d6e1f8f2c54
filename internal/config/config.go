// Package config provides configuration loading and management for the chat-server API.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// passwordEnvVar is the environment variable consulted for the database
// password when no password file is configured.
const passwordEnvVar = "PARLEY_DATABASE_PASSWORD"

// jwtSecretEnvVar is the environment variable consulted for the token signing
// secret when no secret file is configured.
const jwtSecretEnvVar = "PARLEY_JWT_SECRET"

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		// Validate the path to prevent path traversal attacks
		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// Auth configures bearer-token authentication
	Auth AuthConfig `yaml:"auth"`

	// Database configures the PostgreSQL backend
	Database *DatabaseConfig `yaml:"database,omitempty"`

	// Storage configures where uploaded assets are written
	Storage StorageConfig `yaml:"storage,omitempty"`
}

// AuthConfig defines bearer-token authentication settings
type AuthConfig struct {
	// SecretFile is the path to a file containing the HMAC signing secret.
	// This is the recommended approach for production deployments.
	SecretFile string `yaml:"secretFile,omitempty"`

	// Issuer, when set, is required as the iss claim of accepted tokens
	Issuer string `yaml:"issuer,omitempty"`

	// Realm is the protection space identifier used in WWW-Authenticate
	// headers. Defaults to "parley".
	Realm string `yaml:"realm,omitempty"`
}

// GetSecret returns the token signing secret using the following priority:
// 1. Read from SecretFile if specified
// 2. Read from the PARLEY_JWT_SECRET environment variable
//
// The secret from file has leading/trailing whitespace trimmed.
func (a *AuthConfig) GetSecret() ([]byte, error) {
	if a.SecretFile != "" {
		cleanPath := filepath.Clean(a.SecretFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read secret from file %s: %w", a.SecretFile, err)
		}
		return []byte(strings.TrimSpace(string(data))), nil
	}

	if envSecret := os.Getenv(jwtSecretEnvVar); envSecret != "" {
		return []byte(envSecret), nil
	}

	return nil, fmt.Errorf(
		"no signing secret configured: set auth.secretFile or the %s environment variable", jwtSecretEnvVar,
	)
}

// StorageConfig defines where uploaded assets are written
type StorageConfig struct {
	// DataDir is the directory uploaded icons are stored under.
	// Defaults to "./data".
	DataDir string `yaml:"dataDir,omitempty"`
}

// GetDataDir returns the data directory, using "./data" if not specified
func (s *StorageConfig) GetDataDir() string {
	if s.DataDir == "" {
		return "./data"
	}
	return s.DataDir
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password.
	// The file should contain only the password with optional trailing whitespace.
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from the PARLEY_DATABASE_PASSWORD environment variable
//
// The password from file has leading/trailing whitespace trimmed.
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		// Use filepath.Clean to prevent path traversal attacks
		cleanPath := filepath.Clean(d.PasswordFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	if envPassword := os.Getenv(passwordEnvVar); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or the %s environment variable", passwordEnvVar,
	)
}

// GetConnectionString builds a PostgreSQL connection string with proper
// password handling. The password is URL-escaped to handle special characters.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		url.QueryEscape(password),
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	)

	return connString, nil
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if c.Database != nil {
		if c.Database.Host == "" {
			return fmt.Errorf("database: host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("database: port must be between 1 and 65535")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database: user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database: database name is required")
		}
	}

	return nil
}
