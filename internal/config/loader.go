package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

// Config represents the root configuration structure
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Audit  AuditConfig  `yaml:"audit"`
	SQL    SQLConfig    `yaml:"sql" validate:"required"`
}

// ServerConfig represents the HTTP listener settings
type ServerConfig struct {
	Port           int `yaml:"port" validate:"min=0,max=65535"`
	RequestTimeout int `yaml:"request_timeout" validate:"min=0,max=300000"` // Milliseconds, max 5 minutes
}

// LogConfig represents logging settings
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR"`
}

// AuditConfig represents the invocation audit log settings.
// An empty path disables the audit log.
type AuditConfig struct {
	Path string `yaml:"path"`
}

// SQLConfig represents the SQL Server profile set and the startup selection
type SQLConfig struct {
	Active   string       `yaml:"active" validate:"required"`
	Profiles []SQLProfile `yaml:"profiles" validate:"required,min=1,dive"`
}

// SQLProfile represents a single named SQL Server connection profile.
// Secrets are referenced by environment variable name and resolved at
// connection time; the profile itself never carries a password literal.
type SQLProfile struct {
	Name                   string `yaml:"name" validate:"required,max=50"`
	DisplayName            string `yaml:"display_name"`
	Server                 string `yaml:"server" validate:"required"`
	Database               string `yaml:"database" validate:"required"`
	Auth                   string `yaml:"auth" validate:"required,oneof=SqlPassword ActiveDirectoryInteractive ActiveDirectoryMsi"`
	Username               string `yaml:"username"`
	UsernameEnv            string `yaml:"username_env"`
	PasswordEnv            string `yaml:"password_env" validate:"required_if=Auth SqlPassword"`
	Encrypt                bool   `yaml:"encrypt"`
	TrustServerCertificate bool   `yaml:"trust_server_certificate"`
	Timeout                int    `yaml:"timeout" validate:"min=0,max=600"` // Seconds, max 10 minutes
	Description            string `yaml:"description"`
}

var profileNamePattern = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)

// LoadConfig loads and validates the configuration from the specified path
func LoadConfig(path string) (*Config, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables
	expandedData := os.ExpandEnv(string(data))

	// Parse YAML
	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate config
	validate := validator.New()
	if err := validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Check profile names and uniqueness
	profileNames := make(map[string]bool)
	for _, profile := range config.SQL.Profiles {
		if !profileNamePattern.MatchString(profile.Name) {
			return nil, fmt.Errorf("invalid profile name: %s", profile.Name)
		}
		if profileNames[profile.Name] {
			return nil, fmt.Errorf("duplicate profile name found: %s", profile.Name)
		}
		profileNames[profile.Name] = true
	}

	// The startup selection must reference a defined profile
	if !profileNames[config.SQL.Active] {
		return nil, fmt.Errorf("active profile not defined: %s", config.SQL.Active)
	}

	return &config, nil
}
