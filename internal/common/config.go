package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Store  StoreConfig
	GPG    GPGConfig
	Output OutputConfig
}

// StoreConfig holds password-store related configuration
type StoreConfig struct {
	Directory string
}

// GPGConfig holds decryption-related configuration
type GPGConfig struct {
	Binary   string
	UseAgent bool
	Timeout  time.Duration
	Jobs     int
}

// OutputConfig holds serialization-related configuration
type OutputConfig struct {
	Path         string
	Format       string
	SpecPath     string
	ManifestPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Directory: getEnv("PASS2BW_DIRECTORY", "~/.password-store"),
		},
		GPG: GPGConfig{
			Binary:   getEnv("PASS2BW_GPG_BINARY", "gpg"),
			UseAgent: getEnvAsBool("PASS2BW_GPG_AGENT", false),
			Timeout:  getEnvAsDuration("PASS2BW_GPG_TIMEOUT", 30*time.Second),
			Jobs:     getEnvAsInt("PASS2BW_JOBS", 4),
		},
		Output: OutputConfig{
			Path:         getEnv("PASS2BW_OUTPUT", "pass.csv"),
			Format:       getEnv("PASS2BW_FORMAT", "csv"),
			SpecPath:     getEnv("PASS2BW_SPEC", ""),
			ManifestPath: getEnv("PASS2BW_MANIFEST", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Store.Directory == "" {
		return NewAppError("CONFIG_ERROR", "store directory is required", ErrInvalidInput)
	}
	if c.GPG.Binary == "" {
		return NewAppError("CONFIG_ERROR", "gpg binary is required", ErrInvalidInput)
	}
	if c.Output.Format != "csv" && c.Output.Format != "xlsx" {
		return NewAppError("CONFIG_ERROR", "output format must be csv or xlsx", ErrInvalidInput)
	}
	if c.GPG.Jobs < 1 {
		return NewAppError("CONFIG_ERROR", "jobs must be at least 1", ErrInvalidInput)
	}
	return nil
}
