package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"

	"dcd-complete/src/internal/common"
	"dcd-complete/src/internal/constants"
)

// Config contains completion source configuration
type Config struct {
	// ClientBinary and ServerBinary are used when they name existing files,
	// otherwise dcd-client/dcd-server are looked up on PATH.
	ClientBinary    string `yaml:"client_binary"`
	ServerBinary    string `yaml:"server_binary"`
	ServerAutostart bool   `yaml:"server_autostart"`

	DubImports  bool     `yaml:"dub_imports"`
	ImportPaths []string `yaml:"import_paths,omitempty"`

	// ClientArgs are appended to every client invocation, shell quoted
	ClientArgs string `yaml:"client_args,omitempty"`
	// SendFilePath makes the client read the file from disk instead of stdin
	SendFilePath bool `yaml:"send_file_path,omitempty"`

	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level,omitempty"`
}

// LoadConfig loads configuration from a YAML file. Missing keys keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := GetDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateDefaultConfig generates a default configuration file
func GenerateDefaultConfig(path string) error {
	return SaveConfig(GetDefaultConfig(), path)
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if _, err := common.ParseLogLevel(config.LogLevel); err != nil {
		return err
	}
	if _, err := config.ExtraClientArgs(); err != nil {
		return err
	}
	return nil
}

// ExtraClientArgs splits ClientArgs the way a shell would
func (c *Config) ExtraClientArgs() ([]string, error) {
	if c.ClientArgs == "" {
		return nil, nil
	}
	args, err := shellquote.Split(c.ClientArgs)
	if err != nil {
		return nil, fmt.Errorf("invalid client_args %q: %w", c.ClientArgs, err)
	}
	return args, nil
}

// ApplyEnv overrides binary locations from the environment
func (c *Config) ApplyEnv() {
	c.ClientBinary = common.EnvOr(constants.EnvClientBinary, c.ClientBinary)
	c.ServerBinary = common.EnvOr(constants.EnvServerBinary, c.ServerBinary)
}

// NormalizedImportPaths returns ImportPaths with ~ expanded and cleaned
func (c *Config) NormalizedImportPaths() []string {
	out := make([]string, 0, len(c.ImportPaths))
	for _, p := range c.ImportPaths {
		if n := common.NormalizeDir(p); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".dcd-complete", "config.yaml")
}

// GetDefaultConfig returns the configuration used when no file exists
func GetDefaultConfig() *Config {
	return &Config{
		DubImports:     true,
		RequestTimeout: constants.DefaultRequestTimeout,
		LogLevel:       "info",
	}
}

// LoadConfigWithFallback loads path, or the default path when empty, and falls
// back to defaults when the file is missing or broken.
func LoadConfigWithFallback(path string) *Config {
	explicit := path != ""
	if !explicit {
		path = GetDefaultConfigPath()
	}

	var cfg *Config
	if _, err := os.Stat(path); err != nil {
		if explicit {
			common.CLILogger.Warn("Config file %s not found, using defaults", path)
		}
		cfg = GetDefaultConfig()
	} else if loaded, err := LoadConfig(path); err != nil {
		common.CLILogger.Warn("Failed to load config from %s, using defaults: %v", path, err)
		cfg = GetDefaultConfig()
	} else {
		cfg = loaded
	}

	cfg.ApplyEnv()
	return cfg
}
