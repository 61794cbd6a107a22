package cli

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"dcd-complete/src/config"
	"dcd-complete/src/internal/common"
)

// loadConfig loads configuration with fallback to defaults and applies its
// log level. DCD_COMPLETE_DEBUG keeps debug logging on regardless.
func loadConfig(configPath string) *config.Config {
	cfg := config.LoadConfigWithFallback(configPath)

	if os.Getenv(common.DebugEnvVar) == "true" {
		return cfg
	}
	level, err := common.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		common.CLILogger.Warn("Ignoring log_level: %v", err)
		return cfg
	}
	common.SetGlobalLevel(level)
	return cfg
}

// InitConfig writes the default configuration to configPath, or the default
// location when empty.
func InitConfig(configPath string, force bool, out io.Writer) error {
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", configPath)
	}

	if err := config.GenerateDefaultConfig(configPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", configPath)
	return nil
}

// ShowConfig prints cfg as YAML
func ShowConfig(cfg *config.Config, out io.Writer) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = out.Write(data)
	return err
}
