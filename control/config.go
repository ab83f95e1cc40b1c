// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Configuration for the reader and its command-line front end.

package control

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. POSIXREAD_EXECUTOR_WORKERS.
const EnvPrefix = "POSIXREAD"

// Config holds parameters immutable per run.
//
// Sources, highest precedence first:
//  1. Environment variables (POSIXREAD_*)
//  2. Configuration file (YAML)
//  3. Default values
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Executor ExecutorConfig `mapstructure:"executor"`
	Pool     PoolConfig     `mapstructure:"pool"`
	CLI      CLIConfig      `mapstructure:"cli"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, error (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error DEBUG INFO WARN ERROR"`

	// Format is console, json, or auto (console on a terminal, json otherwise)
	Format string `mapstructure:"format" validate:"required,oneof=auto console json"`

	// Output is stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// ExecutorConfig sizes the worker pool that runs blocking reads.
type ExecutorConfig struct {
	// Workers is the number of concurrent reads; 0 means runtime.NumCPU()
	Workers int `mapstructure:"workers" validate:"gte=0,lte=4096"`
}

// PoolConfig controls request buffer recycling.
type PoolConfig struct {
	// MaxPooledSize is the largest buffer recycled after a failed read; 0 means 1 MiB
	MaxPooledSize int `mapstructure:"max_pooled_size" validate:"gte=0"`
}

// CLIConfig holds defaults for the posixread command.
type CLIConfig struct {
	// Listen is the address used by "posixread serve"
	Listen string `mapstructure:"listen" validate:"required"`

	// Timeout bounds how long the CLI waits for a read; 0 waits forever.
	// The read itself is never cancelled.
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
			Output: "stderr",
		},
		Executor: ExecutorConfig{Workers: 0},
		Pool:     PoolConfig{MaxPooledSize: 0},
		CLI: CLIConfig{
			Listen:  "127.0.0.1:9009",
			Timeout: 0,
		},
	}
}

// LoadConfig loads configuration from file, environment, and defaults.
// An empty path searches $XDG_CONFIG_HOME/posixread/config.yaml; a missing
// file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setupViper(v, path)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}
	return FromMap(v.AllSettings())
}

// readConfigFile reads the config file; a missing file means defaults only.
func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
		return nil
	}
	return fmt.Errorf("failed to read config file: %w", err)
}

// FromMap decodes a settings map (as produced by viper or assembled by an
// embedding application) on top of DefaultConfig and validates the result.
func FromMap(settings map[string]any) (*Config, error) {
	cfg := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// setupViper registers defaults, environment binding and the config file.
func setupViper(v *viper.Viper, path string) {
	d := DefaultConfig()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("executor.workers", d.Executor.Workers)
	v.SetDefault("pool.max_pooled_size", d.Pool.MaxPooledSize)
	v.SetDefault("cli.listen", d.CLI.Listen)
	v.SetDefault("cli.timeout", d.CLI.Timeout.String())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		return
	}
	v.AddConfigPath(ConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// ConfigDir returns $XDG_CONFIG_HOME/posixread, falling back to
// ~/.config/posixread and finally the current directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "posixread")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "posixread")
}
