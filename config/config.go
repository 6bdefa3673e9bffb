// Package config loads toolchain defaults that are not part of the
// object file format itself: VM execution limits and the syscall fd
// allowlist.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the smol toolchain configuration.
type Config struct {
	// Execution settings
	Execution struct {
		MaxCycles    uint64 `toml:"max_cycles"`
		DefaultEntry string `toml:"default_entry"`
		EnableTrace  bool   `toml:"enable_trace"`
	} `toml:"execution"`

	// Syscall settings
	Syscall struct {
		AllowedWriteFDs []int `toml:"allowed_write_fds"`
	} `toml:"syscall"`

	// Assembler settings
	Assembler struct {
		WarnOnUnusedVariable bool `toml:"warn_on_unused_variable"`
	} `toml:"assembler"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	// Execution defaults
	cfg.Execution.MaxCycles = 10_000_000
	cfg.Execution.DefaultEntry = "0x0000"
	cfg.Execution.EnableTrace = false

	// Syscall defaults: stdout and stderr only
	cfg.Syscall.AllowedWriteFDs = []int{1, 2}

	// Assembler defaults
	cfg.Assembler.WarnOnUnusedVariable = true

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "smol")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "smol.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "smol")

	default:
		return "smol.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "smol.toml"
	}

	return filepath.Join(configDir, "smol.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. Missing files
// are not an error: the defaults apply.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
