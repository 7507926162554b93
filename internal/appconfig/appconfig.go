// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"ragdeck/internal/gateway"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
	// defaultRequestTimeout is the default timeout for gateway requests.
	defaultRequestTimeout = 120 * time.Second
)

// Config represents the top-level application configuration.
type Config struct {
	GatewayURL     string `json:"gatewayUrl,omitempty"`
	Debug          bool   `json:"debug"`
	TimeoutSeconds int    `json:"timeout,omitempty"`
	LogFile        string `json:"logFile,omitempty"`
	ManualLabel    string `json:"manualLabel,omitempty"`
	DefaultK       int    `json:"defaultK,omitempty"`
	ConfigPath     string `json:"-"`
}

// RequestTimeout returns the timeout duration for gateway requests,
// falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "ragdeck.log"
}

// GatewayBase returns the normalized gateway base address, applying the
// default address and stripping a trailing slash.
func (c Config) GatewayBase() string {
	return gateway.NormalizeBase(c.GatewayURL)
}

// QueryK returns the default number of results requested per query.
func (c Config) QueryK() int {
	if c.DefaultK <= 0 {
		return gateway.DefaultQueryK
	}
	return c.DefaultK
}

func (c Config) validate() error {
	if c.TimeoutSeconds < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}

// Load reads the application configuration from the specified path,
// with fallback to a legacy path. A missing default config is not an
// error; built-in defaults apply.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		if err := config.validate(); err != nil {
			return Config{}, err
		}
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				if err := config.validate(); err != nil {
					return Config{}, err
				}
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, nil
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	// A negative timeout is left intact for validate to reject.
	if config.TimeoutSeconds == 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}
