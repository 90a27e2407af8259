/*
Package config manages TOML config for GeoServe services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/geoserve/internal/utils"
)

// Config holds the entire config structure
type Config struct {
	Search SearchConfig `toml:"search"`
	Data   DataConfig   `toml:"data"`
	Index  IndexConfig  `toml:"index"`
}

// SearchConfig has query handling options.
type SearchConfig struct {
	DefaultLimit int `toml:"default_limit"`
	MaxLimit     int `toml:"max_limit"`
	MaxQueryLen  int `toml:"max_query_len"`
}

// DataConfig holds dataset location and progressive loading options.
type DataConfig struct {
	Dir             string `toml:"dir"`
	BaseURL         string `toml:"base_url"`
	PriorityCountry string `toml:"priority_country"`
	MinDetailZoom   int    `toml:"min_detail_zoom"`
}

// IndexConfig tunes the prefix index engine.
type IndexConfig struct {
	Resolution int `toml:"resolution"`
	CacheSize  int `toml:"cache_size"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			DefaultLimit: 10,
			MaxLimit:     50,
			MaxQueryLen:  60,
		},
		Data: DataConfig{
			Dir:             "data/",
			PriorityCountry: "bg",
			MinDetailZoom:   7,
		},
		Index: IndexConfig{
			Resolution: 9,
			CacheSize:  128,
		},
	}
}

// GetConfigDir returns the config directory, falling back to the executable
// directory when the user config dir is unavailable.
func GetConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		log.Errorf("Failed to get user config directory: %v", err)
		exe, execErr := os.Executable()
		if execErr != nil {
			return "", execErr
		}
		return filepath.Dir(exe), nil
	}
	return filepath.Join(base, "geoserve"), nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/geoserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Missing keys keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
