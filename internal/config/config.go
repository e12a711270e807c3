package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Base address of the Kugou gateway
	// Default: "http://localhost:3000"
	APIAddress string

	// QR rendering service the login link points at; the login URL is
	// appended URL-encoded
	QRRenderAPI string

	// Identity used when the host runtime does not supply one
	UserID string

	// Data directory for the credential store and session cache
	// (empty means ~/.local/share/kugo)
	DataDir string

	// Per-request timeout in seconds
	RequestTimeout int
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("api_address", "http://localhost:3000")
	v.SetDefault("qr_render_api", "https://api.qrtool.cn/?text=")
	v.SetDefault("user_id", "local")
	v.SetDefault("request_timeout", 15)

	// Read config file (optional - don't fail if missing)
	_ = v.ReadInConfig()

	// Read from environment variables
	v.SetEnvPrefix("KUGO")
	v.AutomaticEnv()

	// Map config to struct
	cfg := &Config{
		APIAddress:     v.GetString("api_address"),
		QRRenderAPI:    v.GetString("qr_render_api"),
		UserID:         v.GetString("user_id"),
		DataDir:        v.GetString("data_dir"),
		RequestTimeout: v.GetInt("request_timeout"),
	}

	return cfg, nil
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "kugo")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// ResolveDataDir returns the configured data directory, defaulting to
// ~/.local/share/kugo, and ensures it exists.
func (c *Config) ResolveDataDir() (string, error) {
	dataDir := c.DataDir
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(homeDir, ".local", "share", "kugo")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// Save writes configuration to file
func (c *Config) Save() error {
	v := viper.New()

	// Set config file path
	configDir := getConfigDir()
	configFile := filepath.Join(configDir, "config.yaml")

	// Set values in viper
	v.Set("api_address", c.APIAddress)
	v.Set("qr_render_api", c.QRRenderAPI)
	v.Set("user_id", c.UserID)
	v.Set("data_dir", c.DataDir)
	v.Set("request_timeout", c.RequestTimeout)

	// Write to file
	return v.WriteConfigAs(configFile)
}
