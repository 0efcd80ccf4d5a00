package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Endpoints   EndpointsConfig   `toml:"endpoints"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Reupload    ReuploadConfig    `toml:"reupload"`
}

// CredentialsConfig contains Roblox credentials.
//
// Method selects which secret is used: "cookie" sends the .ROBLOSECURITY
// session cookie, "api_key" sends an Open Cloud x-api-key header.
type CredentialsConfig struct {
	Method string `toml:"method"`
	Cookie string `toml:"cookie"`
	APIKey string `toml:"api_key"`
}

// EndpointsConfig contains the Roblox endpoint templates.
//
// Download templates use the {assetId} placeholder.
type EndpointsConfig struct {
	Download          string `toml:"download"`
	DownloadFallback  string `toml:"download_fallback"`
	Upload            string `toml:"upload"`
	Creations         string `toml:"creations"`
	AuthenticatedUser string `toml:"authenticated_user"`
	KeyProbe          string `toml:"key_probe"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ReuploadConfig contains batch processing settings.
type ReuploadConfig struct {
	DelayMS int `toml:"delay_ms"` // pause between items, avoids upstream throttling
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
