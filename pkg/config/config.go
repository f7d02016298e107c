package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Config holds the tubelens configuration for both the API server and the
// CLI/web clients.
type Config struct {
	// DataDir is where tubelens keeps local state (transcript cache).
	DataDir string `toml:"data_dir"`

	YouTubeAPIKey string `toml:"youtube_api_key"`
	GoogleAPIKey  string `toml:"google_api_key"`
	GoogleCSEID   string `toml:"google_cse_id"`

	// MaxResults is the default page size requested from YouTube (1-50).
	MaxResults int `toml:"max_results"`

	// RequestTimeout bounds every upstream HTTP call.
	RequestTimeout Duration `toml:"request_timeout"`

	Server      ServerConfig      `toml:"server"`
	Client      ClientConfig      `toml:"client"`
	Transcripts TranscriptsConfig `toml:"transcripts"`
}

// ServerConfig configures the `tubelens serve` and `tubelens web` listeners.
type ServerConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

// ClientConfig configures the CLI search client.
type ClientConfig struct {
	// APIURL is the base URL of a running tubelens API server.
	APIURL string `toml:"api_url"`
}

// TranscriptsConfig configures the server-side transcript cache.
type TranscriptsConfig struct {
	// CacheTTL controls how long a cached transcript stays fresh.
	// Zero disables expiry.
	CacheTTL Duration `toml:"cache_ttl"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() (*Config, error) {
	dataDir, err := GetDefaultDataDir()
	if err != nil {
		return nil, fmt.Errorf("getting default data directory: %w", err)
	}
	return &Config{
		DataDir:        dataDir,
		MaxResults:     10,
		RequestTimeout: Duration{30 * time.Second},
		Server:         ServerConfig{Host: "localhost", Port: "8080"},
		Client:         ClientConfig{APIURL: "http://localhost:8080"},
		Transcripts:    TranscriptsConfig{CacheTTL: Duration{7 * 24 * time.Hour}},
	}, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.DataDir == "" {
		dataDir, err := GetDefaultDataDir()
		if err != nil {
			return nil, fmt.Errorf("getting default data directory: %w", err)
		}
		config.DataDir = dataDir
	}

	if config.MaxResults <= 0 {
		config.MaxResults = 10
	}
	if config.MaxResults > 50 {
		config.MaxResults = 50
	}
	if config.RequestTimeout.Duration == 0 {
		config.RequestTimeout = Duration{30 * time.Second}
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Client.APIURL == "" {
		config.Client.APIURL = "http://" + config.Server.Host + ":" + config.Server.Port
	}

	// API keys may also come from the environment, which wins over the file
	// so deployments can keep secrets out of it.
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		config.YouTubeAPIKey = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		config.GoogleAPIKey = v
	}
	if v := os.Getenv("GOOGLE_CSE_ID"); v != "" {
		config.GoogleCSEID = v
	}

	return &config, nil
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template, err := c.generateConfigTemplate()
	if err != nil {
		return fmt.Errorf("generating config template: %w", err)
	}
	return os.WriteFile(configPath, []byte(template), 0644)
}

func (c *Config) generateConfigTemplate() (string, error) {
	dataDir := c.DataDir
	if dataDir == "" {
		var err error
		dataDir, err = GetDefaultDataDir()
		if err != nil {
			return "", fmt.Errorf("getting default data directory: %w", err)
		}
	}

	// Replace the placeholder data_dir with the actual path
	template := strings.Replace(configTemplate, "/home/user/.local/share/tubelens", dataDir, 1)
	return template, nil
}

// TranscriptCachePath returns the path of the transcript cache database.
func (c *Config) TranscriptCachePath() string {
	return filepath.Join(c.DataDir, "transcripts.db")
}

// ListenAddr returns the host:port the API server binds to.
func (c *Config) ListenAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// GetDefaultDataDir returns the default directory for local state
func GetDefaultDataDir() (string, error) {
	// Use XDG_DATA_HOME if set, otherwise use ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	tubelensDir := filepath.Join(dataDir, "tubelens")

	// Create the directory if it doesn't exist
	if err := os.MkdirAll(tubelensDir, 0755); err != nil {
		return "", fmt.Errorf("creating data directory %s: %w", tubelensDir, err)
	}

	return tubelensDir, nil
}

// GetConfigDir returns the configuration directory for tubelens
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	tubelensConfigDir := filepath.Join(configDir, "tubelens")

	// Create the directory if it doesn't exist
	if err := os.MkdirAll(tubelensConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", tubelensConfigDir, err)
	}

	return tubelensConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
