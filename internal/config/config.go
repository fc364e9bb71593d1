// Package config handles TOML-based configuration loading and validation.
// Values come from defaults, then the config file, then VLIVE_* environment
// variables; command-line flags are applied last by the caller.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"vlivedl/internal/extract"
	"vlivedl/internal/vlive"
)

const envPrefix = "VLIVE"

// Config holds all application configuration.
type Config struct {
	BaseURL     string `toml:"base_url" envconfig:"BASE_URL"`
	ChannelsURL string `toml:"channels_url" envconfig:"CHANNELS_URL"`
	APIURL      string `toml:"api_url" envconfig:"API_URL"`
	PlayURL     string `toml:"play_url" envconfig:"PLAY_URL"`
	AppID       string `toml:"app_id" envconfig:"APP_ID"`
	PageSize    int    `toml:"page_size" envconfig:"PAGE_SIZE"`

	NoPlaylist bool `toml:"no_playlist" envconfig:"NO_PLAYLIST"`
	Flat       bool `toml:"flat" envconfig:"FLAT"`

	Email    string `toml:"email" envconfig:"EMAIL"`
	Password string `toml:"password" envconfig:"PASSWORD"`

	Player       string        `toml:"player" envconfig:"PLAYER"`
	SubsLanguage string        `toml:"subs_language" envconfig:"SUBS_LANGUAGE"`
	Quality      string        `toml:"quality" envconfig:"QUALITY"`
	History      bool          `toml:"history" envconfig:"HISTORY"`
	DownloadDir  string        `toml:"download_dir" envconfig:"DOWNLOAD_DIR"`
	UserAgent    string        `toml:"user_agent" envconfig:"USER_AGENT"`
	Timeout      time.Duration `toml:"timeout" envconfig:"TIMEOUT"`
	Listen       string        `toml:"listen" envconfig:"LISTEN"`
	Debug        bool          `toml:"debug" envconfig:"DEBUG"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		BaseURL:      vlive.DefaultBaseURL,
		ChannelsURL:  vlive.DefaultChannelsURL,
		APIURL:       vlive.DefaultAPIURL,
		PlayURL:      extract.DefaultPlayURL,
		AppID:        vlive.DefaultAppID,
		PageSize:     vlive.MaxPageSize,
		Player:       "mpv",
		SubsLanguage: "en",
		Quality:      "best",
		History:      true,
		DownloadDir:  "~/Videos/vlivedl",
		Timeout:      30 * time.Second,
		Listen:       "127.0.0.1:8080",
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vlivedl"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vlivedl"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the default config file, then applies environment overrides.
// A missing config file is not an error.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		path = ""
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	validPlayers := map[string]bool{
		"mpv": true, "vlc": true, "iina": true, "celluloid": true,
	}
	if !validPlayers[strings.ToLower(c.Player)] {
		return fmt.Errorf("unsupported player %q (valid: mpv, vlc, iina, celluloid)", c.Player)
	}

	validQualities := map[string]bool{
		"best": true, "worst": true, "360": true, "480": true, "720": true, "1080": true,
	}
	if !validQualities[c.Quality] {
		return fmt.Errorf("unsupported quality %q (valid: best, worst, 360, 480, 720, 1080)", c.Quality)
	}

	for name, u := range map[string]string{
		"base_url":     c.BaseURL,
		"channels_url": c.ChannelsURL,
		"api_url":      c.APIURL,
		"play_url":     c.PlayURL,
	} {
		if u == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
		parsed, err := url.Parse(u)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("%s %q is not an http(s) URL", name, u)
		}
	}

	if c.PageSize < 1 || c.PageSize > vlive.MaxPageSize {
		return fmt.Errorf("page_size %d out of range (1-%d)", c.PageSize, vlive.MaxPageSize)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// ExtractorOptions returns the extractor settings carried by the config.
func (c *Config) ExtractorOptions() vlive.Options {
	return vlive.Options{
		BaseURL:     c.BaseURL,
		ChannelsURL: c.ChannelsURL,
		APIURL:      c.APIURL,
		PlayURL:     c.PlayURL,
		AppID:       c.AppID,
		PageSize:    c.PageSize,
		NoPlaylist:  c.NoPlaylist,
		Flat:        c.Flat,
	}
}

// ExpandDownloadDir resolves ~ in the download directory path.
func (c *Config) ExpandDownloadDir() (string, error) {
	dir := c.DownloadDir
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}

// HistoryPath returns the path to the history database.
func HistoryPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "vlivedl", "history.db"), nil
}
