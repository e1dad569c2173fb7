// ABOUTME: Configuration management for inosync settings and tag table
// ABOUTME: Loads JSON config from the XDG config dir with an optional .env overlay

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/harper/inosync/internal/fsutil"
)

// Environment variables that override the config file.
const (
	EnvUserID   = "INOSYNC_USER_ID"
	EnvVaultDir = "INOSYNC_VAULT_DIR"
	EnvHost     = "INOSYNC_HOST"
)

// TagConfig is one synced tag and its optional destination folder.
type TagConfig struct {
	Name   string `json:"name"`
	Folder string `json:"folder,omitempty"` // empty uses TargetFolder
}

// Config stores inosync configuration.
type Config struct {
	// UserID is the numeric Inoreader user whose public tag streams are read.
	UserID string      `json:"user_id"`
	Tags   []TagConfig `json:"tags"`

	// VaultDir is the root of the note vault. Supports ~ expansion.
	VaultDir string `json:"vault_dir,omitempty"`

	// TargetFolder is the vault-relative folder used by tags without their own folder.
	TargetFolder string `json:"target_folder,omitempty"`

	SyncOnStartup bool `json:"sync_on_startup,omitempty"`

	// Template is either "default" or literal note template text with {{placeholders}}.
	Template     string `json:"template,omitempty"`
	TemplateFile string `json:"template_file,omitempty"`

	// Converter selects the HTML to Markdown engine: "native" or "library".
	Converter string `json:"converter,omitempty"`

	Host              string `json:"host,omitempty"`
	UserAgent         string `json:"user_agent,omitempty"`
	MaxRetries        *int   `json:"max_retries,omitempty"`
	RequestIntervalMS int    `json:"request_interval_ms,omitempty"`
}

// GetHost returns the feed provider host.
func (c *Config) GetHost() string {
	if c.Host == "" {
		return DefaultHost
	}
	return c.Host
}

// GetUserAgent returns the User-Agent sent with feed requests.
func (c *Config) GetUserAgent() string {
	if c.UserAgent == "" {
		return DefaultUserAgent
	}
	return c.UserAgent
}

// GetConverter returns the configured conversion engine name.
func (c *Config) GetConverter() string {
	if c.Converter == "" {
		return DefaultConverter
	}
	return c.Converter
}

// GetMaxRetries returns how many times a failed tag fetch is retried.
func (c *Config) GetMaxRetries() int {
	if c.MaxRetries == nil || *c.MaxRetries < 0 {
		return DefaultMaxRetries
	}
	return *c.MaxRetries
}

// RequestInterval returns the minimum spacing between feed requests.
func (c *Config) RequestInterval() time.Duration {
	if c.RequestIntervalMS <= 0 {
		return DefaultRequestInterval
	}
	return time.Duration(c.RequestIntervalMS) * time.Millisecond
}

// GetVaultDir returns the vault root with ~ expanded, defaulting to the working directory.
func (c *Config) GetVaultDir() string {
	if c.VaultDir == "" {
		return "."
	}
	return ExpandPath(c.VaultDir)
}

// GetTemplate returns the note template text. A template file takes
// precedence over the inline template.
func (c *Config) GetTemplate() (string, error) {
	if c.TemplateFile != "" {
		data, err := os.ReadFile(ExpandPath(c.TemplateFile))
		if err != nil {
			return "", fmt.Errorf("read template file: %w", err)
		}
		return string(data), nil
	}
	if c.Template == "" {
		return DefaultTemplate, nil
	}
	return c.Template, nil
}

// DestFolder returns the vault-relative folder notes for tag are written to.
func (c *Config) DestFolder(tag TagConfig) string {
	if folder := strings.TrimSpace(tag.Folder); folder != "" {
		return folder
	}
	return c.TargetFolder
}

// FindTag returns the configured tag with the given name.
func (c *Config) FindTag(name string) (TagConfig, bool) {
	for _, t := range c.Tags {
		if t.Name == name {
			return t, true
		}
	}
	return TagConfig{}, false
}

// AddTag appends a tag, rejecting empty and duplicate names.
func (c *Config) AddTag(name, folder string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("tag name is required")
	}
	if _, exists := c.FindTag(name); exists {
		return fmt.Errorf("tag %q already exists", name)
	}
	c.Tags = append(c.Tags, TagConfig{Name: name, Folder: strings.TrimSpace(folder)})
	return nil
}

// RemoveTag deletes the tag with the given name.
func (c *Config) RemoveTag(name string) error {
	for i, t := range c.Tags {
		if t.Name == name {
			c.Tags = append(c.Tags[:i], c.Tags[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("tag not found: %s", name)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the default config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "inosync", "config.json")
}

// Default returns the settings used before anything is configured.
func Default() *Config {
	return &Config{
		Tags:     []TagConfig{},
		Template: DefaultTemplate,
	}
}

// Load reads config from path (the default path when empty), then applies
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv loads an optional .env file and overlays INOSYNC_* variables.
func (c *Config) applyEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if v := os.Getenv(EnvUserID); v != "" {
		c.UserID = v
	}
	if v := os.Getenv(EnvVaultDir); v != "" {
		c.VaultDir = v
	}
	if v := os.Getenv(EnvHost); v != "" {
		c.Host = v
	}
	return nil
}

// Save writes config to path (the default path when empty).
func (c *Config) Save(path string) error {
	if path == "" {
		path = GetConfigPath()
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.AtomicWrite(path, data)
}
