// Package config loads pipecanvas settings from a TOML file and the
// environment.
//
// Values are layered: built-in defaults, then the config file, then
// PIPECANVAS_* environment variables. Command-line flags are applied on top
// by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/matzehuels/pipecanvas/pkg/layout"
	"github.com/matzehuels/pipecanvas/pkg/slot"
)

const (
	appName    = "pipecanvas"
	envPrefix  = "PIPECANVAS"
	configFile = "config.toml"
)

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Editor  EditorConfig  `toml:"editor"`
	GitLab  GitLabConfig  `toml:"gitlab" envconfig:"GITLAB"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr" envconfig:"ADDR"`
	AllowedOrigins  []string      `toml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// StorageConfig selects the slot backend. Only the fields of the chosen
// backend are used.
type StorageConfig struct {
	Backend string `toml:"backend" envconfig:"BACKEND"`
	Dir     string `toml:"dir" envconfig:"DIR"`
	Key     string `toml:"key" envconfig:"KEY"`

	RedisURL    string `toml:"redis_url" envconfig:"REDIS_URL"`
	RedisPrefix string `toml:"redis_prefix" envconfig:"REDIS_PREFIX"`

	MongoURI        string `toml:"mongo_uri" envconfig:"MONGO_URI"`
	MongoDatabase   string `toml:"mongo_database" envconfig:"MONGO_DATABASE"`
	MongoCollection string `toml:"mongo_collection" envconfig:"MONGO_COLLECTION"`

	DSN string `toml:"dsn" envconfig:"DSN"`
}

// EditorConfig holds editing defaults.
type EditorConfig struct {
	Mode        string  `toml:"mode" envconfig:"MODE"`
	AutoSnap    bool    `toml:"auto_snap" envconfig:"AUTO_SNAP"`
	BlockWidth  float64 `toml:"block_width" envconfig:"BLOCK_WIDTH"`
	BlockHeight float64 `toml:"block_height" envconfig:"BLOCK_HEIGHT"`

	// Catalog names a TOML file of extra block kinds.
	Catalog string `toml:"catalog" envconfig:"CATALOG"`
}

// GitLabConfig points the linter at a GitLab project.
type GitLabConfig struct {
	URL     string `toml:"url" envconfig:"URL"`
	Token   string `toml:"token" envconfig:"TOKEN"`
	Project string `toml:"project" envconfig:"PROJECT"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			AllowedOrigins:  []string{"http://localhost:3000"},
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Backend: slot.BackendFile,
			Key:     "default",
		},
		Editor: EditorConfig{
			Mode:        string(layout.ModeSingle),
			BlockWidth:  160,
			BlockHeight: 40,
		},
		GitLab: GitLabConfig{
			URL: "https://gitlab.com",
		},
	}
}

// Dir returns the config directory ($XDG_CONFIG_HOME/pipecanvas).
func Dir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DataDir returns the data directory ($XDG_DATA_HOME/pipecanvas) used by
// the file backend when storage.dir is unset.
func DataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the config file at path (the default path when empty) and
// applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: %w", err)
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config: %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

func (c *Config) resolve() error {
	if _, err := layout.ParseMode(c.Editor.Mode); err != nil {
		return fmt.Errorf("config: editor.mode: %w", err)
	}
	if c.Storage.Dir == "" {
		dir, err := DataDir()
		if err != nil {
			return err
		}
		c.Storage.Dir = dir
	}
	return nil
}

// Mode returns the configured initial layout mode.
func (c *Config) Mode() layout.Mode {
	m, _ := layout.ParseMode(c.Editor.Mode)
	return m
}

// BlockSize returns the block size assumed for drops that carry none.
func (c *Config) BlockSize() layout.Size {
	return layout.Size{W: c.Editor.BlockWidth, H: c.Editor.BlockHeight}
}

// SlotOptions maps the storage section onto backend options.
func (c *Config) SlotOptions() slot.Options {
	s := c.Storage
	return slot.Options{
		Backend:         s.Backend,
		Dir:             s.Dir,
		RedisURL:        s.RedisURL,
		RedisPrefix:     s.RedisPrefix,
		MongoURI:        s.MongoURI,
		MongoDatabase:   s.MongoDatabase,
		MongoCollection: s.MongoCollection,
		DSN:             s.DSN,
	}
}

// RequireGitLab validates that the linter can be configured.
func (c *Config) RequireGitLab() error {
	if c.GitLab.Project == "" {
		return errors.New("gitlab project not configured; set PIPECANVAS_GITLAB_PROJECT or gitlab.project in " + configFile)
	}
	return nil
}

// Encode writes c as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
