// Package config manages YAML-based configuration, environment overrides and CLI flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvPort     = "GAMEENGINE_PORT"
	EnvAudioDir = "GAMEENGINE_AUDIO_DIR"
)

// Audio describes where audio files live and which names count as audio.
type Audio struct {
	Dir        string   `yaml:"dir" json:"dir"`
	Extensions []string `yaml:"extensions" json:"extensions"`
}

// Config holds all configuration options for the server
type Config struct {
	Port        int      `yaml:"port"`
	Template    string   `yaml:"template"`
	StaticDir   string   `yaml:"static_dir"`
	Audio       Audio    `yaml:"audio"`
	Watch       bool     `yaml:"watch"`
	Open        bool     `yaml:"open"`
	CORSOrigins []string `yaml:"cors_origins,omitempty"`
	LogLevel    string   `yaml:"log_level"`

	// Internal: path to config file for saving
	configPath string
	saveConfig bool
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Port:      5000,
		Template:  filepath.Join("templates", "index.html"),
		StaticDir: "static",
		Audio: Audio{
			Dir:        filepath.Join("static", "program"),
			Extensions: []string{".mp3", ".wav"},
		},
		Watch:       true,
		Open:        false,
		CORSOrigins: []string{"*"},
		LogLevel:    "info",
	}
}

// GetConfigDir returns the config directory path
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "gameengine")
	}
	return filepath.Join(home, ".config", "gameengine")
}

// GetConfigPath returns the full path to the global config file
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// Load builds the configuration from defaults, the config file, the
// environment (including a local .env file) and finally the given CLI args.
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()

	fset := flag.NewFlagSet("gameengine", flag.ContinueOnError)
	port := fset.Int("port", 0, "HTTP server port")
	template := fset.String("template", "", "Page template (.html or .md)")
	static := fset.String("static", "", "Static files directory")
	audioDir := fset.String("audio-dir", "", "Directory scanned for audio files")
	watch := fset.Bool("watch", true, "Watch the audio directory for changes")
	open := fset.Bool("open", false, "Open browser on startup")
	logLevel := fset.String("log-level", "", "Log level (debug, info, warn, error)")
	configFile := fset.String("config", "", "Configuration file path")
	saveConfig := fset.Bool("save-config", false, "Write the effective configuration to the config file")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}

	// Determine config file path
	var cfgPath string
	if *configFile != "" {
		cfgPath = *configFile
	} else if _, err := os.Stat("gameengine.yaml"); err == nil {
		cfgPath = "gameengine.yaml"
	} else if _, err := os.Stat(GetConfigPath()); err == nil {
		cfgPath = GetConfigPath()
	}

	if cfgPath != "" {
		if err := cfg.loadFromFile(cfgPath); err != nil {
			// Only fail if the user named the file explicitly
			if *configFile != "" {
				return nil, fmt.Errorf("load config %s: %w", cfgPath, err)
			}
			logrus.WithError(err).WithField("config", cfgPath).Warn("ignoring unreadable config file, using defaults")
		}
		cfg.configPath = cfgPath
	} else {
		cfg.configPath = GetConfigPath()
	}

	// A missing .env is the common case
	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// Command line flags override everything (only if explicitly set)
	if *port != 0 {
		cfg.Port = *port
	}
	if *template != "" {
		cfg.Template = *template
	}
	if *static != "" {
		cfg.StaticDir = *static
	}
	if *audioDir != "" {
		cfg.Audio.Dir = *audioDir
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "watch":
			cfg.Watch = *watch
		case "open":
			cfg.Open = *open
		}
	})

	cfg.saveConfig = *saveConfig

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ShouldSave reports whether --save-config was given.
func (c *Config) ShouldSave() bool {
	return c.saveConfig
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Port = port
	}
	if v := os.Getenv(EnvAudioDir); v != "" {
		c.Audio.Dir = v
	}
	return nil
}

// loadFromFile applies the YAML file on top of c. On error c is left untouched.
func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	next := *c
	if err := yaml.Unmarshal(data, &next); err != nil {
		return err
	}
	*c = next
	return nil
}

// Validate reports the first problem that would make the server unusable.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Audio.Dir == "" {
		return errors.New("audio directory must not be empty")
	}
	if len(c.Audio.Extensions) == 0 {
		return errors.New("at least one audio extension is required")
	}
	for _, ext := range c.Audio.Extensions {
		if strings.TrimSpace(ext) == "" {
			return errors.New("audio extensions must not be empty")
		}
	}
	return nil
}

// Save saves the current configuration to the config file
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.configPath, data, 0o644)
}

// GetConfigFilePath returns the path to the config file
func (c *Config) GetConfigFilePath() string {
	return c.configPath
}

// IsAudioFile reports whether name ends in one of the configured audio
// extensions. Matching is exact and case-sensitive.
func (c *Config) IsAudioFile(name string) bool {
	for _, ext := range c.Audio.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
