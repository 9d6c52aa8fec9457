package mcp

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the YAML-backed runtime configuration. All fields are optional;
// zero values fall back to defaults, and ${VAR} references in the file are
// expanded from the environment before parsing.
type Config struct {
	Server  ServerSettings  `yaml:"server"`
	Logging LoggingSettings `yaml:"logging"`
	Stdio   StdioSettings   `yaml:"stdio"`
}

// ServerSettings names the server as reported by initialize.
type ServerSettings struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// LoggingSettings controls the slog handler.
type LoggingSettings struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// StdioSettings tunes the stdio transport.
type StdioSettings struct {
	MaxLineBytes int `yaml:"max_line_bytes"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Name:    "starmcp-server",
			Version: "0.1.0",
		},
		Logging: LoggingSettings{
			Level:  "info",
			Format: "text",
		},
		Stdio: StdioSettings{
			MaxLineBytes: DefaultMaxLineBytes,
		},
	}
}

// LoadConfig reads a YAML config file, expands ${VAR} environment references,
// and fills unset fields with defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Server.Name == "" {
		c.Server.Name = def.Server.Name
	}
	if c.Server.Version == "" {
		c.Server.Version = def.Server.Version
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = def.Logging.Format
	}
	if c.Stdio.MaxLineBytes <= 0 {
		c.Stdio.MaxLineBytes = def.Stdio.MaxLineBytes
	}
}

// Logger builds a slog.Logger on w according to the logging settings.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Logging.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
