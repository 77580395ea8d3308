// Package config loads the arbor CLI configuration from YAML.
//
// The file is decoded into a generic map first and then into Config with mapstructure,
// so durations may be written as "250ms" and unknown keys are rejected.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
)

// Config is the full CLI configuration.
type Config struct {
	Demo     string        `mapstructure:"demo"`
	TreeID   string        `mapstructure:"tree_id"`
	Ticks    uint64        `mapstructure:"ticks"`
	Interval time.Duration `mapstructure:"interval"`
	StopOn   []string      `mapstructure:"stop_on"`
	Trace    bool          `mapstructure:"trace"`
	Log      LogConfig     `mapstructure:"log"`
	Server   ServerConfig  `mapstructure:"server"`
	Redis    RedisConfig   `mapstructure:"redis"`
	Board    BoardConfig   `mapstructure:"blackboard"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig configures the HTTP introspection server. An empty Addr disables it.
type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	Namespace string `mapstructure:"metrics_namespace"`
}

// RedisConfig configures snapshot persistence. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
	Lock     bool          `mapstructure:"lock"`
	// EncryptionKey is a base64 AES-256 key; when set, blackboard entries are stored encrypted.
	EncryptionKey string   `mapstructure:"encryption_key"`
	Redact        []string `mapstructure:"redact"`
}

// BoardConfig seeds the tree's blackboard.
type BoardConfig struct {
	Strict bool           `mapstructure:"strict"`
	Seed   map[string]any `mapstructure:"seed"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Demo:  "basic",
		Ticks: 1,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{Namespace: "arbor"},
		Redis:  RedisConfig{Prefix: "arbor:snapshot:"},
	}
}

// Load reads path and decodes it over Default.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return Decode(raw)
}

// Decode applies raw over Default and validates the result.
func Decode(raw map[string]any) (Config, error) {
	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		ErrorUnused: true,
		Result:      &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that mapstructure cannot.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", c.Log.Format)
	}
	if _, err := c.StopStates(); err != nil {
		return err
	}
	if c.Redis.EncryptionKey != "" {
		if _, err := c.Redis.Key(); err != nil {
			return err
		}
	}
	if c.Interval < 0 {
		return fmt.Errorf("invalid interval %s", c.Interval)
	}
	return nil
}

// Key decodes EncryptionKey.
func (r RedisConfig) Key() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(r.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption_key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid encryption_key: want 32 bytes, got %d", len(key))
	}
	return key, nil
}

// StopStates parses StopOn.
func (c Config) StopStates() ([]domain.NodeState, error) {
	states := make([]domain.NodeState, 0, len(c.StopOn))
	for _, s := range c.StopOn {
		state, err := domain.ParseNodeState(s)
		if err != nil {
			return nil, fmt.Errorf("invalid stop_on: %w", err)
		}
		states = append(states, state)
	}
	return states, nil
}
