// Package config loads bufctl settings from defaults, an optional YAML file
// and BUFCTL_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"strbuf-go/pkg/buffers"
	"strbuf-go/pkg/strbuf"
	"strbuf-go/pkg/transform"
)

var ErrNegativeMaxSize = errors.New("config: max_size must not be negative")

type Config struct {
	// MaxSize caps a single buffer allocation in bytes. 0 means unlimited.
	MaxSize       int           `mapstructure:"max_size"`
	Compression   string        `mapstructure:"compression"`
	Replacements  []strbuf.Pair `mapstructure:"replacements"`
	LogDB         string        `mapstructure:"log_db"`
	LogLevel      string        `mapstructure:"log_level"`
	APIListenAddr string        `mapstructure:"api_listen_address"`
	ConfigFile    string        `mapstructure:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		Compression:   "zstd",
		LogLevel:      "info",
		APIListenAddr: ":7780",
	}
}

// Load reads the configuration. An empty path searches for bufctl.yaml in the
// working directory, /etc/bufctl and $HOME/.bufctl; a missing file is not an
// error unless path was given explicitly.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetDefault("max_size", cfg.MaxSize)
	v.SetDefault("compression", cfg.Compression)
	v.SetDefault("log_db", cfg.LogDB)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("api_listen_address", cfg.APIListenAddr)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bufctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/bufctl/")
		v.AddConfigPath("$HOME/.bufctl")
	}
	v.SetEnvPrefix("BUFCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxSize < 0 {
		return ErrNegativeMaxSize
	}
	for i, p := range c.Replacements {
		if p.Pattern == "" {
			return fmt.Errorf("config: replacements[%d]: %w", i, strbuf.ErrEmptyPattern)
		}
	}
	if _, err := transform.ByName(c.Compression); err != nil {
		return fmt.Errorf("config: compression: %w", err)
	}
	return nil
}

// Allocator returns the shared buffer pool, bounded by MaxSize when set.
func (c *Config) Allocator() strbuf.Allocator {
	if c.MaxSize > 0 {
		return &strbuf.Limit{Max: c.MaxSize, Next: buffers.Default}
	}
	return buffers.Default
}

// NewBuffer returns an empty buffer using Allocator.
func (c *Config) NewBuffer() *strbuf.Buffer {
	if c.MaxSize == 0 {
		return buffers.NewBuffer()
	}
	return strbuf.New(strbuf.WithAllocator(c.Allocator()))
}

// Pairs returns extra followed by the configured replacements, so pairs given
// on the command line take priority.
func (c *Config) Pairs(extra ...strbuf.Pair) []strbuf.Pair {
	out := make([]strbuf.Pair, 0, len(extra)+len(c.Replacements))
	out = append(out, extra...)
	return append(out, c.Replacements...)
}
