// Package config holds the application configuration and loads it from a
// file, the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "IMGMETA"

// Config represents the application configuration
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Extract  ExtractConfig `mapstructure:"extract"`
	S3       S3Config      `mapstructure:"s3"`
}

// ExtractConfig controls report extraction.
type ExtractConfig struct {
	Output      string `mapstructure:"output"` // text or json
	Strict      bool   `mapstructure:"strict"`
	Concurrency int    `mapstructure:"concurrency"`
	Publish     bool   `mapstructure:"publish"`
}

// S3Config represents S3 connection configuration
type S3Config struct {
	Endpoint  string        `mapstructure:"endpoint"`
	Region    string        `mapstructure:"region"`
	Bucket    string        `mapstructure:"bucket"`
	AccessKey string        `mapstructure:"access_key"`
	SecretKey string        `mapstructure:"secret_key"`
	UseSSL    bool          `mapstructure:"use_ssl"`
	Prefix    string        `mapstructure:"prefix"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// New creates a new configuration with default values
func New() *Config {
	return &Config{
		LogLevel: "warn",
		Extract: ExtractConfig{
			Output:      "text",
			Concurrency: 4,
		},
		S3: S3Config{
			Region:  "us-east-1",
			UseSSL:  true,
			Prefix:  "reports/",
			Timeout: 30 * time.Second,
		},
	}
}

// SetDefaults registers the values of New with v so that file and
// environment keys are recognised even when unset.
func SetDefaults(v *viper.Viper) {
	d := New()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("extract.output", d.Extract.Output)
	v.SetDefault("extract.strict", d.Extract.Strict)
	v.SetDefault("extract.concurrency", d.Extract.Concurrency)
	v.SetDefault("extract.publish", d.Extract.Publish)
	v.SetDefault("s3.endpoint", d.S3.Endpoint)
	v.SetDefault("s3.region", d.S3.Region)
	v.SetDefault("s3.bucket", d.S3.Bucket)
	v.SetDefault("s3.access_key", d.S3.AccessKey)
	v.SetDefault("s3.secret_key", d.S3.SecretKey)
	v.SetDefault("s3.use_ssl", d.S3.UseSSL)
	v.SetDefault("s3.prefix", d.S3.Prefix)
	v.SetDefault("s3.timeout", d.S3.Timeout)
}

// Load reads configuration into a Config. Values come, lowest priority
// first, from defaults, the optional file at path, IMGMETA_* environment
// variables (IMGMETA_S3_BUCKET for s3.bucket), and any flags already bound
// to v.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("config file not found: %s", path)
			}
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	switch c.Extract.Output {
	case "text", "json":
	default:
		return fmt.Errorf("invalid output format %q (want text or json)", c.Extract.Output)
	}
	if c.Extract.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Extract.Concurrency)
	}
	if c.Extract.Publish && c.S3.Bucket == "" {
		return fmt.Errorf("publishing requires s3.bucket")
	}
	return nil
}
