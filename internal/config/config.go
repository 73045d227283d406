// Package config loads the deduplicating store's configuration from, in
// ascending priority, built-in defaults, an optional config file, and
// CDCSTORE_-prefixed environment variables, mirroring the layering the
// teacher's cmd/alexander-server/main.go expects from its own dropped
// config package.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/dedupfs/cdcstore/internal/chunker"
	"github.com/dedupfs/cdcstore/internal/hashbuilder"
)

// Config is the full configuration surface for the store and its
// supporting binaries.
type Config struct {
	Chunker     ChunkerConfig     `mapstructure:"chunker"`
	HashBuilder HashBuilderConfig `mapstructure:"hash_builder"`
	Backend     BackendConfig     `mapstructure:"backend"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ChunkerConfig mirrors chunker.Config, in the units a human writes into
// a config file or environment variable (plain ints, not a Span type).
type ChunkerConfig struct {
	MinSize            int `mapstructure:"min_size"`
	AvgSize            int `mapstructure:"avg_size"`
	MaxSize            int `mapstructure:"max_size"`
	NormalizationLevel int `mapstructure:"normalization_level"`
}

// HashBuilderConfig selects the fingerprint family and seed.
type HashBuilderConfig struct {
	Family string `mapstructure:"family"`
	Seed   uint64 `mapstructure:"seed"`
}

// BackendConfig holds the connection strings for the out-of-core-scope
// external backends. These values do not select a backend: cdcstore-bench
// picks its chunk store with --backend, requires RedisURL when that is
// "redis", and falls back to its default database file when SQLitePath is
// empty. PostgresURL is not read by cdcstore-bench.
type BackendConfig struct {
	RedisURL    string `mapstructure:"redis_url"`
	PostgresURL string `mapstructure:"postgres_url"`
	SQLitePath  string `mapstructure:"sqlite_path"`
}

// LoggingConfig controls the zerolog global level. Pretty is loaded but
// not read by cdcstore-bench, which always logs through a console writer.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load reads configuration from defaults, an optional file at path (if
// path is empty, viper looks for "cdcstore.yaml" in the working
// directory and "/etc/cdcstore/"), and CDCSTORE_-prefixed environment
// variables, in that ascending priority order.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("cdcstore")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("cdcstore")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/cdcstore")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := chunker.DefaultConfig()
	v.SetDefault("chunker.min_size", def.MinSize)
	v.SetDefault("chunker.avg_size", def.AvgSize)
	v.SetDefault("chunker.max_size", def.MaxSize)
	v.SetDefault("chunker.normalization_level", def.NormalizationLevel)

	v.SetDefault("hash_builder.family", string(hashbuilder.DefaultFamily))
	v.SetDefault("hash_builder.seed", hashbuilder.DefaultSeed)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", false)
}

// ChunkerDomainConfig converts the loaded config into a chunker.Config.
func (c Config) ChunkerDomainConfig() chunker.Config {
	return chunker.Config{
		MinSize:            c.Chunker.MinSize,
		AvgSize:            c.Chunker.AvgSize,
		MaxSize:            c.Chunker.MaxSize,
		NormalizationLevel: c.Chunker.NormalizationLevel,
	}
}

// Validate checks the loaded chunker sizes (positive, min < avg < max),
// which chunker.New itself does not check, and the hash family, which
// hashbuilder.New would otherwise reject at first use, surfacing either
// error at load time.
func (c Config) Validate() error {
	if c.Chunker.MinSize <= 0 || c.Chunker.AvgSize <= 0 || c.Chunker.MaxSize <= 0 {
		return fmt.Errorf("config: chunker sizes must be positive")
	}
	if c.Chunker.MinSize >= c.Chunker.AvgSize || c.Chunker.AvgSize >= c.Chunker.MaxSize {
		return fmt.Errorf("config: chunker sizes must satisfy min < avg < max")
	}
	if _, err := hashbuilder.New(hashbuilder.Family(c.HashBuilder.Family), c.HashBuilder.Seed); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
