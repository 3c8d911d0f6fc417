// Package config loads deistem settings from flags, environment and an
// optional config file through viper.
package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/deidaraiorek/deistem/algorithm"
	"github.com/deidaraiorek/deistem/stemmer"
)

const EnvPrefix = "DEISTEM"

type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	Algorithm string `mapstructure:"algorithm"`
	CacheSize int    `mapstructure:"cache_size"`
	Addr      string `mapstructure:"addr"`
	PagesDB   string `mapstructure:"pages_db"`
	IndexDB   string `mapstructure:"index_db"`
	BatchSize int    `mapstructure:"batch_size"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("algorithm", "english")
	v.SetDefault("cache_size", stemmer.DefaultCacheSize)
	v.SetDefault("addr", ":8080")
	v.SetDefault("pages_db", "search.db")
	v.SetDefault("index_db", "index.db")
	v.SetDefault("batch_size", 1000)
}

// NewViper returns a viper instance with defaults set and DEISTEM_* variables
// bound. Dashes in keys map to underscores in variable names.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file named by "config", if any, and decodes v.
func Load(v *viper.Viper) (*Config, error) {
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", file)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := algorithm.Default().Canonical(c.Algorithm); err != nil {
		return errors.Wrap(err, "config")
	}
	if c.CacheSize < 0 {
		return errors.Wrapf(stemmer.ErrInvalidCacheSize, "config: cache_size %d", c.CacheSize)
	}
	if c.BatchSize <= 0 {
		return errors.Errorf("config: batch_size must be positive, got %d", c.BatchSize)
	}
	return nil
}
