package main

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the command's configuration, read from nodeclass.toml or
// nodeclass.yaml, NODECLASS_* environment variables and flags.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Registry RegistryConfig `mapstructure:"registry"`
	Manifest ManifestConfig `mapstructure:"manifest"`
	Watch    WatchConfig    `mapstructure:"watch"`
}

type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

type RegistryConfig struct {
	MaxDepth int `mapstructure:"max_depth"`
}

type ManifestConfig struct {
	Paths []string `mapstructure:"paths"`
}

type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms"`
}

func (c WatchConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("registry.max_depth", 64)
	v.SetDefault("manifest.paths", []string{})
	v.SetDefault("watch.debounce_ms", 200)
}

// loadConfig layers defaults, the config file, the environment and flags,
// lowest precedence first. A missing config file is not an error unless
// path names one explicitly.
func loadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("NODECLASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("nodeclass")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	if flags != nil {
		for key, flag := range map[string]string{
			"log.json":           "log-json",
			"log.level":          "log-level",
			"registry.max_depth": "max-depth",
		} {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "bind flag %s", flag)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	return &cfg, nil
}
