// Package config loads default settings for the pfb command-line tool
// from PFB_*-prefixed environment variables and an optional config
// file, using the same github.com/spf13/viper layering the
// vorteil CLI uses for its application configuration. The pfb core
// library has no notion of configuration; these defaults only steer
// the CLI wrapper (worker count, log level).
package config

import (
	"github.com/spf13/viper"
)

// Config holds the CLI's tunable defaults.
type Config struct {
	Workers  int    `mapstructure:"workers"`
	LogLevel string `mapstructure:"log_level"`
}

// Load reads defaults from (in increasing priority) built-in defaults,
// an optional config file named pfb.yaml on the search path, and
// PFB_*-prefixed environment variables.
func Load(configPath string) (Config, error) {
	v := viper.New()
	v.SetDefault("workers", 4)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("PFB")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("pfb")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
