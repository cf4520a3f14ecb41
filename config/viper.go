// Copyright (C) 2019-2025, Lux Industries Inc All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// NewConfig builds and validates the configuration from a viper instance.
func NewConfig(v *viper.Viper) (Config, error) {
	cfg, err := BuildConfig(v)
	if err != nil {
		return cfg, err
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("failed to validate configuration: %w", err)
	}
	return cfg, nil
}

// BuildViper builds the viper instance. The config file must be provided via
// the command line flag or environment variable. All config keys may be
// provided via config file or environment variable.
func BuildViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	// Map flag names to env var names. Flags are capitalized, and hyphens are
	// replaced with underscores.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if !v.IsSet(ConfigFileKey) {
		return nil, fmt.Errorf("config file not set")
	}

	filename := v.GetString(ConfigFileKey)
	v.SetConfigFile(filename)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return v, nil
}

// SetDefaultConfigValues sets the default values for optional keys.
func SetDefaultConfigValues(v *viper.Viper) {
	v.SetDefault(LogLevelKey, defaultLogLevel)
	v.SetDefault(MetricsPortKey, defaultMetricsPort)
}

// BuildConfig constructs the settlement node config using Viper. Flags take
// precedence over the config file.
func BuildConfig(v *viper.Viper) (Config, error) {
	SetDefaultConfigValues(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal viper config: %w", err)
	}
	return cfg, nil
}

// BuildFlagSet returns the command line flags understood by the node.
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("intents", pflag.ContinueOnError)
	fs.String(ConfigFileKey, "", "Path to the JSON configuration file")
	fs.Bool(VersionKey, false, "Print the version and exit")
	fs.Bool(HelpKey, false, "Print usage and exit")
	return fs
}
