// Package config loads ipfq settings from defaults, a config file, the
// environment and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ivoronin/ipfq/internal/ipfabric"
)

// EnvPrefix prefixes every environment variable: IPF_ADDR, IPF_TOKEN, ...
const EnvPrefix = "IPF"

// appName names the directory under the user config dir.
const appName = "ipfq"

// Setting keys; flags use the same names with dashes.
const (
	KeyAddr       = "addr"
	KeyToken      = "token"
	KeyAPIVersion = "api_version"
	KeyInsecure   = "insecure"
	KeyTimeout    = "timeout"
	KeyLogLevel   = "log_level"
)

// flagConfig selects an explicit config file.
const flagConfig = "config"

// DefaultLogLevel keeps the CLI quiet unless something goes wrong.
const DefaultLogLevel = "warn"

// Config holds connection and logging settings.
type Config struct {
	Addr       string        `mapstructure:"addr"`
	Token      string        `mapstructure:"token"`
	APIVersion string        `mapstructure:"api_version"`
	Insecure   bool          `mapstructure:"insecure"`
	Timeout    time.Duration `mapstructure:"timeout"`
	LogLevel   string        `mapstructure:"log_level"`
}

// GetDefaults returns a Config with all default values.
func GetDefaults() *Config {
	return &Config{
		APIVersion: ipfabric.DefaultAPIVersion,
		Timeout:    ipfabric.DefaultTimeout,
		LogLevel:   DefaultLogLevel,
	}
}

// FlagName converts a setting key into its flag name.
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// RegisterFlags adds the connection and logging flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := GetDefaults()
	fs.String(FlagName(KeyAddr), "", "IP Fabric address ("+envName(KeyAddr)+")")
	fs.String(FlagName(KeyToken), "", "API token ("+envName(KeyToken)+")")
	fs.String(FlagName(KeyAPIVersion), d.APIVersion, "API version, e.g. v1, v6.3 or auto ("+envName(KeyAPIVersion)+")")
	fs.Bool(FlagName(KeyInsecure), d.Insecure, "skip TLS certificate verification ("+envName(KeyInsecure)+")")
	fs.Duration(FlagName(KeyTimeout), d.Timeout, "per-request timeout ("+envName(KeyTimeout)+")")
	fs.String(FlagName(KeyLogLevel), d.LogLevel, "log level: debug, info, warn, error ("+envName(KeyLogLevel)+")")
	fs.String(flagConfig, "", "config file (default $XDG_CONFIG_HOME/ipfq/config.yaml)")
}

// Load resolves the configuration. flags may be nil; only flags that were
// set explicitly override the environment and the config file.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, appName))
	}
	v.AddConfigPath(".")

	d := GetDefaults()
	v.SetDefault(KeyAPIVersion, d.APIVersion)
	v.SetDefault(KeyInsecure, d.Insecure)
	v.SetDefault(KeyTimeout, d.Timeout)
	v.SetDefault(KeyLogLevel, d.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	for _, key := range []string{KeyAddr, KeyToken, KeyAPIVersion, KeyInsecure, KeyTimeout, KeyLogLevel} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", envName(key), err)
		}
		if flags == nil {
			continue
		}
		if f := flags.Lookup(FlagName(key)); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind --%s: %w", f.Name, err)
			}
		}
	}

	explicit := false
	if flags != nil {
		if path, err := flags.GetString(flagConfig); err == nil && path != "" {
			v.SetConfigFile(path)
			explicit = true
		}
	}

	// A missing default config file is fine; a missing explicit one is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that do not depend on reaching the server.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid %s %q: %w", KeyLogLevel, c.LogLevel, err)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid %s %s: must not be negative", KeyTimeout, c.Timeout)
	}
	return nil
}

// Level returns the parsed log level, falling back to warn.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return lvl
}

// ClientConfig returns the API client settings.
func (c *Config) ClientConfig() ipfabric.Config {
	return ipfabric.Config{
		Addr:       c.Addr,
		Token:      c.Token,
		APIVersion: c.APIVersion,
		Insecure:   c.Insecure,
		Timeout:    c.Timeout,
	}
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}
