// Package config resolves runtime settings from flags, VANTAGE_* environment
// variables and an optional YAML file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable key.
const EnvPrefix = "VANTAGE"

// DefaultConcurrency bounds how many targets are looked up at once.
const DefaultConcurrency = 4

// Config is the fully resolved configuration.
type Config struct {
	// ConfigFile is the file that was consulted, whether or not it exists.
	ConfigFile string `mapstructure:"-"`

	Verbose     bool     `mapstructure:"verbose"`
	Output      string   `mapstructure:"output"`
	UserAgent   string   `mapstructure:"user_agent"`
	Proxy       string   `mapstructure:"proxy"`
	Concurrency int      `mapstructure:"concurrency"`
	Providers   []string `mapstructure:"providers"`
	GeoIPCity   string   `mapstructure:"geoip_city"`
	GeoIPASN    string   `mapstructure:"geoip_asn"`
}

// RegisterFlags adds every configuration flag to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "config file (default: $XDG_CONFIG_HOME/vantage/config.yaml)")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.StringP("output", "o", "table", "output format: table, json, plain")
	flags.String("user-agent", "", "User-Agent sent to providers (default: vantage/<version>)")
	flags.String("proxy", "", "proxy URL (http, https or socks5); defaults to the proxy environment variables")
	flags.IntP("concurrency", "c", DefaultConcurrency, "number of targets looked up concurrently")
	flags.StringSliceP("providers", "p", nil, "comma separated provider IDs to query (default: all)")
	flags.String("geoip-city", "", "path to a GeoLite2/GeoIP2 City database; enables the geolite provider")
	flags.String("geoip-asn", "", "path to a GeoLite2 ASN database; enables the geolite provider")
}

// DefaultConfigPath returns the OS-appropriate default config file path.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, "vantage", "config.yaml"), nil
}

// Load resolves the configuration for flags. A missing config file
// is not an error; defaults and environment still apply.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var configFile string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			configFile = f.Value.String()
			return
		}
		// Keys use underscores so file, env and flag spellings agree.
		_ = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	if configFile == "" {
		configFile = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if configFile == "" {
		path, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		configFile = path
	}

	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.ConfigFile = configFile
	return &cfg, nil
}
