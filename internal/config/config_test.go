package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/vantage/internal/config"
)

// newTestFlags registers all config flags on a fresh FlagSet, then parses extra args.
func newTestFlags(t *testing.T, cfgFile string, extra ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(flags)
	args := append([]string{"--config=" + cfgFile}, extra...)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := config.Load(newTestFlags(t, cfgFile))
	require.NoError(t, err)
	assert.Equal(t, cfgFile, cfg.ConfigFile)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, config.DefaultConcurrency, cfg.Concurrency)
	assert.Empty(t, cfg.Providers)
	assert.Empty(t, cfg.Proxy)
	assert.Empty(t, cfg.GeoIPCity)

	// Load never creates the file.
	_, err = os.Stat(cfgFile)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Flags(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := config.Load(newTestFlags(t, cfgFile,
		"-v",
		"--output=json",
		"--proxy=socks5://127.0.0.1:9050",
		"--user-agent=probe/1.0",
		"--concurrency=2",
		"--providers=ipsb,ipinfoio",
		"--geoip-city=/data/city.mmdb",
		"--geoip-asn=/data/asn.mmdb",
	))
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "socks5://127.0.0.1:9050", cfg.Proxy)
	assert.Equal(t, "probe/1.0", cfg.UserAgent)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, []string{"ipsb", "ipinfoio"}, cfg.Providers)
	assert.Equal(t, "/data/city.mmdb", cfg.GeoIPCity)
	assert.Equal(t, "/data/asn.mmdb", cfg.GeoIPASN)
}

func TestLoad_ConfigFileValues(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	content := "output: plain\nconcurrency: 8\nuser_agent: from-file\nproviders:\n  - dbip\n  - ipsb\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o600))

	cfg, err := config.Load(newTestFlags(t, cfgFile))
	require.NoError(t, err)
	assert.Equal(t, "plain", cfg.Output)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, "from-file", cfg.UserAgent)
	assert.Equal(t, []string{"dbip", "ipsb"}, cfg.Providers)
}

func TestLoad_Precedence(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("output: plain\nconcurrency: 8\nuser_agent: from-file\n"), 0o600))
	t.Setenv("VANTAGE_CONCURRENCY", "6")
	t.Setenv("VANTAGE_USER_AGENT", "from-env")

	cfg, err := config.Load(newTestFlags(t, cfgFile, "--user-agent=from-flag"))
	require.NoError(t, err)
	assert.Equal(t, "plain", cfg.Output, "file beats default")
	assert.Equal(t, 6, cfg.Concurrency, "env beats file")
	assert.Equal(t, "from-flag", cfg.UserAgent, "flag beats env")
}

func TestLoad_EnvProviders(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("VANTAGE_PROVIDERS", "maxmind,dbip")

	cfg, err := config.Load(newTestFlags(t, cfgFile))
	require.NoError(t, err)
	assert.Equal(t, []string{"maxmind", "dbip"}, cfg.Providers)
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("output: [unterminated\n"), 0o600))

	_, err := config.Load(newTestFlags(t, cfgFile))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestDefaultConfigPath(t *testing.T) {
	path, err := config.DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", filepath.Base(path))
	assert.Equal(t, "vantage", filepath.Base(filepath.Dir(path)))
}
