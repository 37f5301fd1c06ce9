package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/blacktop/xsched/xsched"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvAPIKey is the environment variable holding the API key.
const EnvAPIKey = "XSCHED_API_KEY"

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Verbose bool

	// Bluesky PDS used to verify app passwords before connecting them.
	BlueskyPDSURL string
}

// flag name -> config key
var flagKeys = map[string]string{
	"api-key":  "api_key",
	"base-url": "base_url",
	"timeout":  "timeout",
	"verbose":  "verbose",
}

// Load reads defaults, an optional config file, XSCHED_* environment
// variables and finally any flags set on the command line.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("base_url", xsched.DefaultBaseURL)
	v.SetDefault("timeout", xsched.DefaultTimeout.String())
	v.SetDefault("verbose", false)
	v.SetDefault("bluesky_pds_url", "https://bsky.social")

	v.SetEnvPrefix("XSCHED")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "xsched"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	cfg := &Config{
		APIKey:        strings.TrimSpace(v.GetString("api_key")),
		BaseURL:       strings.TrimSpace(v.GetString("base_url")),
		Timeout:       parseTimeout(v.GetString("timeout"), xsched.DefaultTimeout),
		Verbose:       v.GetBool("verbose"),
		BlueskyPDSURL: strings.TrimSpace(v.GetString("bluesky_pds_url")),
	}

	if cfg.APIKey == "" {
		return nil, xsched.MissingEnvError{Component: "API key", Variables: []string{EnvAPIKey}}
	}

	return cfg, nil
}

// parseTimeout accepts Go durations ("45s") or bare milliseconds ("45000").
func parseTimeout(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if ms, err := strconv.Atoi(s); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}

// Client builds an API client from the loaded configuration.
func (c *Config) Client() (*xsched.Client, error) {
	return xsched.NewFromConfig(xsched.Config{
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout,
		UserAgent: "xsched-cli/1",
	})
}
