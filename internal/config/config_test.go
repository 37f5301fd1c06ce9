package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blacktop/xsched/xsched"
	"github.com/spf13/pflag"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("api-key", "", "")
	fs.String("base-url", "", "")
	fs.Duration("timeout", 0, "")
	fs.Bool("verbose", false, "")
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return fs
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAPIKey, "XSCHED_BASE_URL", "XSCHED_TIMEOUT", "XSCHED_VERBOSE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
}

func TestLoadMissingAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := Load(newFlags(t), "")
	var missing xsched.MissingEnvError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingEnvError, got %v", err)
	}
	if len(missing.Variables) != 1 || missing.Variables[0] != EnvAPIKey {
		t.Fatalf("unexpected variables %v", missing.Variables)
	}
}

func TestLoadDefaultsFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIKey, "sk_env")

	cfg, err := Load(newFlags(t), "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIKey != "sk_env" {
		t.Fatalf("APIKey = %q", cfg.APIKey)
	}
	if cfg.BaseURL != xsched.DefaultBaseURL || cfg.Timeout != xsched.DefaultTimeout {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIKey, "sk_env")
	t.Setenv("XSCHED_TIMEOUT", "5000")

	cfg, err := Load(newFlags(t, "--api-key", "sk_flag", "--base-url", "http://localhost:8080/v1"), "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIKey != "sk_flag" || cfg.BaseURL != "http://localhost:8080/v1" {
		t.Fatalf("flags ignored: %+v", cfg)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %s", cfg.Timeout)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "xsched.yaml")
	data := []byte("api_key: sk_file\ntimeout: 10s\nbluesky_pds_url: https://pds.example.com\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(newFlags(t), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIKey != "sk_file" || cfg.Timeout != 10*time.Second || cfg.BlueskyPDSURL != "https://pds.example.com" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	client, err := cfg.Client()
	if err != nil {
		t.Fatalf("Client failed: %v", err)
	}
	if client.Timeout() != 10*time.Second {
		t.Fatalf("client timeout = %s", client.Timeout())
	}
}

func TestParseTimeout(t *testing.T) {
	cases := map[string]time.Duration{
		"30000": 30 * time.Second,
		"1m":    time.Minute,
		"":      time.Second,
		"bogus": time.Second,
		"-5s":   time.Second,
	}
	for in, want := range cases {
		if got := parseTimeout(in, time.Second); got != want {
			t.Fatalf("parseTimeout(%q) = %s, want %s", in, got, want)
		}
	}
}
