package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseAppliesDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := Parse([]byte(`
[server]
jwt_secret = "s3cret"
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Server.Listen != DefaultListen {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
	if cfg.Server.JWTSecret != "s3cret" {
		t.Errorf("JWTSecret = %q", cfg.Server.JWTSecret)
	}
	if cfg.Client.Timeout.Duration != DefaultClientTimeout {
		t.Errorf("Timeout = %v", cfg.Client.Timeout)
	}
	if !strings.HasSuffix(cfg.StorageDir, appName) {
		t.Errorf("StorageDir = %q", cfg.StorageDir)
	}
}

func TestParseSample(t *testing.T) {
	cfg, err := Parse([]byte(configTemplate))
	if err != nil {
		t.Fatalf("sample does not parse: %v", err)
	}
	if cfg.Server.OptimizeInterval.Duration != 6*time.Hour {
		t.Errorf("OptimizeInterval = %v", cfg.Server.OptimizeInterval)
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v", cfg.Server.AllowedOrigins)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	cases := map[string]string{
		"duration": "[client]\ntimeout = \"soon\"\n",
		"base url": "[client]\nbase_url = \"ftp://example.com\"\n",
		"syntax":   "storage_dir = ",
	}
	for name, data := range cases {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "config.toml")
	c := &Config{StorageDir: filepath.Join(dir, "data")}
	if err := c.SaveTemplateConfig(path); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), c.StorageDir) {
		t.Error("storage dir not substituted into template")
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.StorageDir != c.StorageDir {
		t.Errorf("StorageDir = %q", loaded.StorageDir)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Client.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.Client.BaseURL)
	}
}
