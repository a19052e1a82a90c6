package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestConfig_Load_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.App.Name != "urlsentinel" {
		t.Errorf("Expected app name 'urlsentinel', got '%s'", cfg.App.Name)
	}

	if cfg.App.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.App.Port)
	}

	if cfg.Classifier.Mode != ClassifierModeLexical {
		t.Errorf("Expected lexical classifier by default, got %s", cfg.Classifier.Mode)
	}

	if cfg.Store.Mode != StoreModeMem {
		t.Errorf("Expected mem store by default, got %s", cfg.Store.Mode)
	}

	if cfg.Scan.HTTPTimeout != 5*time.Second {
		t.Errorf("Expected HTTP timeout 5s, got %v", cfg.Scan.HTTPTimeout)
	}

	if !cfg.Scan.StripWWW {
		t.Error("Expected strip-www enabled by default")
	}
}

func TestConfig_LoadFromEnv(t *testing.T) {
	clearEnv(t)

	t.Setenv("URLSENTINEL_APP_NAME", "test-app")
	t.Setenv("URLSENTINEL_PORT", "9090")
	t.Setenv("URLSENTINEL_DNS_TIMEOUT", "3s")
	t.Setenv("URLSENTINEL_STORE_MODE", "none")
	t.Setenv("URLSENTINEL_STRIP_WWW", "false")
	t.Setenv("URLSENTINEL_WHOIS_RATE", "0.5")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.App.Name != "test-app" {
		t.Errorf("Expected app name 'test-app', got '%s'", cfg.App.Name)
	}
	if cfg.App.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.App.Port)
	}
	if cfg.Scan.DNSTimeout != 3*time.Second {
		t.Errorf("Expected DNS timeout 3s, got %v", cfg.Scan.DNSTimeout)
	}
	if cfg.Store.Mode != StoreModeNone {
		t.Errorf("Expected store mode none, got %s", cfg.Store.Mode)
	}
	if cfg.Scan.StripWWW {
		t.Error("Expected strip-www disabled")
	}
	if cfg.Whois.RatePerSecond != 0.5 {
		t.Errorf("Expected whois rate 0.5, got %v", cfg.Whois.RatePerSecond)
	}
}

func TestConfig_LoadFromEnv_PortWithColon(t *testing.T) {
	clearEnv(t)
	t.Setenv("URLSENTINEL_PORT", ":3000")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.App.Port != 3000 {
		t.Errorf("Expected port 3000, got %d", cfg.App.Port)
	}
}

func TestConfig_LoadFromDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that exist, even when empty.
	os.Unsetenv("URLSENTINEL_LOG_LEVEL")
	os.Unsetenv("URLSENTINEL_CLASSIFIER_MAX_LENGTH")

	path := filepath.Join(t.TempDir(), ".env")
	content := "URLSENTINEL_LOG_LEVEL=debug\nURLSENTINEL_CLASSIFIER_MAX_LENGTH=256\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level from .env, got '%s'", cfg.Log.Level)
	}
	if cfg.Classifier.MaxLength != 256 {
		t.Errorf("Expected max length 256, got %d", cfg.Classifier.MaxLength)
	}
}

func TestConfig_LoadFromEnv_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"URLSENTINEL_PORT":            "http",
		"URLSENTINEL_HTTP_TIMEOUT":    "soon",
		"URLSENTINEL_STRIP_WWW":       "maybe",
		"URLSENTINEL_WHOIS_RATE":      "fast",
		"URLSENTINEL_STORE_MODE":      "redis",
		"URLSENTINEL_CLASSIFIER_MODE": "oracle",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Errorf("Expected error for %s=%s", key, value)
			}
		})
	}
}

func TestConfig_BindFlags_OverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("URLSENTINEL_PORT", "9090")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindFlags(fs)

	if err := fs.Parse([]string{"--port", "7070", "--store", "none", "--dns-timeout", "2s"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	if cfg.App.Port != 7070 {
		t.Errorf("Expected flag to override port, got %d", cfg.App.Port)
	}
	if cfg.Store.Mode != StoreModeNone {
		t.Errorf("Expected store mode none, got %s", cfg.Store.Mode)
	}
	if cfg.Scan.DNSTimeout != 2*time.Second {
		t.Errorf("Expected DNS timeout 2s, got %v", cfg.Scan.DNSTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty app name", func(c *Config) { c.App.Name = "" }},
		{"zero port", func(c *Config) { c.App.Port = 0 }},
		{"port too large", func(c *Config) { c.App.Port = 70000 }},
		{"zero dns timeout", func(c *Config) { c.Scan.DNSTimeout = 0 }},
		{"remote classifier without endpoint", func(c *Config) { c.Classifier.Mode = ClassifierModeRemote }},
		{"negative store ttl", func(c *Config) { c.Store.TTL = -time.Minute }},
		{"postgres without url", func(c *Config) { c.Store.Mode = StoreModePostgres }},
		{"zero queue", func(c *Config) { c.Store.QueueSize = 0 }},
		{"zero whois burst", func(c *Config) { c.Whois.Burst = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected validation error for %s", tt.name)
			}
		})
	}
}

func TestConfig_Validate_Postgres(t *testing.T) {
	cfg := Default()
	cfg.Store.Mode = StoreModePostgres
	cfg.Store.DatabaseURL = "postgres://localhost:5432/urlsentinel"

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected no validation error, got: %v", err)
	}
}

func TestConfig_String(t *testing.T) {
	cfg := Default()

	str := cfg.String()
	expected := "Config{App: {Name: urlsentinel, Port: 8080}, Classifier: {Mode: lexical}, Store: {Mode: mem, TTL: 24h0m0s}}"
	if str != expected {
		t.Errorf("Expected string '%s', got '%s'", expected, str)
	}
}

func TestAppConfig_BaseURL(t *testing.T) {
	app := AppConfig{Host: "0.0.0.0", Port: 8080}
	if app.BaseURL() != "http://localhost:8080" {
		t.Errorf("Unexpected base URL: %s", app.BaseURL())
	}
	if app.Address() != "0.0.0.0:8080" {
		t.Errorf("Unexpected address: %s", app.Address())
	}

	app.AdvertisedAddress = "https://scan.example.com/"
	if app.BaseURL() != "https://scan.example.com" {
		t.Errorf("Unexpected advertised base URL: %s", app.BaseURL())
	}
}

// Helper functions

func clearEnv(t *testing.T) {
	t.Helper()

	envVars := []string{
		"APP_NAME", "HOST", "PORT", "ADVERTISED_ADDRESS", "LOG_LEVEL", "LOG_FORMAT",
		"DNS_TIMEOUT", "HTTP_TIMEOUT", "WHOIS_TIMEOUT", "CLASSIFIER_TIMEOUT",
		"RESOLVER", "USER_AGENT", "TRUST_LIST", "STRIP_WWW",
		"CLASSIFIER_MODE", "CLASSIFIER_ENDPOINT", "CLASSIFIER_MAX_LENGTH",
		"WHOIS_RATE", "WHOIS_BURST", "STORE_MODE", "STORE_TTL", "DATABASE_URL",
		"STORE_QUEUE_SIZE", "METRICS_ENABLED",
	}

	for _, env := range envVars {
		t.Setenv(EnvPrefix+env, "")
	}
	t.Setenv("DATABASE_URL", "")
}
