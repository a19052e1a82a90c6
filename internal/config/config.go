package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "URLSENTINEL_"

// Config holds all application configuration
type Config struct {
	App        AppConfig        `json:"app"`
	Log        LogConfig        `json:"log"`
	Scan       ScanConfig       `json:"scan"`
	Classifier ClassifierConfig `json:"classifier"`
	Whois      WhoisConfig      `json:"whois"`
	Store      StoreConfig      `json:"store"`
	Metrics    MetricsConfig    `json:"metrics"`
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name              string `json:"name"`
	Host              string `json:"host"`
	Port              int    `json:"port"`
	AdvertisedAddress string `json:"advertised_address"`
}

// Address returns the full host:port address for the server
func (a *AppConfig) Address() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// BaseURL returns the URL clients should use to reach the server
func (a *AppConfig) BaseURL() string {
	if a.AdvertisedAddress != "" {
		return strings.TrimSuffix(a.AdvertisedAddress, "/")
	}
	return fmt.Sprintf("http://localhost:%d", a.Port)
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// ScanConfig holds per-signal timeouts and lookup settings.
type ScanConfig struct {
	DNSTimeout        time.Duration `json:"dns_timeout"`
	HTTPTimeout       time.Duration `json:"http_timeout"`
	WhoisTimeout      time.Duration `json:"whois_timeout"`
	ClassifierTimeout time.Duration `json:"classifier_timeout"`
	Resolver          string        `json:"resolver"`
	UserAgent         string        `json:"user_agent"`
	TrustListPath     string        `json:"trust_list_path"`
	StripWWW          bool          `json:"strip_www"`
}

// ClassifierMode selects the classifier implementation
type ClassifierMode string

const (
	ClassifierModeLexical ClassifierMode = "lexical"
	ClassifierModeRemote  ClassifierMode = "remote"
)

type ClassifierConfig struct {
	Mode      ClassifierMode `json:"mode"`
	Endpoint  string         `json:"endpoint"`
	MaxLength int            `json:"max_length"`
}

// WhoisConfig throttles outbound WHOIS queries process-wide.
type WhoisConfig struct {
	RatePerSecond float64 `json:"rate_per_second"`
	Burst         int     `json:"burst"`
}

// StoreMode represents the scan store implementation mode
type StoreMode string

const (
	StoreModeNone     StoreMode = "none"
	StoreModeMem      StoreMode = "mem"
	StoreModePostgres StoreMode = "postgres"
)

// StoreConfig holds scan persistence configuration
type StoreConfig struct {
	Mode        StoreMode     `json:"mode"`
	TTL         time.Duration `json:"ttl"`
	DatabaseURL string        `json:"-"`
	QueueSize   int           `json:"queue_size"`
}

type MetricsConfig struct {
	Enabled bool `json:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name: "urlsentinel",
			Host: "0.0.0.0",
			Port: 8080,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Scan: ScanConfig{
			DNSTimeout:        4 * time.Second,
			HTTPTimeout:       5 * time.Second,
			WhoisTimeout:      8 * time.Second,
			ClassifierTimeout: 3 * time.Second,
			UserAgent:         "urlsentinel/1.0 (+URL trust scanner)",
			StripWWW:          true,
		},
		Classifier: ClassifierConfig{
			Mode:      ClassifierModeLexical,
			MaxLength: 512,
		},
		Whois: WhoisConfig{
			RatePerSecond: 2,
			Burst:         4,
		},
		Store: StoreConfig{
			Mode:      StoreModeMem,
			TTL:       24 * time.Hour,
			QueueSize: 256,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load loads configuration from an optional .env file and environment
// variables. Command line flags are bound afterwards with BindFlags and
// take precedence; call Validate once they are parsed.
func Load(envFiles ...string) (*Config, error) {
	cfg := Default()

	if err := loadDotEnv(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads .env files without overriding variables already set.
// A missing file is not an error.
func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() error {
	setString(&c.App.Name, "APP_NAME")
	setString(&c.App.Host, "HOST")
	setString(&c.App.AdvertisedAddress, "ADVERTISED_ADDRESS")
	if err := setInt(&c.App.Port, "PORT"); err != nil {
		return err
	}

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	for key, target := range map[string]*time.Duration{
		"DNS_TIMEOUT":        &c.Scan.DNSTimeout,
		"HTTP_TIMEOUT":       &c.Scan.HTTPTimeout,
		"WHOIS_TIMEOUT":      &c.Scan.WhoisTimeout,
		"CLASSIFIER_TIMEOUT": &c.Scan.ClassifierTimeout,
		"STORE_TTL":          &c.Store.TTL,
	} {
		if err := setDuration(target, key); err != nil {
			return err
		}
	}
	setString(&c.Scan.Resolver, "RESOLVER")
	setString(&c.Scan.UserAgent, "USER_AGENT")
	setString(&c.Scan.TrustListPath, "TRUST_LIST")
	if err := setBool(&c.Scan.StripWWW, "STRIP_WWW"); err != nil {
		return err
	}

	if mode := os.Getenv(EnvPrefix + "CLASSIFIER_MODE"); mode != "" {
		c.Classifier.Mode = ClassifierMode(mode)
	}
	setString(&c.Classifier.Endpoint, "CLASSIFIER_ENDPOINT")
	if err := setInt(&c.Classifier.MaxLength, "CLASSIFIER_MAX_LENGTH"); err != nil {
		return err
	}

	if v := os.Getenv(EnvPrefix + "WHOIS_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sWHOIS_RATE value '%s': %w", EnvPrefix, v, err)
		}
		c.Whois.RatePerSecond = rate
	}
	if err := setInt(&c.Whois.Burst, "WHOIS_BURST"); err != nil {
		return err
	}

	if mode := os.Getenv(EnvPrefix + "STORE_MODE"); mode != "" {
		c.Store.Mode = StoreMode(mode)
	}
	// DATABASE_URL is honoured unprefixed as well, matching common hosting setups.
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.Store.DatabaseURL = url
	}
	setString(&c.Store.DatabaseURL, "DATABASE_URL")
	if err := setInt(&c.Store.QueueSize, "STORE_QUEUE_SIZE"); err != nil {
		return err
	}

	return setBool(&c.Metrics.Enabled, "METRICS_ENABLED")
}

// BindFlags registers command line flags that override the loaded values.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.App.Name, "name", c.App.Name, "Application name")
	fs.StringVar(&c.App.Host, "host", c.App.Host, "Server host address")
	fs.IntVar(&c.App.Port, "port", c.App.Port, "Server port")
	fs.StringVar(&c.App.AdvertisedAddress, "advertised-address", c.App.AdvertisedAddress, "Public base URL shown in usage output")

	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "Log level: debug, info, warn or error")
	fs.StringVar(&c.Log.Format, "log-format", c.Log.Format, "Log format: text or json")

	fs.DurationVar(&c.Scan.DNSTimeout, "dns-timeout", c.Scan.DNSTimeout, "Timeout per DNS query")
	fs.DurationVar(&c.Scan.HTTPTimeout, "http-timeout", c.Scan.HTTPTimeout, "Timeout for the HTTP reachability probe")
	fs.DurationVar(&c.Scan.WhoisTimeout, "whois-timeout", c.Scan.WhoisTimeout, "Timeout for the registration lookup")
	fs.DurationVar(&c.Scan.ClassifierTimeout, "classifier-timeout", c.Scan.ClassifierTimeout, "Timeout for the classifier call")
	fs.StringVar(&c.Scan.Resolver, "resolver", c.Scan.Resolver, "DNS resolver address (host:port); empty uses /etc/resolv.conf")
	fs.StringVar(&c.Scan.TrustListPath, "trust-list", c.Scan.TrustListPath, "Path to the trusted domain list; empty uses the built-in list")
	fs.BoolVar(&c.Scan.StripWWW, "strip-www", c.Scan.StripWWW, "Strip a leading www. label before domain extraction")

	fs.StringVar((*string)(&c.Classifier.Mode), "classifier", string(c.Classifier.Mode), "Classifier mode: 'lexical' or 'remote'")
	fs.StringVar(&c.Classifier.Endpoint, "classifier-endpoint", c.Classifier.Endpoint, "Inference endpoint for the remote classifier")

	fs.StringVar((*string)(&c.Store.Mode), "store", string(c.Store.Mode), "Scan store: 'none', 'mem' or 'postgres'")
	fs.DurationVar(&c.Store.TTL, "store-ttl", c.Store.TTL, "Retention of records in the memory store")

	fs.BoolVar(&c.Metrics.Enabled, "metrics", c.Metrics.Enabled, "Expose Prometheus metrics on /metrics")
}

// Validate ensures the configuration is valid
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name cannot be empty")
	}

	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.App.Port)
	}

	for name, d := range map[string]time.Duration{
		"dns timeout":        c.Scan.DNSTimeout,
		"http timeout":       c.Scan.HTTPTimeout,
		"whois timeout":      c.Scan.WhoisTimeout,
		"classifier timeout": c.Scan.ClassifierTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	switch c.Classifier.Mode {
	case ClassifierModeLexical:
	case ClassifierModeRemote:
		if c.Classifier.Endpoint == "" {
			return fmt.Errorf("classifier endpoint is required in remote mode")
		}
	default:
		return fmt.Errorf("invalid classifier mode '%s': must be 'lexical' or 'remote'", c.Classifier.Mode)
	}
	if c.Classifier.MaxLength <= 0 {
		return fmt.Errorf("classifier max length must be positive")
	}

	if c.Whois.RatePerSecond <= 0 || c.Whois.Burst <= 0 {
		return fmt.Errorf("whois rate and burst must be positive")
	}

	switch c.Store.Mode {
	case StoreModeNone:
	case StoreModeMem:
		if c.Store.TTL < 0 {
			return fmt.Errorf("store TTL cannot be negative")
		}
	case StoreModePostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("database URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("invalid store mode '%s': must be 'none', 'mem' or 'postgres'", c.Store.Mode)
	}
	if c.Store.QueueSize <= 0 {
		return fmt.Errorf("store queue size must be positive")
	}

	return nil
}

// String returns a string representation of the config for debugging
func (c *Config) String() string {
	return fmt.Sprintf("Config{App: {Name: %s, Port: %d}, Classifier: {Mode: %s}, Store: {Mode: %s, TTL: %s}}",
		c.App.Name, c.App.Port, c.Classifier.Mode, c.Store.Mode, c.Store.TTL)
}

func setString(dst *string, key string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(v, ":"))
	if err != nil {
		return fmt.Errorf("invalid %s%s value '%s': %w", EnvPrefix, key, v, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s%s value '%s': %w", EnvPrefix, key, v, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(EnvPrefix + key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s%s value '%s': %w", EnvPrefix, key, v, err)
	}
	*dst = d
	return nil
}
