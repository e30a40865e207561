package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/r9s-ai/reportingcloud/pkg/apierr"
)

const (
	DefaultBaseURI   = "https://api.reporting.cloud"
	DefaultVersion   = "v1"
	DefaultTimeoutMs = 120000
)

type LoggingConfig struct {
	Level string `yaml:"level"`
	// Format selects the slog handler: "text" or "json".
	Format string `yaml:"format"`
	// RequestLogFormat is the per-request debug line, e.g. "$method $path $status".
	RequestLogFormat string `yaml:"request_log_format"`
}

type Config struct {
	APIKey   string `yaml:"api_key"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	BaseURI   string `yaml:"base_uri"`
	Version   string `yaml:"version"`
	TimeoutMs int    `yaml:"timeout_ms"`
	Debug     bool   `yaml:"debug"`
	// Test marks merge requests as test documents; they do not count against
	// the account quota and carry a watermark.
	Test bool `yaml:"test"`
	// Proxy is an outbound proxy URL, or "direct". Empty means the
	// HTTPS_PROXY/HTTP_PROXY/NO_PROXY environment.
	Proxy string `yaml:"proxy"`

	Metrics struct {
		// Listen exposes /metrics when non-empty, e.g. ":9090".
		Listen string `yaml:"listen"`
	} `yaml:"metrics"`

	Sync struct {
		DebounceMs int `yaml:"debounce_ms"`
	} `yaml:"sync"`

	Logging LoggingConfig `yaml:"logging"`
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Default returns a Config with defaults and RC_* environment overrides
// applied. Credentials are not checked.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg
}

func Load(path string) (*Config, error) {
	// #nosec G304 -- path is provided by trusted config/flag.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when path does
// not exist.
func LoadOrDefault(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		cfg := Default()
		return cfg, validate(cfg)
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		return cfg, validate(cfg)
	}
	return cfg, err
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.BaseURI) == "" {
		cfg.BaseURI = DefaultBaseURI
	}
	cfg.BaseURI = strings.TrimRight(strings.TrimSpace(cfg.BaseURI), "/")
	if strings.TrimSpace(cfg.Version) == "" {
		cfg.Version = DefaultVersion
	}
	cfg.Version = strings.Trim(strings.TrimSpace(cfg.Version), "/")
	if cfg.TimeoutMs == 0 {
		cfg.TimeoutMs = DefaultTimeoutMs
	}
	if cfg.Sync.DebounceMs <= 0 {
		cfg.Sync.DebounceMs = 300
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func applyEnvOverrides(cfg *Config) {
	applyEnvCredentialOverrides(cfg)
	applyEnvEndpointOverrides(cfg)
	applyEnvLoggingOverrides(cfg)
}

func applyEnvCredentialOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("RC_API_KEY")); v != "" {
		cfg.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("RC_USERNAME")); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("RC_PASSWORD"); v != "" {
		cfg.Password = v
	}
}

func applyEnvEndpointOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("RC_BASE_URI")); v != "" {
		cfg.BaseURI = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv("RC_VERSION")); v != "" {
		cfg.Version = strings.Trim(v, "/")
	}
	if n, ok := envInt("RC_TIMEOUT_MS"); ok && n > 0 {
		cfg.TimeoutMs = n
	}
	cfg.Debug = envBool("RC_DEBUG", cfg.Debug)
	cfg.Test = envBool("RC_TEST", cfg.Test)
	if v := strings.TrimSpace(os.Getenv("RC_PROXY")); v != "" {
		cfg.Proxy = v
	}
	if v := strings.TrimSpace(os.Getenv("RC_METRICS_LISTEN")); v != "" {
		cfg.Metrics.Listen = v
	}
}

func applyEnvLoggingOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("RC_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RC_REQUEST_LOG_FORMAT"); strings.TrimSpace(v) != "" {
		cfg.Logging.RequestLogFormat = v
	}
}

func envInt(name string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Validate checks the whole configuration, including that credentials are
// present. Load and LoadOrDefault skip the credential check so a client can
// still be pointed at a backend that issues its own key.
func (c *Config) Validate() error {
	if err := validate(c); err != nil {
		return err
	}
	return validateCredentials(c)
}

func validateCredentials(cfg *Config) error {
	hasKey := strings.TrimSpace(cfg.APIKey) != ""
	hasUser := strings.TrimSpace(cfg.Username) != ""
	hasPass := cfg.Password != ""
	switch {
	case hasKey:
		return nil
	case hasUser && hasPass:
		return nil
	case hasUser:
		return &apierr.InvalidConfigurationError{Field: "password", Reason: "is required when username is set"}
	case hasPass:
		return &apierr.InvalidConfigurationError{Field: "username", Reason: "is required when password is set"}
	default:
		return &apierr.InvalidConfigurationError{Field: "api_key", Reason: "or username and password are required"}
	}
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.BaseURI)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &apierr.InvalidConfigurationError{Field: "base_uri", Reason: "must be an absolute http(s) URL"}
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return &apierr.InvalidConfigurationError{Field: "base_uri", Reason: "must not carry a query or fragment"}
	}
	if cfg.Version == "" || strings.ContainsAny(cfg.Version, "/?# ") {
		return &apierr.InvalidConfigurationError{Field: "version", Reason: "must be a single path segment (e.g. v1)"}
	}
	if cfg.TimeoutMs < 0 {
		return &apierr.InvalidConfigurationError{Field: "timeout_ms", Reason: "must be > 0"}
	}
	if v := strings.TrimSpace(cfg.Proxy); v != "" && !strings.EqualFold(v, "direct") && !strings.Contains(v, "://") {
		return &apierr.InvalidConfigurationError{Field: "proxy", Reason: "must be a URL (e.g. http://127.0.0.1:7890) or \"direct\""}
	}
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return &apierr.InvalidConfigurationError{Field: "logging.level", Reason: "must be one of debug|info|warn|error"}
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		return &apierr.InvalidConfigurationError{Field: "logging.format", Reason: "must be text or json"}
	}
	return nil
}
