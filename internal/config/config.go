package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"stockproxy/internal/fetcher"
)

const (
	// DefaultUpstreamBaseURL is the quote service the proxy talks to when not overridden.
	DefaultUpstreamBaseURL = "https://stock-worker.sumitomo0210.workers.dev"
	// DefaultUserAgent is sent on every upstream request.
	DefaultUserAgent = fetcher.DefaultUserAgent
)

// Config holds all configuration for the stock quote proxy.
// It is built once at startup and passed to the components that need it.
type Config struct {
	// HTTP server
	ListenAddr      string        `mapstructure:"listen_addr"`
	MetricsPath     string        `mapstructure:"metrics_path"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Upstream quote service
	UpstreamBaseURL string        `mapstructure:"upstream_base_url"`
	UserAgent       string        `mapstructure:"user_agent"`
	UpstreamTimeout time.Duration `mapstructure:"upstream_timeout"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from environment variables and optional config file.
// Environment variables take precedence over config file values.
//
// Recognized environment variables:
//   - LISTEN_ADDR (default ":8080")
//   - METRICS_PATH (default "/metrics")
//   - SHUTDOWN_TIMEOUT (default "5s")
//   - UPSTREAM_BASE_URL (default production quote service)
//   - USER_AGENT (default "Cloudflare-Worker-Proxy/1.0")
//   - UPSTREAM_TIMEOUT (default "0", no explicit timeout)
//   - LOG_LEVEL (debug, info, warn, error; default "info")
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("")
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("metrics_path", "/metrics")
	v.SetDefault("shutdown_timeout", 5*time.Second)
	v.SetDefault("upstream_base_url", DefaultUpstreamBaseURL)
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("upstream_timeout", time.Duration(0))
	v.SetDefault("log_level", "info")

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.stockproxy")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	v.BindEnv("listen_addr", "LISTEN_ADDR")
	v.BindEnv("metrics_path", "METRICS_PATH")
	v.BindEnv("shutdown_timeout", "SHUTDOWN_TIMEOUT")
	v.BindEnv("upstream_base_url", "UPSTREAM_BASE_URL")
	v.BindEnv("user_agent", "USER_AGENT")
	v.BindEnv("upstream_timeout", "UPSTREAM_TIMEOUT")
	v.BindEnv("log_level", "LOG_LEVEL")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.ListenAddr) == "" {
		problems = append(problems, "LISTEN_ADDR must not be empty")
	}

	u, err := url.Parse(c.UpstreamBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("UPSTREAM_BASE_URL %q is not an absolute http(s) URL", c.UpstreamBaseURL))
	}

	if c.UpstreamTimeout < 0 {
		problems = append(problems, "UPSTREAM_TIMEOUT must not be negative")
	}

	if !strings.HasPrefix(c.MetricsPath, "/") || c.MetricsPath == "/" {
		problems = append(problems, fmt.Sprintf("METRICS_PATH %q must be a path other than /", c.MetricsPath))
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}
	return nil
}

// ParseLogLevel maps a LOG_LEVEL value onto a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", s)
	}
}
