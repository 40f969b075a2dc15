// Package viper loads makerfetch configuration from a file and MAKERFETCH_*
// environment variables.
package viper

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/makerfetch"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MAKERFETCH_HTTP_TIMEOUT.
const EnvPrefix = "MAKERFETCH"

// Settings is the full configuration of the binary.
type Settings struct {
	Upstream UpstreamSettings `mapstructure:"upstream"`
	HTTP     HTTPSettings     `mapstructure:"http"`
	Resolve  ResolveSettings  `mapstructure:"resolve"`
	Browser  BrowserSettings  `mapstructure:"browser"`
	Server   ServerSettings   `mapstructure:"server"`
}

type UpstreamSettings struct {
	Domain     string            `mapstructure:"domain"`
	APIBaseURL string            `mapstructure:"api_base_url"`
	Headers    map[string]string `mapstructure:"headers"`
}

type HTTPSettings struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	Retries          int           `mapstructure:"retries"`
	RetryDelay       time.Duration `mapstructure:"retry_delay"`
	MaxPageBytes     int64         `mapstructure:"max_page_bytes"`
	MaxDownloadBytes int64         `mapstructure:"max_download_bytes"`
	RateLimit        float64       `mapstructure:"rate_limit"`
}

type ResolveSettings struct {
	TargetPrinter string `mapstructure:"target_printer"`
	AllowRelaxed  bool   `mapstructure:"allow_relaxed"`
	Concurrency   int    `mapstructure:"concurrency"`
}

type BrowserSettings struct {
	Enabled  bool          `mapstructure:"enabled"`
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxPages int64         `mapstructure:"max_pages"`
}

type ServerSettings struct {
	Addr string `mapstructure:"addr"`
}

// Config returns the resolver and downloader configuration.
func (s Settings) Config() makerfetch.Config {
	return makerfetch.Config{
		Domain:           s.Upstream.Domain,
		APIBaseURL:       s.Upstream.APIBaseURL,
		TargetPrinter:    s.Resolve.TargetPrinter,
		Headers:          canonicalHeaders(s.Upstream.Headers),
		Timeout:          s.HTTP.Timeout,
		Retries:          s.HTTP.Retries,
		RetryDelay:       s.HTTP.RetryDelay,
		MaxPageBytes:     s.HTTP.MaxPageBytes,
		MaxDownloadBytes: s.HTTP.MaxDownloadBytes,
		RateLimit:        s.HTTP.RateLimit,
		AllowRelaxed:     s.Resolve.AllowRelaxed,
	}
}

// Validate checks the settings beyond what makerfetch.Config validates.
func (s Settings) Validate() error {
	if err := s.Config().Validate(); err != nil {
		return err
	}
	if s.Resolve.Concurrency < 0 {
		return fmt.Errorf("resolve.concurrency must be >= 0")
	}
	if s.Server.Addr == "" {
		return fmt.Errorf("server.addr must be set")
	}
	return nil
}

// Load reads the optional config file at path and applies environment
// overrides on top of the defaults.
func Load(path string) (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func setDefaults(v *viper.Viper) {
	d := makerfetch.DefaultConfig()
	v.SetDefault("upstream.domain", d.Domain)
	v.SetDefault("upstream.api_base_url", d.APIBaseURL)
	v.SetDefault("upstream.headers", d.Headers)
	v.SetDefault("http.timeout", d.Timeout)
	v.SetDefault("http.retries", d.Retries)
	v.SetDefault("http.retry_delay", d.RetryDelay)
	v.SetDefault("http.max_page_bytes", d.MaxPageBytes)
	v.SetDefault("http.max_download_bytes", d.MaxDownloadBytes)
	v.SetDefault("http.rate_limit", d.RateLimit)
	v.SetDefault("resolve.target_printer", d.TargetPrinter)
	v.SetDefault("resolve.allow_relaxed", d.AllowRelaxed)
	v.SetDefault("resolve.concurrency", 4)
	v.SetDefault("browser.enabled", false)
	v.SetDefault("browser.timeout", 30*time.Second)
	v.SetDefault("browser.max_pages", 50)
	v.SetDefault("server.addr", ":8080")
}

// canonicalHeaders undoes the key lowercasing viper applies to maps.
func canonicalHeaders(h map[string]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[http.CanonicalHeaderKey(k)] = v
	}
	return out
}
