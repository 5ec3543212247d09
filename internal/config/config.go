package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix namespaces every environment override, e.g. HEADLINES_API_KEY.
	EnvPrefix = "HEADLINES"
	// EnvConfigFile names an optional YAML/JSON config file.
	EnvConfigFile = "HEADLINES_CONFIG_FILE"

	TransportProxy  = "proxy"
	TransportDirect = "direct"

	defaultTheme       = "dark"
	defaultAPIEndpoint = "https://newsapi.org/v2/top-headlines"
	defaultCountryCode = "us"
	defaultProxyURL    = "https://api.allorigins.win/get?url="
	defaultHTTPTimeout = 15 * time.Second
	defaultLogLevel    = "info"
)

// Config holds the static settings of the headline page.
// It is built once and must not be modified afterwards.
type Config struct {
	Theme       string `mapstructure:"theme"`
	APIEndpoint string `mapstructure:"api_endpoint"`
	APIKey      string `mapstructure:"api_key"`
	CountryCode string `mapstructure:"country_code"`

	ProxyURL       string        `mapstructure:"proxy_url"`
	Transport      string        `mapstructure:"transport"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
	PublishersFile string        `mapstructure:"publishers_file"`
	PageTemplate   string        `mapstructure:"page_template"`
	EnrichArticles bool          `mapstructure:"enrich_articles"`
}

var (
	once     sync.Once
	instance *Config
	loadErr  error
)

// Get returns the process-wide Config, constructing it on first use.
// Every call returns the same pointer.
func Get() *Config {
	once.Do(func() {
		// .env is optional
		_ = godotenv.Load()

		cfg, err := Load(strings.TrimSpace(os.Getenv(EnvConfigFile)))
		if err != nil {
			loadErr = err
			if cfg, err = Load(""); err != nil {
				cfg = defaultConfig()
			}
		}
		instance = cfg
	})
	return instance
}

// LoadErr reports why the config file named by HEADLINES_CONFIG_FILE was ignored, if it was.
func LoadErr() error {
	Get()
	return loadErr
}

// Load builds a standalone Config from defaults, environment and, when path is set, a config file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	sanitize(&cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Theme:       defaultTheme,
		APIEndpoint: defaultAPIEndpoint,
		CountryCode: defaultCountryCode,
		ProxyURL:    defaultProxyURL,
		Transport:   TransportProxy,
		HTTPTimeout: defaultHTTPTimeout,
		LogLevel:    defaultLogLevel,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("theme", defaultTheme)
	v.SetDefault("api_endpoint", defaultAPIEndpoint)
	v.SetDefault("api_key", "")
	v.SetDefault("country_code", defaultCountryCode)
	v.SetDefault("proxy_url", defaultProxyURL)
	v.SetDefault("transport", TransportProxy)
	v.SetDefault("http_timeout", defaultHTTPTimeout)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("publishers_file", "")
	v.SetDefault("page_template", "")
	v.SetDefault("enrich_articles", false)
}

// sanitize trims and normalizes the config fields.
func sanitize(cfg *Config) {
	cfg.Theme = strings.TrimSpace(cfg.Theme)
	cfg.APIEndpoint = strings.TrimSpace(cfg.APIEndpoint)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.CountryCode = strings.ToLower(strings.TrimSpace(cfg.CountryCode))
	cfg.ProxyURL = strings.TrimSpace(cfg.ProxyURL)
	cfg.Transport = strings.ToLower(strings.TrimSpace(cfg.Transport))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.PublishersFile = strings.TrimSpace(cfg.PublishersFile)
	cfg.PageTemplate = strings.TrimSpace(cfg.PageTemplate)

	if cfg.Transport == "" {
		cfg.Transport = TransportProxy
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
}

func validate(cfg Config) error {
	if cfg.APIEndpoint == "" {
		return errors.New("api_endpoint is required")
	}
	switch cfg.Transport {
	case TransportProxy:
		if cfg.ProxyURL == "" {
			return errors.New("proxy_url is required for the proxy transport")
		}
	case TransportDirect:
	default:
		return fmt.Errorf("transport %q not supported", cfg.Transport)
	}
	return nil
}
