package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Refresh  RefreshConfig  `mapstructure:"refresh"`
	History  HistoryConfig  `mapstructure:"history"`
	Locale   LocaleConfig   `mapstructure:"locale"`
	Routes   []Route        `mapstructure:"routes"`
}

// ServerConfig contains the HTTP listener settings.
type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	StaticDir string `mapstructure:"static_dir"`
}

// UpstreamConfig points at the parking data feed.
type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RefreshConfig controls the poll loops.
type RefreshConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// HistoryConfig controls the trailing window shown on trend charts.
type HistoryConfig struct {
	Window time.Duration `mapstructure:"window"`
}

// LocaleConfig selects the language used when a request does not ask
// for one explicitly.
type LocaleConfig struct {
	Default string `mapstructure:"default"`
}

// Route is one recognized region grouping of lots. Columns is the
// layout hint for cards rendered under this route.
type Route struct {
	Code    string `mapstructure:"code"`
	NameEN  string `mapstructure:"name_en"`
	NameTA  string `mapstructure:"name_ta"`
	Columns string `mapstructure:"columns"`
}

// Name returns the route's display name for a locale.
func (r Route) Name(locale string) string {
	if locale == "ta" && r.NameTA != "" {
		return r.NameTA
	}
	return r.NameEN
}

// Load reads config.yaml from the given directory (or the working
// directory when empty), applies PARKING_* env overrides and defaults.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix("PARKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// the defaults form a complete config; only a broken file is fatal
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(cfg.Routes) == 0 {
		cfg.Routes = DefaultRoutes()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.static_dir", "./web/static")
	v.SetDefault("upstream.base_url", "http://localhost:5000")
	v.SetDefault("upstream.timeout", 10*time.Second)
	v.SetDefault("refresh.interval", 5*time.Minute)
	v.SetDefault("history.window", 24*time.Hour)
	v.SetDefault("locale.default", "en")
}

// DefaultRoutes is the Tiruchendur route table the dashboard shipped with.
func DefaultRoutes() []Route {
	return []Route{
		{Code: "TUT", NameEN: "Thoothukudi", NameTA: "தூத்துக்குடி", Columns: "col-md-6"},
		{Code: "TIN", NameEN: "Tirunelveli", NameTA: "திருநெல்வேலி", Columns: "col-md-6"},
		{Code: "NGL", NameEN: "Nagercoil", NameTA: "நாகர்கோவில்", Columns: "col-12"},
		{Code: "VIP", NameEN: "VIP", NameTA: "விஐபி", Columns: "col-12"},
	}
}

// Validate rejects values the poll loops cannot run with.
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url must be set")
	}
	if c.Refresh.Interval < 10*time.Second {
		return fmt.Errorf("refresh.interval must be at least 10s, got %s", c.Refresh.Interval)
	}
	if c.History.Window <= 0 {
		return fmt.Errorf("history.window must be positive, got %s", c.History.Window)
	}
	for i, r := range c.Routes {
		if r.Code == "" || r.NameEN == "" {
			return fmt.Errorf("routes[%d]: code and name_en are required", i)
		}
	}
	return nil
}
