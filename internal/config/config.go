// Package config loads shelfview settings from a config file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment variables, e.g. SHELFVIEW_API_URL.
const EnvPrefix = "SHELFVIEW"

// Keys understood by the loader.
const (
	KeyAPIURL        = "api.url"
	KeyAPITimeout    = "api.timeout"
	KeyAPIValidate   = "api.validate"
	KeyUILocale      = "ui.locale"
	KeyUITimezone    = "ui.timezone"
	KeyUIDateLayout  = "ui.date_layout"
	KeyUIGenres      = "ui.genres"
	KeyUISearchDelay = "ui.search_delay"
	KeyUIRemoveDelay = "ui.remove_delay"
	KeyServerAddr    = "server.addr"
	KeyLogLevel      = "log.level"
)

type Config struct {
	API    APIConfig
	UI     UIConfig
	Server ServerConfig
	Log    LogConfig
}

type APIConfig struct {
	// URL is the backend root; the client appends /api.
	URL      string
	Timeout  time.Duration
	Validate bool
}

type UIConfig struct {
	Locale      string
	Timezone    string
	DateLayout  string
	Genres      []string
	SearchDelay time.Duration
	RemoveDelay time.Duration
}

type ServerConfig struct {
	Addr string
}

type LogConfig struct {
	Level string
}

// New returns a viper instance with defaults and environment binding in
// place.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAPIURL, "http://localhost:8080")
	v.SetDefault(KeyAPITimeout, 10*time.Second)
	v.SetDefault(KeyAPIValidate, false)
	v.SetDefault(KeyUILocale, "en")
	v.SetDefault(KeyUITimezone, "UTC")
	v.SetDefault(KeyUIDateLayout, "02.01.2006")
	v.SetDefault(KeyUIGenres, []string{})
	v.SetDefault(KeyUISearchDelay, 500*time.Millisecond)
	v.SetDefault(KeyUIRemoveDelay, 100*time.Millisecond)
	v.SetDefault(KeyServerAddr, ":8081")
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file, or config.yaml from the working directory and
// $HOME/.shelfview when file is empty. A missing default file is not an
// error.
func Load(v *viper.Viper, file string) (Config, error) {
	if v == nil {
		v = New()
	}
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".shelfview"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		API: APIConfig{
			URL:      strings.TrimSpace(v.GetString(KeyAPIURL)),
			Timeout:  v.GetDuration(KeyAPITimeout),
			Validate: v.GetBool(KeyAPIValidate),
		},
		UI: UIConfig{
			Locale:      strings.TrimSpace(v.GetString(KeyUILocale)),
			Timezone:    strings.TrimSpace(v.GetString(KeyUITimezone)),
			DateLayout:  v.GetString(KeyUIDateLayout),
			Genres:      cleanList(v.GetStringSlice(KeyUIGenres)),
			SearchDelay: v.GetDuration(KeyUISearchDelay),
			RemoveDelay: v.GetDuration(KeyUIRemoveDelay),
		},
		Server: ServerConfig{Addr: v.GetString(KeyServerAddr)},
		Log:    LogConfig{Level: v.GetString(KeyLogLevel)},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values the front-ends cannot recover from.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: %s must be an absolute URL, got %q", KeyAPIURL, c.API.URL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("config: %s must not be negative", KeyAPITimeout)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Location resolves the time zone lend dates are shown in.
func (c Config) Location() (*time.Location, error) {
	if c.UI.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.UI.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", KeyUITimezone, err)
	}
	return loc, nil
}

// ParseLevel maps debug, info, warn and error onto slog levels.
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if strings.TrimSpace(level) == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: %s: %w", KeyLogLevel, err)
	}
	return l, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		// Environment values arrive as one comma separated string.
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
