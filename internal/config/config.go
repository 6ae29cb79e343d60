package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/adn360mx/imgopt/internal/profile"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. IMGOPT_SERVER_PORT.
const EnvPrefix = "IMGOPT"

type Config struct {
	Server ServerConfig
	App    AppConfig
	Log    LogConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type AppConfig struct {
	MaxUploadSize int64
	MaxPixels     int64
	SessionTTL    time.Duration
	Profile       string
}

type LogConfig struct {
	Level       string
	Development bool
}

// Addr is the listen address for the web UI.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Params returns the slider defaults of the configured profile.
func (c AppConfig) Params() profile.Params {
	return profile.Get(c.Profile).Params
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("app.max_upload_size", 50*1024*1024) // 50MB
	v.SetDefault("app.max_pixels", 40_000_000)
	v.SetDefault("app.session_ttl", 30*time.Minute)
	v.SetDefault("app.profile", profile.DefaultName)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads defaults, the optional config file and IMGOPT_* variables,
// in increasing order of precedence.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:         v.GetString("server.host"),
			Port:         v.GetString("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		App: AppConfig{
			MaxUploadSize: v.GetInt64("app.max_upload_size"),
			MaxPixels:     v.GetInt64("app.max_pixels"),
			SessionTTL:    v.GetDuration("app.session_ttl"),
			Profile:       v.GetString("app.profile"),
		},
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Development: v.GetBool("log.development"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the values the server cannot run without.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.App.MaxUploadSize <= 0 {
		return fmt.Errorf("app.max_upload_size must be positive")
	}
	if c.App.MaxPixels <= 0 {
		return fmt.Errorf("app.max_pixels must be positive")
	}
	if c.App.SessionTTL <= 0 {
		return fmt.Errorf("app.session_ttl must be positive")
	}
	if !profile.Known(c.App.Profile) {
		return fmt.Errorf("app.profile %q is not one of %v", c.App.Profile, profile.Names())
	}
	return nil
}
