// Package config loads application settings from configs/config.yml,
// an optional .env file and BLOG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "BLOG"

type Config struct {
	Port      string `mapstructure:"port" validate:"required"`
	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=console json"`

	DB       DBConfig       `mapstructure:"db"`
	Security SecurityConfig `mapstructure:"security"`
	Session  SessionConfig  `mapstructure:"session"`
	Feed     FeedConfig     `mapstructure:"feed"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=sqlite pgx"`
	DSN    string `mapstructure:"dsn" validate:"required"`
}

type SecurityConfig struct {
	SecretKey   string        `mapstructure:"secret_key" validate:"required,min=16"`
	FlashSalt   string        `mapstructure:"flash_salt" validate:"required"`
	FlashMaxAge time.Duration `mapstructure:"flash_max_age" validate:"gt=0"`
}

type SessionConfig struct {
	CookieName string `mapstructure:"cookie_name" validate:"required"`
	// Signed switches the identity cookie from a plain user id to a signed token.
	Signed bool `mapstructure:"signed"`
}

type FeedConfig struct {
	Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
}

type loadOptions struct {
	paths   []string
	name    string
	envFile string
}

// Option tweaks where Load looks for its inputs.
type Option func(*loadOptions)

// WithConfigPaths overrides the directories searched for config.yml.
func WithConfigPaths(paths ...string) Option {
	return func(o *loadOptions) { o.paths = paths }
}

// WithEnvFile overrides the dotenv file name (default ".env").
func WithEnvFile(name string) Option {
	return func(o *loadOptions) { o.envFile = name }
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "app.db")
	// no usable default; registered so AutomaticEnv can fill it without a config file
	v.SetDefault("security.secret_key", "")
	v.SetDefault("security.flash_salt", "flash")
	v.SetDefault("security.flash_max_age", 10*time.Second)
	v.SetDefault("session.cookie_name", "user_id")
	v.SetDefault("session.signed", false)
	v.SetDefault("feed.interval", 5*time.Second)
}

// Load reads configuration. A missing config file is not an error; env vars
// and defaults still apply. The result is validated before it is returned.
func Load(opts ...Option) (*Config, error) {
	o := &loadOptions{paths: []string{"configs"}, name: "config", envFile: ".env"}
	for _, opt := range opts {
		opt(o)
	}

	if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", o.envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(o.name)
	v.SetConfigType("yml")
	for _, p := range o.paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints declared in struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Addr returns the listen address for Port, accepting "8080" or ":8080".
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
