package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ModeAsk     = "ask"
	ModeConsole = "console"
	ModeServer  = "server"

	EnvPrefix         = "TODO"
	DefaultConfigName = "config"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Seed    SeedConfig    `mapstructure:"seed"`
	Worker  WorkerConfig  `mapstructure:"worker"`
}

type AppConfig struct {
	// Mode "ask" prompts on stdin for console or server.
	Mode string `mapstructure:"mode" validate:"required,oneof=ask console server"`
}

type ServerConfig struct {
	Host           string        `mapstructure:"host" validate:"required"`
	Port           int           `mapstructure:"port" validate:"gte=0,lt=65536"`
	Concurrent     bool          `mapstructure:"concurrent"`
	MaxConnections int64         `mapstructure:"max_connections" validate:"gt=0"`
	ConnTimeout    time.Duration `mapstructure:"conn_timeout" validate:"gte=0"`
	BodyMode       string        `mapstructure:"body_mode" validate:"required,oneof=content-length lines"`
	MaxBodyBytes   int           `mapstructure:"max_body_bytes" validate:"gt=0"`
}

type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// File replaces the built-in seed data when set.
	File string `mapstructure:"file"`
}

type WorkerConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	OverdueInterval time.Duration `mapstructure:"overdue_interval" validate:"gt=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.mode", ModeAsk)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.concurrent", false)
	v.SetDefault("server.max_connections", 64)
	v.SetDefault("server.conn_timeout", 10*time.Second)
	v.SetDefault("server.body_mode", "content-length")
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")

	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.file", "")

	v.SetDefault("worker.enabled", true)
	v.SetDefault("worker.overdue_interval", time.Minute)
}

// Load reads path (or ./config.yml when path is empty), then TODO_*
// environment variables, then flags. A missing file leaves the defaults in
// place. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if f := flags.Lookup("mode"); f != nil {
			if err := v.BindPFlag("app.mode", f); err != nil {
				return nil, fmt.Errorf("bind mode flag: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
