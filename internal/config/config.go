package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/tjjh89017/readflag/internal/entity"
	pluginapi "github.com/tjjh89017/readflag/pluginapi"
)

const Name = "config"

var Paths []string = []string{
	"/etc/readflag",
	"$HOME/.readflag",
	".",
}

var (
	ErrBindEnv         = errors.New("failed to bind env")
	ErrReadConfig      = errors.New("failed to read config")
	ErrUnmarshalConfig = errors.New("failed to unmarshal config")
	ErrInvalidConfig   = errors.New("invalid config")
)

var envs = map[string][]string{
	"log.level":                  {"LOG_LEVEL"},
	"server.listen":              {"READFLAG_LISTEN", "LISTEN"},
	"store.type":                 {"STORE_TYPE"},
	"store.url":                  {"REDIS_URL", "KV_URL"},
	"store.dsn":                  {"DATABASE_URL"},
	"store.api_token":            {"CF_API_TOKEN", "CLOUDFLARE_API_TOKEN"},
	"store.zone_name":            {"CF_ZONE_NAME", "CLOUDFLARE_ZONE_NAME"},
	"flag.strict":                {"READFLAG_STRICT"},
	"server.store_timeout":       {"READFLAG_STORE_TIMEOUT"},
	"server.shutdown_timeout":    {"READFLAG_SHUTDOWN_TIMEOUT"},
	"flag.key_suffix":            {"READFLAG_KEY_SUFFIX"},
	"store.namespace":            {"REDIS_NAMESPACE"},
	"store.schema":               {"DATABASE_SCHEMA"},
	"store.command":              {"STORE_COMMAND"},
	"server.read_header_timeout": {"READFLAG_READ_HEADER_TIMEOUT"},
}

var defaults = map[string]any{
	"log.level":                  "info",
	"server.listen":              ":8080",
	"server.store_timeout":       5 * time.Second,
	"server.shutdown_timeout":    10 * time.Second,
	"server.read_header_timeout": 5 * time.Second,
	"flag.key_suffix":            entity.DefaultKeySuffix,
	"flag.strict":                false,
	"store.type":                 "memory",
}

type Server struct {
	Listen            string        `mapstructure:"listen"`
	StoreTimeout      time.Duration `mapstructure:"store_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
}

type Flag struct {
	KeySuffix string `mapstructure:"key_suffix"`
	Strict    bool   `mapstructure:"strict"`
}

type Config struct {
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Server Server                     `mapstructure:"server"`
	Flag   Flag                       `mapstructure:"flag"`
	Store  pluginapi.PluginDefinition `mapstructure:"store"`
}

func Load() (*Config, error) {
	viper.SetConfigName(Name)
	for _, path := range Paths {
		viper.AddConfigPath(path)
	}
	viper.AutomaticEnv()

	for key, value := range defaults {
		viper.SetDefault(key, value)
	}

	for envName, keys := range envs {
		binding := []string{envName}
		binding = append(binding, keys...)

		if err := viper.BindEnv(binding...); err != nil {
			return nil, errors.Join(ErrBindEnv, err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Join(ErrReadConfig, err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Join(ErrUnmarshalConfig, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Listen == "" {
		return errors.New("server.listen must not be empty")
	}

	if cfg.Store.Type == "" {
		return errors.New("store.type must not be empty")
	}

	if cfg.Server.StoreTimeout < 0 {
		return fmt.Errorf("server.store_timeout must not be negative, got %s", cfg.Server.StoreTimeout)
	}

	if cfg.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative, got %s", cfg.Server.ShutdownTimeout)
	}

	return nil
}
