package plugin

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cloudflare/cloudflare-go"
	"github.com/mitchellh/mapstructure"
	"github.com/redis/go-redis/v9"
	"github.com/tjjh89017/readflag/internal/store"
	pluginapi "github.com/tjjh89017/readflag/pluginapi"
)

type RedisConfig struct {
	URL       string        `mapstructure:"url"`
	Namespace string        `mapstructure:"namespace"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type PostgresConfig struct {
	DSN    string `mapstructure:"dsn"`
	Schema string `mapstructure:"schema"`
}

type CloudflareConfig struct {
	ZoneName string `mapstructure:"zone_name"`
	ApiToken string `mapstructure:"api_token"`
	ApiKey   string `mapstructure:"api_key"`
	ApiEmail string `mapstructure:"api_email"`
}

func decodeConfig(config pluginapi.PluginConfig, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(config)
}

func NewMemoryPlugin(config pluginapi.PluginConfig) (pluginapi.Store, error) {
	return store.NewMemoryStore(), nil
}

func NewRedisPlugin(config pluginapi.PluginConfig) (pluginapi.Store, error) {
	var cfg RedisConfig
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode redis config: %w", err)
	}

	if cfg.URL == "" {
		return nil, fmt.Errorf("url is required for redis plugin")
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	return store.NewRedisStore(
		redis.NewClient(opts),
		store.WithRedisStoreNamespace(cfg.Namespace),
		store.WithRedisStoreTTL(cfg.TTL),
	), nil
}

func NewPostgresPlugin(ctx context.Context, config pluginapi.PluginConfig) (pluginapi.Store, error) {
	var cfg PostgresConfig
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode postgres config: %w", err)
	}

	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required for postgres plugin")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	schema := cfg.Schema
	if schema == "" {
		schema = "public"
	}

	return store.NewPostgresStore(db, store.WithPostgresStoreSchema(schema)), nil
}

func NewCloudflarePlugin(config pluginapi.PluginConfig) (pluginapi.Store, error) {
	var cfg CloudflareConfig
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode cloudflare config: %w", err)
	}

	if cfg.ZoneName == "" {
		return nil, fmt.Errorf("zone_name is required for cloudflare plugin")
	}

	var (
		api *cloudflare.API
		err error
	)
	switch {
	case cfg.ApiToken != "":
		api, err = cloudflare.NewWithAPIToken(cfg.ApiToken)
	case cfg.ApiKey != "" && cfg.ApiEmail != "":
		api, err = cloudflare.New(cfg.ApiKey, cfg.ApiEmail)
	default:
		return nil, fmt.Errorf("api_token or api_key with api_email is required for cloudflare plugin")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudflare client: %w", err)
	}

	return store.NewCloudflareStore(api, cfg.ZoneName), nil
}
