package ctrl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/tjjh89017/readflag/internal/config"
	"github.com/tjjh89017/readflag/internal/entity"
	pluginapi "github.com/tjjh89017/readflag/pluginapi"
)

// Ack acknowledges a successful write.
type Ack string

const AckOK Ack = "OK"

type FlagController struct {
	store   Store
	suffix  string
	strict  bool
	timeout time.Duration
	logger  zerolog.Logger
}

func NewFlagController(store Store, config *config.Config, logger *zerolog.Logger) *FlagController {
	return &FlagController{
		store:   store,
		suffix:  config.Flag.KeySuffix,
		strict:  config.Flag.Strict,
		timeout: config.Server.StoreTimeout,
		logger:  logger.With().Str("component", "flag").Logger(),
	}
}

// Strict reports whether written values must be booleans.
func (c *FlagController) Strict() bool {
	return c.strict
}

// Get returns nil when the flag was never set.
func (c *FlagController) Get(ctx context.Context, req *entity.GetReadRequest) (*string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	key := entity.FlagKey(req.Name, c.suffix)
	value, err := c.store.Get(ctx, key)
	if errors.Is(err, pluginapi.ErrKeyNotFound) {
		c.logger.Debug().Str("key", key).Msg("flag not set")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	return &value, nil
}

func (c *FlagController) Set(ctx context.Context, req *entity.SetReadRequest) (Ack, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	key := entity.FlagKey(req.Name, c.suffix)
	if err := c.store.Set(ctx, key, req.Value); err != nil {
		return "", fmt.Errorf("set %s: %w", key, err)
	}

	c.logger.Debug().Str("key", key).Str("value", req.Value).Msg("flag stored")
	return AckOK, nil
}

func (c *FlagController) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
