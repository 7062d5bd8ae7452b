//go:build wireinject
// +build wireinject

package main

import (
	"context"
	"io"

	"github.com/google/wire"
	"github.com/tjjh89017/readflag/internal/config"
	"github.com/tjjh89017/readflag/internal/ctrl"
	"github.com/tjjh89017/readflag/internal/daemon"
	"github.com/tjjh89017/readflag/internal/logger"
	"github.com/tjjh89017/readflag/internal/metrics"
	"github.com/tjjh89017/readflag/internal/plugin"
	"github.com/tjjh89017/readflag/internal/server"
	pluginapi "github.com/tjjh89017/readflag/pluginapi"
)

func setup(ctx context.Context) (*daemon.Daemon, error) {
	wire.Build(
		config.Load,
		logger.DefaultSet,
		metrics.DefaultSet,
		plugin.NewManager,
		wire.Bind(new(io.Closer), new(*plugin.Manager)),
		provideStore,
		provideInstrumentedStore,
		wire.Bind(new(ctrl.Store), new(*metrics.InstrumentedStore)),
		ctrl.DefaultSet,
		server.DefaultSet,
		daemon.New,
	)

	return nil, nil
}

func provideStore(ctx context.Context, config *config.Config, manager *plugin.Manager) (pluginapi.Store, error) {
	err := manager.LoadPlugins(ctx, map[string]pluginapi.PluginDefinition{
		plugin.DefaultName: config.Store,
	})
	if err != nil {
		return nil, err
	}

	return manager.GetPlugin(plugin.DefaultName)
}

func provideInstrumentedStore(store pluginapi.Store, m *metrics.Metrics) *metrics.InstrumentedStore {
	return metrics.NewInstrumentedStore(store, m)
}
