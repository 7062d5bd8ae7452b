package plugin

import (
	"context"
	"errors"
	"fmt"
	"io"

	pluginapi "github.com/tjjh89017/readflag/pluginapi"
)

// DefaultName is the name the configured store is loaded under.
const DefaultName = "default"

type Manager struct {
	plugins map[string]pluginapi.Store
}

func NewManager() *Manager {
	return &Manager{
		plugins: make(map[string]pluginapi.Store),
	}
}

func (m *Manager) LoadPlugins(ctx context.Context, definitions map[string]pluginapi.PluginDefinition) error {
	for name, def := range definitions {
		store, err := m.createPlugin(ctx, def)
		if err != nil {
			return fmt.Errorf("failed to create plugin %s: %w", name, err)
		}
		m.plugins[name] = store
	}
	return nil
}

func (m *Manager) GetPlugin(name string) (pluginapi.Store, error) {
	store, ok := m.plugins[name]
	if !ok {
		return nil, fmt.Errorf("plugin %s not found", name)
	}
	return store, nil
}

func (m *Manager) createPlugin(ctx context.Context, def pluginapi.PluginDefinition) (pluginapi.Store, error) {
	switch def.Type {
	case "memory":
		return NewMemoryPlugin(def.Config)
	case "redis":
		return NewRedisPlugin(def.Config)
	case "postgres":
		return NewPostgresPlugin(ctx, def.Config)
	case "cloudflare":
		return NewCloudflarePlugin(def.Config)
	case "exec":
		return NewExecPlugin(def.Config)
	case "shell":
		return NewShellPlugin(def.Config)
	default:
		return nil, fmt.Errorf("unsupported plugin type: %s", def.Type)
	}
}

// Close releases every loaded store that holds connections.
func (m *Manager) Close() error {
	var errs []error
	for name, store := range m.plugins {
		closer, ok := store.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close plugin %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
