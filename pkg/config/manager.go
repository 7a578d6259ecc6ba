package config

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Manager holds the active configuration and the sources it was loaded from.
type Manager struct {
	Service Service
	current atomic.Value // stores *Config
	sources []Source
	mu      sync.Mutex
}

// NewManager creates a new configuration manager.
func NewManager(service Service) *Manager {
	if service == nil {
		service = NewService()
	}
	return &Manager{Service: service}
}

// Load loads configuration from sources and makes it current.
func (m *Manager) Load(ctx context.Context, sources ...Source) (*Config, error) {
	m.mu.Lock()
	m.sources = append([]Source(nil), sources...)
	m.mu.Unlock()

	config, err := m.Service.Load(ctx, sources...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	m.current.Store(config)
	return config, nil
}

// Reload re-reads the sources passed to the last Load.
func (m *Manager) Reload(ctx context.Context) (*Config, error) {
	m.mu.Lock()
	sources := append([]Source(nil), m.sources...)
	m.mu.Unlock()
	return m.Load(ctx, sources...)
}

// Get returns the current configuration, or nil before the first Load.
func (m *Manager) Get() *Config {
	cfg, ok := m.current.Load().(*Config)
	if !ok {
		return nil
	}
	return cfg
}

// Close releases all sources.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for _, source := range m.sources {
		if source == nil {
			continue
		}
		if err := source.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.sources = nil
	return firstErr
}
