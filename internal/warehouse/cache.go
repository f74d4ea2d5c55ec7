// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

package warehouse

import (
	"context"
	"sync"

	"github.com/allaway/synapse-wrapped/internal/config"
	"github.com/allaway/synapse-wrapped/internal/logging"
)

// Opener establishes a new warehouse connection for a configuration.
type Opener func(cfg *config.Config) (Conn, error)

// Cache reuses warehouse connections across report generations. Entries
// are keyed by the config's connection fingerprint; a cache hit is
// probed for liveness and evicted and reopened if the probe fails.
type Cache struct {
	mu    sync.Mutex
	conns map[string]Conn
	open  Opener
}

// NewCache returns a connection cache using the default Snowflake opener.
func NewCache() *Cache {
	return NewCacheWithOpener(func(cfg *config.Config) (Conn, error) {
		return Open(cfg)
	})
}

// NewCacheWithOpener returns a cache using a custom opener. Tests use
// this to substitute fake connections.
func NewCacheWithOpener(open Opener) *Cache {
	return &Cache{
		conns: make(map[string]Conn),
		open:  open,
	}
}

// Get returns a live connection for cfg, reusing a cached one when its
// liveness probe passes.
func (c *Cache) Get(ctx context.Context, cfg *config.Config) (Conn, error) {
	key := cfg.Fingerprint()

	c.mu.Lock()
	defer c.mu.Unlock()

	if conn, ok := c.conns[key]; ok {
		if err := conn.Ping(ctx); err == nil {
			return conn, nil
		}
		logging.Warn().Str("account", cfg.Warehouse.Account).Msg("cached connection failed liveness probe, reopening")
		if err := conn.Close(); err != nil {
			logging.Debug().Err(err).Msg("failed to close stale connection")
		}
		delete(c.conns, key)
	}

	conn, err := c.open(cfg)
	if err != nil {
		return nil, err
	}
	c.conns[key] = conn
	return conn, nil
}

// CloseAll closes every cached connection. The cache remains usable.
func (c *Cache) CloseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, conn := range c.conns {
		if err := conn.Close(); err != nil {
			logging.Debug().Err(err).Msg("failed to close connection")
		}
		delete(c.conns, key)
	}
}

// Size returns the number of cached connections.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.conns)
}
