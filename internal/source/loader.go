// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/pgdrift/pgdrift/internal/log"
	"github.com/pgdrift/pgdrift/internal/schema"
)

// Cache memoizes parsed snapshots by source identifier for the lifetime of
// one report run. It is created per invocation and passed into the Loader
// explicitly; there is no package-global cache and no eviction.
type Cache struct {
	snapshots map[string]*schema.Snapshot
}

// NewCache returns an empty run-scoped cache.
func NewCache() *Cache {
	return &Cache{snapshots: make(map[string]*schema.Snapshot)}
}

// Get returns the cached snapshot for a source identifier, if present.
func (c *Cache) Get(sourceID string) (*schema.Snapshot, bool) {
	snap, ok := c.snapshots[sourceID]
	return snap, ok
}

// Put records a loaded snapshot under its source identifier.
func (c *Cache) Put(sourceID string, snap *schema.Snapshot) {
	c.snapshots[sourceID] = snap
}

// Len returns the number of cached snapshots.
func (c *Cache) Len() int {
	return len(c.snapshots)
}

// Loader materializes snapshots from source specs, at most once per distinct
// spec. Repeated Loads of the same spec return the identical cached
// *schema.Snapshot without re-reading the source.
type Loader struct {
	cache *Cache
	cmd   *cli.Command
}

// NewLoader returns a Loader bound to a run-scoped cache. cmd supplies the
// flags sources consult (--passphrase and friends) and may be nil in tests
// that only load plaintext file sources through a pre-seeded cache.
func NewLoader(cache *Cache, cmd *cli.Command) *Loader {
	return &Loader{cache: cache, cmd: cmd}
}

// Load acquires, unseals, and parses the snapshot for a source spec.
// Acquisition and shape failures surface as *schema.LoadError; a descriptor
// missing a required field surfaces as *schema.MalformedMetadataError, which
// aborts the whole run.
func (l *Loader) Load(ctx context.Context, sourceID string) (*schema.Snapshot, error) {
	if snap, ok := l.cache.Get(sourceID); ok {
		log.Debugf("snapshot cache hit: source=%s", sourceID)
		return snap, nil
	}

	log.Debugf("snapshot cache miss: source=%s", sourceID)

	src, err := Resolve(ctx, l.cmd, sourceID)
	if err != nil {
		return nil, schema.NewLoadError(sourceID, err)
	}

	doc, err := src.Snapshot(ctx)
	if err != nil {
		return nil, schema.NewLoadError(sourceID, err)
	}

	doc, err = Unseal(l.cmd, doc)
	if err != nil {
		return nil, schema.NewLoadError(sourceID, err)
	}

	snap, err := schema.Parse(doc)
	if err != nil {
		var malformed *schema.MalformedMetadataError
		if errors.As(err, &malformed) {
			return nil, malformed
		}
		return nil, schema.NewLoadError(sourceID, err)
	}

	l.cache.Put(sourceID, snap)
	return snap, nil
}
