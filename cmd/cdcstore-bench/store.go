package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dedupfs/cdcstore/internal/cdcerr"
	"github.com/dedupfs/cdcstore/internal/cdcsystem"
	"github.com/dedupfs/cdcstore/internal/chunker"
	"github.com/dedupfs/cdcstore/internal/chunkstore"
	chunkmem "github.com/dedupfs/cdcstore/internal/chunkstore/memory"
	"github.com/dedupfs/cdcstore/internal/chunkstore/rediskv"
	"github.com/dedupfs/cdcstore/internal/config"
	"github.com/dedupfs/cdcstore/internal/hashbuilder"
	"github.com/dedupfs/cdcstore/internal/metastore/sqlite"
)

const defaultSQLitePath = "cdcstore-bench.db"

// openedSystem bundles the constructed System together with the
// resources a caller must close when done with it.
type openedSystem struct {
	sys  *cdcsystem.System[sqlite.Key]
	meta *sqlite.Store
}

func (o *openedSystem) Close() error { return o.meta.Close() }

// buildSystem wires a System[sqlite.Key] from loaded config plus the
// --backend selection for the chunk store. The meta store is always the
// embedded SQLite adapter (file path from config.Backend.SQLitePath, or
// defaultSQLitePath) so that metadata survives across separate
// invocations of this CLI. identifier is the caller's human-readable key
// (a file path, typically); it is fingerprinted into the meta store's
// integer key space with the same hash-builder used for chunk
// fingerprints and returned alongside the opened System.
//
// The in-memory chunk store never outlives one process, while the
// SQLite meta store does. If a manifest already exists for identifier
// and the caller asked for the memory backend, every chunk it
// references is guaranteed gone: this is a usage error, not a
// recoverable one, so it is rejected here rather than surfacing later
// as a confusing "manifest references missing chunk" backend error.
func buildSystem(ctx context.Context, cfg *config.Config, backend, identifier string) (*openedSystem, sqlite.Key, error) {
	hasher, err := hashbuilder.New(hashbuilder.Family(cfg.HashBuilder.Family), cfg.HashBuilder.Seed)
	if err != nil {
		return nil, 0, fmt.Errorf("build hasher: %w", err)
	}
	key := keyFor(hasher, identifier)

	var chunks chunkstore.Store
	switch backend {
	case "", "memory":
		chunks = chunkmem.New()
	case "redis":
		if cfg.Backend.RedisURL == "" {
			return nil, 0, fmt.Errorf("backend redis requires backend.redis_url in config")
		}
		store, err := rediskv.Open(cfg.Backend.RedisURL)
		if err != nil {
			return nil, 0, fmt.Errorf("open redis: %w", err)
		}
		chunks = store
	default:
		return nil, 0, fmt.Errorf("unknown backend %q (want memory or redis)", backend)
	}

	path := cfg.Backend.SQLitePath
	if path == "" {
		path = defaultSQLitePath
	}
	meta, err := sqlite.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open meta store: %w", err)
	}
	if err := meta.EnsureSchema(ctx); err != nil {
		return nil, 0, fmt.Errorf("ensure meta schema: %w", err)
	}

	if backend == "" || backend == "memory" {
		if _, err := meta.Get(ctx, key); err == nil {
			meta.Close()
			return nil, 0, fmt.Errorf(
				"a manifest for %q already exists in %s, but --backend memory does not persist chunk bytes across invocations; rerun with --backend redis",
				identifier, path)
		} else if !cdcerr.IsNotFound(err) {
			meta.Close()
			return nil, 0, fmt.Errorf("check existing manifest: %w", err)
		}
	}

	sys := cdcsystem.New(cdcsystem.Config[sqlite.Key]{
		Chunker: chunker.New(cfg.ChunkerDomainConfig()),
		Hasher:  hasher,
		Chunks:  chunks,
		Meta:    meta,
		Logger:  log.Logger,
	})
	return &openedSystem{sys: sys, meta: meta}, key, nil
}

// keyFor maps a human-readable identifier (a file path, typically) onto
// the embedded meta store's integer key space by fingerprinting it with
// the same hash-builder used for chunk fingerprints.
func keyFor(hasher hashbuilder.Builder, identifier string) sqlite.Key {
	h := hasher.New()
	_, _ = h.Write([]byte(identifier))
	return sqlite.Key(int64(h.Sum64())) //nolint:gosec // bit-preserving, not a numeric narrowing
}
