// Package rediskv implements chunkstore.Store over Redis, using the
// teacher's own client library (github.com/redis/go-redis/v9). Keys are
// the 8-byte big-endian encoding of the fingerprint; values are chunk
// bytes verbatim, per the spec's key-value persisted-state layout.
package rediskv

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/dedupfs/cdcstore/internal/cdcerr"
	"github.com/dedupfs/cdcstore/internal/chunkstore"
)

// Store is a Redis-backed chunkstore.Store.
type Store struct {
	client *redis.Client
}

// New wraps an existing Redis client.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Open creates a Redis client from a connection URL ("redis://host:port")
// and wraps it.
func Open(url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, cdcerr.Backendf(err, "parse redis url")
	}
	return New(redis.NewClient(opts)), nil
}

func encodeKey(fp chunkstore.Fingerprint) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(fp))
	return key
}

func (s *Store) Get(ctx context.Context, fp chunkstore.Fingerprint) ([]byte, error) {
	data, err := s.client.Get(ctx, string(encodeKey(fp))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cdcerr.NotFoundf("chunk %d not found", fp)
		}
		return nil, cdcerr.Backendf(err, "redis get chunk %d", fp)
	}
	return data, nil
}

func (s *Store) Upsert(ctx context.Context, fp chunkstore.Fingerprint, data []byte) error {
	// SETNX leaves an existing blob untouched, so a duplicate fingerprint
	// is a no-op success like in every other chunk store.
	if err := s.client.SetNX(ctx, string(encodeKey(fp)), data, 0).Err(); err != nil {
		return cdcerr.Backendf(err, "redis set chunk %d", fp)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, fp chunkstore.Fingerprint) error {
	n, err := s.client.Del(ctx, string(encodeKey(fp))).Result()
	if err != nil {
		return cdcerr.Backendf(err, "redis del chunk %d", fp)
	}
	if n == 0 {
		return cdcerr.NotFoundf("chunk %d not found", fp)
	}
	return nil
}

var _ chunkstore.Store = (*Store)(nil)
