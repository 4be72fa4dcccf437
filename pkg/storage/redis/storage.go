package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadedpez/affectlab/pkg/storage"
	goredis "github.com/redis/go-redis/v9"
)

// maxUpdateAttempts bounds optimistic retries when a watched key changes underneath Update
const maxUpdateAttempts = 50

// ErrConflict is returned when Update keeps losing the optimistic race
var ErrConflict = errors.New("redis update conflict")

// Storage implements storage.Store on Redis string keys {prefix}:{userID}:{key}
type Storage struct {
	client *goredis.Client
	prefix string
}

// New connects to Redis and verifies the connection
func New(ctx context.Context, options *storage.Options) (*Storage, error) {
	if options == nil || options.Addr == "" {
		return nil, fmt.Errorf("redis storage requires an address")
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     options.Addr,
		Password: options.Password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error connecting to redis at %s: %w", options.Addr, err)
	}

	prefix := options.KeyPrefix
	if prefix == "" {
		prefix = "affectlab"
	}
	return &Storage{client: client, prefix: prefix}, nil
}

func (s *Storage) key(userID, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, userID, key)
}

// Get loads a value
func (s *Storage) Get(ctx context.Context, userID, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.key(userID, key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("error reading %s/%s: %w", userID, key, err)
	}
	return value, nil
}

// Set saves or replaces a value
func (s *Storage) Set(ctx context.Context, userID, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(userID, key), value, 0).Err(); err != nil {
		return fmt.Errorf("error writing %s/%s: %w", userID, key, err)
	}
	return nil
}

// Delete removes a value
func (s *Storage) Delete(ctx context.Context, userID, key string) error {
	if err := s.client.Del(ctx, s.key(userID, key)).Err(); err != nil {
		return fmt.Errorf("error deleting %s/%s: %w", userID, key, err)
	}
	return nil
}

// Update runs fn under WATCH and retries when another writer got there first
func (s *Storage) Update(ctx context.Context, userID, key string, fn storage.UpdateFunc) error {
	k := s.key(userID, key)

	txf := func(tx *goredis.Tx) error {
		current, err := tx.Get(ctx, k).Bytes()
		if err != nil {
			if !errors.Is(err, goredis.Nil) {
				return err
			}
			current = nil
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, k, next, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, k)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("%w on %s/%s", ErrConflict, userID, key)
}

// Close closes the client
func (s *Storage) Close() error {
	return s.client.Close()
}
