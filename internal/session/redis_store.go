package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const maxUpdateRetries = 10

type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store. Every write refreshes the idle ttl.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

func (r *RedisStore) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisStore) Load(ctx context.Context, sessionID string) (*State, error) {
	return decode(r.client.Get(ctx, r.key(sessionID)))
}

func (r *RedisStore) Update(ctx context.Context, sessionID string, fn func(*State) error) (*State, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session: missing session_id")
	}
	key := r.key(sessionID)

	var committed *State
	txf := func(tx *redis.Tx) error {
		state, err := decode(tx.Get(ctx, key))
		if err != nil {
			return err
		}
		if err := fn(state); err != nil {
			return err
		}

		data, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("session: failed to marshal: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		if err == nil {
			committed = state
		}
		return err
	}

	for range maxUpdateRetries {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return committed, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrConflict
}

func (r *RedisStore) Destroy(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("session: delete failed: %w", err)
	}
	return nil
}

// decode treats a missing key as a fresh, empty session.
func decode(cmd *redis.StringCmd) (*State, error) {
	data, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return &State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get failed: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}
	return &s, nil
}
