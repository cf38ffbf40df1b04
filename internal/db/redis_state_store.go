package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStateStore keeps label payloads as plain string values so several
// server instances can share workspaces.
type RedisStateStore struct {
	client *redis.Client
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

// OpenRedis connects and pings so a bad address fails at startup rather than
// on the first request.
func OpenRedis(ctx context.Context, options RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     options.Addr,
		Password: options.Password,
		DB:       options.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", options.Addr, err)
	}
	return client, nil
}

func (store *RedisStateStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := store.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (store *RedisStateStore) Save(ctx context.Context, key string, payload []byte) error {
	return store.client.Set(ctx, key, payload, 0).Err()
}

func (store *RedisStateStore) Delete(ctx context.Context, key string) error {
	return store.client.Del(ctx, key).Err()
}

func (store *RedisStateStore) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	var removed int64
	keys := []string{prefix}

	iter := store.client.Scan(ctx, 0, prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}

	for start := 0; start < len(keys); start += 100 {
		end := min(start+100, len(keys))
		count, err := store.client.Del(ctx, keys[start:end]...).Result()
		if err != nil {
			return removed, err
		}
		removed += count
	}
	return removed, nil
}
