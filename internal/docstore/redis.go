package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

const scanCount = 100

type RedisOptions struct {
	Address  string
	Password string
	DB       int
}

// Redis stores each document as a JSON string under "collection:key".
type Redis struct {
	client *redis.Client
}

// NewRedis connects to Redis and verifies the connection with PING.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Address,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{client: client}, nil
}

func documentKey(collection, key string) string {
	return collection + ":" + key
}

func (r *Redis) Get(ctx context.Context, collection, key string) (Document, error) {
	data, err := r.client.Get(ctx, documentKey(collection, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s/%s: %w", collection, key, err)
	}

	return unmarshal(data)
}

func (r *Redis) Put(ctx context.Context, collection, key string, doc Document) error {
	data, err := marshal(doc)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, documentKey(collection, key), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s/%s: %w", collection, key, err)
	}

	return nil
}

// Query scans the collection's key space. It is linear in the collection size.
func (r *Redis) Query(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := r.client.Scan(ctx, cursor, documentKey(collection, "*"), scanCount).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan %s: %w", collection, err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	sort.Strings(keys)

	result := make([]Document, 0, len(keys))
	for _, key := range keys {
		data, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			// deleted between SCAN and GET
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redis get %s: %w", key, err)
		}

		doc, err := unmarshal(data)
		if err != nil {
			return nil, err
		}
		if Matches(doc, filter) {
			result = append(result, doc)
		}
	}

	return result, nil
}

func (r *Redis) Delete(ctx context.Context, collection, key string) error {
	if err := r.client.Del(ctx, documentKey(collection, key)).Err(); err != nil {
		return fmt.Errorf("redis del %s/%s: %w", collection, key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
