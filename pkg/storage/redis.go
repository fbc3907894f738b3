package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the redis backend.
type RedisOptions struct {
	// URL is the connection string, e.g. "redis://localhost:6379/0".
	URL string
	// Prefix is prepended to every key the backend writes.
	Prefix         string
	ConnectTimeout time.Duration
}

// Redis stores each namespace as a hash and tracks known namespaces in a set.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects and pings the server.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.Prefix == "" {
		opts.Prefix = "optionspage:"
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("storage: parse redis url: %w", err)
	}
	redisOpts.DialTimeout = opts.ConnectTimeout

	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("storage: connect redis: %w", err)
	}

	return &Redis{client: client, prefix: opts.Prefix}, nil
}

func (r *Redis) namespaceKey(namespace string) string {
	return r.prefix + "options:" + namespace
}

func (r *Redis) indexKey() string {
	return r.prefix + "namespaces"
}

func (r *Redis) Load(ctx context.Context, namespace string) (map[string]string, error) {
	values, err := r.client.HGetAll(ctx, r.namespaceKey(namespace)).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: load %q: %w", namespace, err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}

// Save swaps the namespace hash in a MULTI/EXEC block.
func (r *Redis) Save(ctx context.Context, namespace string, values map[string]string) error {
	key := r.namespaceKey(namespace)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			fields := make(map[string]any, len(values))
			for field, value := range values {
				fields[field] = value
			}
			pipe.HSet(ctx, key, fields)
		}
		pipe.SAdd(ctx, r.indexKey(), namespace)
		return nil
	})
	if err != nil {
		return fmt.Errorf("storage: save %q: %w", namespace, err)
	}
	return nil
}

func (r *Redis) Namespaces(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: list namespaces: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
