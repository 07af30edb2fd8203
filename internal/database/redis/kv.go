// Package redis implements the host-local key-value cache on a Redis instance,
// for deployments that run several replicas behind one cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/osse101/EcoQuest_Go/internal/store"
)

// Options configures the Redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
	// Namespace is prepended to every key so several services can share an instance
	Namespace string
}

// KV is a Redis backed store.Local
type KV struct {
	client    *redis.Client
	namespace string
}

var _ store.Local = (*KV)(nil)

// Connect dials Redis and verifies the connection
func Connect(ctx context.Context, opts Options) (*KV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToConnect, err)
	}
	slog.Default().Info(LogMsgConnected, "addr", opts.Addr)

	ns := opts.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	return &KV{client: client, namespace: ns}, nil
}

// Ping checks the connection
func (kv *KV) Ping(ctx context.Context) error {
	return kv.client.Ping(ctx).Err()
}

// Close closes the client
func (kv *KV) Close() error {
	return kv.client.Close()
}

func (kv *KV) key(k string) string {
	return kv.namespace + ":" + k
}

// GetItem returns the value stored under key
func (kv *KV) GetItem(ctx context.Context, key string) (string, error) {
	v, err := kv.client.Get(ctx, kv.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", store.ErrUnavailable, ErrMsgFailedToRead, err)
	}
	return v, nil
}

// SetItem stores value under key without expiry
func (kv *KV) SetItem(ctx context.Context, key, value string) error {
	if err := kv.client.Set(ctx, kv.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", store.ErrUnavailable, ErrMsgFailedToWrite, err)
	}
	return nil
}

// RemoveItem deletes key
func (kv *KV) RemoveItem(ctx context.Context, key string) error {
	if err := kv.client.Del(ctx, kv.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", store.ErrUnavailable, ErrMsgFailedToWrite, err)
	}
	return nil
}

// Keys lists keys beginning with prefix, using SCAN so large keyspaces do not block the server
func (kv *KV) Keys(ctx context.Context, prefix string) ([]string, error) {
	match := kv.key(escapeGlob(prefix)) + "*"
	var keys []string
	iter := kv.client.Scan(ctx, 0, match, ScanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), kv.namespace+":"))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", store.ErrUnavailable, ErrMsgFailedToRead, err)
	}
	sort.Strings(keys)
	return keys, nil
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}
