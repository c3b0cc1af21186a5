package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// redisPutScript performs the conditional put atomically.
// KEYS[1] = data hash, KEYS[2] = version hash
// ARGV[1] = record id, ARGV[2] = expected version, ARGV[3] = payload
// Returns the new version, or -1 on a version mismatch.
var redisPutScript = redis.NewScript(`
local current = tonumber(redis.call("HGET", KEYS[2], ARGV[1]) or "0")
if current ~= tonumber(ARGV[2]) then
    return -1
end

local nextVersion = current + 1
redis.call("HSET", KEYS[1], ARGV[1], ARGV[3])
redis.call("HSET", KEYS[2], ARGV[1], nextVersion)
return nextVersion
`)

// RedisStore keeps each namespace in a pair of hashes: one for payloads and
// one for versions.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store backed by Redis.
func NewRedisStore(addr, password string, db int, prefix string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreWithClient(client, prefix)
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) keys(ns Namespace) (dataKey, versionKey string) {
	base := fmt.Sprintf("%s:%s", s.prefix, ns)
	return base + ":data", base + ":version"
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, ns Namespace, id string) (*Record, error) {
	dataKey, versionKey := s.keys(ns)

	pipe := s.client.Pipeline()
	dataCmd := pipe.HGet(ctx, dataKey, id)
	versionCmd := pipe.HGet(ctx, versionKey, id)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get %s/%s: %w", ns, id, err)
	}

	data, err := dataCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", ns, id, err)
	}
	version, err := versionCmd.Int64()
	if err != nil {
		return nil, fmt.Errorf("failed to read version of %s/%s: %w", ns, id, err)
	}

	return &Record{ID: id, Data: data, Version: version}, nil
}

// List implements Store.
func (s *RedisStore) List(ctx context.Context, ns Namespace) ([]Record, error) {
	dataKey, versionKey := s.keys(ns)

	pipe := s.client.Pipeline()
	dataCmd := pipe.HGetAll(ctx, dataKey)
	versionCmd := pipe.HGetAll(ctx, versionKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", ns, err)
	}

	versions := versionCmd.Val()
	records := make([]Record, 0, len(dataCmd.Val()))
	for id, data := range dataCmd.Val() {
		version, err := strconv.ParseInt(versions[id], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid version for %s/%s: %w", ns, id, err)
		}
		records = append(records, Record{ID: id, Data: []byte(data), Version: version})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, ns Namespace, rec Record) (int64, error) {
	dataKey, versionKey := s.keys(ns)

	next, err := redisPutScript.Run(ctx, s.client, []string{dataKey, versionKey}, rec.ID, rec.Version, rec.Data).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to put %s/%s: %w", ns, rec.ID, err)
	}
	if next < 0 {
		return 0, ErrVersionConflict
	}
	return next, nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, ns Namespace, id string) error {
	dataKey, versionKey := s.keys(ns)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, dataKey, id)
		pipe.HDel(ctx, versionKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", ns, id, err)
	}
	return nil
}

// Ping implements Store.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
