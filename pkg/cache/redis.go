package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jphoke/tlsinspect/pkg/config"
	"github.com/jphoke/tlsinspect/pkg/report"
)

const keyPrefix = "tlsinspect:report:"

// Redis shares the cache between processes. SETNX keeps the first writer.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(ctx context.Context, cfg config.RedisConfig, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisWithClient(client, ttl), nil
}

// NewRedisWithClient wraps an existing client. A zero ttl keeps entries forever.
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string) (*report.Report, error) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cached report %s: %w", key, err)
	}

	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("failed to decode cached report %s: %w", key, err)
	}
	return &rep, nil
}

func (r *Redis) PutIfAbsent(ctx context.Context, key string, rep *report.Report) (bool, error) {
	data, err := json.Marshal(rep)
	if err != nil {
		return false, fmt.Errorf("failed to encode report %s: %w", key, err)
	}

	stored, err := r.client.SetNX(ctx, keyPrefix+key, data, r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to cache report %s: %w", key, err)
	}
	return stored, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
