package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/twiced-technology-gmbh/teminder/internal/task"
)

// Short timeouts keep a dead Redis from stalling the event loop.
const (
	redisDialTimeout = time.Second
	redisIOTimeout   = 500 * time.Millisecond
	scanBatch        = 100
)

// RedisOptions configures a Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// Redis stores tasks as JSON under task:<id> with a TTL.
type Redis struct {
	client *redis.Client
	addr   string
	counters
}

// DialRedis connects to Redis and verifies the connection with PING.
func DialRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  redisIOTimeout,
		WriteTimeout: redisIOTimeout,
		MaxRetries:   1,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	return &Redis{client: client, addr: opts.Addr}, nil
}

// Ping checks that the server is still reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Put(ctx context.Context, t *task.Task, ttl time.Duration) error {
	data, err := encode(t)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := r.client.Set(ctx, Key(t.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache put %s: %w", Key(t.ID), err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, id int) (*task.Task, bool, error) {
	data, err := r.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.record(false, nil)
		return nil, false, nil
	}
	if err != nil {
		r.record(false, err)
		return nil, false, fmt.Errorf("cache get %s: %w", Key(id), err)
	}
	t, err := decode(data)
	r.record(err == nil, err)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

func (r *Redis) Invalidate(ctx context.Context, id int) error {
	if err := r.client.Del(ctx, Key(id)).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", Key(id), err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) (int, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("cache scan: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	return int(n), nil
}

func (r *Redis) Stats() Stats { return r.stats("redis", r.addr) }

func (r *Redis) Close() error { return r.client.Close() }
