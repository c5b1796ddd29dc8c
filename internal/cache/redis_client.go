package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	_ CounterStore  = (*RedisClient)(nil)
	_ RateLimiter   = (*RedisClient)(nil)
	_ HealthChecker = (*RedisClient)(nil)
)

// Hash fields of a counter key.
const (
	FieldViews     = "views"
	FieldLikes     = "likes"
	FieldUpdatedAt = "updated_at"
)

// incrementScript bumps one field of the counter hash and returns the whole
// triple in the same atomic step. updated_at is taken from the server clock
// and never moves backwards.
//
// KEYS[1]: counter hash
// ARGV[1]: field to increment
var incrementScript = redis.NewScript(`
local now = redis.call('TIME')
local ms = tonumber(now[1]) * 1000 + math.floor(tonumber(now[2]) / 1000)
redis.call('HINCRBY', KEYS[1], ARGV[1], 1)
local prev = tonumber(redis.call('HGET', KEYS[1], 'updated_at') or '0')
if ms > prev then
	redis.call('HSET', KEYS[1], 'updated_at', ms)
end
return redis.call('HMGET', KEYS[1], 'views', 'likes', 'updated_at')
`)

// RedisClient is the Redis counter store and rate-limit window counter.
type RedisClient struct {
	client     redis.UniversalClient
	keyBuilder *KeyBuilder
}

type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	ReadTimeout  time.Duration // 3s when zero
	Namespace    string        // optional key namespace
}

// NewRedisClient connects and pings the server.
//
// Retries are disabled: a command whose reply is lost may already have run,
// and resending the increment script would count the same request twice.
func NewRedisClient(cfg RedisConfig) (*RedisClient, error) {
	readTimeout := cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 3 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   -1,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  readTimeout,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, NewCacheError("connect", "", fmt.Errorf("failed to connect to Redis: %w", err))
	}

	return NewRedisClientFrom(client, cfg.Namespace), nil
}

// NewRedisClientFrom wraps an existing go-redis client. The client should be
// built with MaxRetries: -1 for the same reason as in NewRedisClient.
func NewRedisClientFrom(client redis.UniversalClient, namespace string) *RedisClient {
	return &RedisClient{
		client:     client,
		keyBuilder: NewKeyBuilder(namespace),
	}
}

// IncrementCounter adds 1 to one field and returns the resulting hash.
func (r *RedisClient) IncrementCounter(ctx context.Context, slug, field string) (CounterHash, error) {
	if slug == "" {
		return CounterHash{}, NewCacheError("hincr", slug, ErrInvalidCacheKey)
	}
	if field != FieldViews && field != FieldLikes {
		return CounterHash{}, NewCacheError("hincr", slug, fmt.Errorf("unknown counter field %q", field))
	}

	key := r.keyBuilder.Counter(slug)
	values, err := incrementScript.Run(ctx, r.client, []string{key}, field).Slice()
	if err != nil {
		return CounterHash{}, NewCacheError("hincr", key, err)
	}

	hash, err := parseCounterHash(values)
	if err != nil {
		return CounterHash{}, NewCacheError("hincr", key, err)
	}
	return hash, nil
}

// GetCounter reads a counter without creating the key.
func (r *RedisClient) GetCounter(ctx context.Context, slug string) (CounterHash, error) {
	if slug == "" {
		return CounterHash{}, NewCacheError("hmget", slug, ErrInvalidCacheKey)
	}

	key := r.keyBuilder.Counter(slug)
	values, err := r.client.HMGet(ctx, key, FieldViews, FieldLikes, FieldUpdatedAt).Result()
	if err != nil {
		return CounterHash{}, NewCacheError("hmget", key, err)
	}

	hash, err := parseCounterHash(values)
	if err != nil {
		return CounterHash{}, NewCacheError("hmget", key, err)
	}
	return hash, nil
}

// IncrementRateLimit counts one request in the client's current window.
func (r *RedisClient) IncrementRateLimit(ctx context.Context, clientIP string, window time.Duration) (int64, error) {
	key := r.keyBuilder.RateLimit(clientIP)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, NewCacheError("increment", key, err)
	}

	return incr.Val(), nil
}

func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return NewCacheError("ping", "", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	if err := r.client.Close(); err != nil {
		return NewCacheError("close", "", err)
	}
	return nil
}

func (r *RedisClient) GetKeyBuilder() *KeyBuilder {
	return r.keyBuilder
}

func parseCounterHash(values []interface{}) (CounterHash, error) {
	if len(values) != 3 {
		return CounterHash{}, fmt.Errorf("%w: %d values", ErrUnexpectedReply, len(values))
	}

	fields := make([]int64, len(values))
	for i, v := range values {
		n, err := toInt64(v)
		if err != nil {
			return CounterHash{}, err
		}
		fields[i] = n
	}

	return CounterHash{
		Views:       fields[0],
		Likes:       fields[1],
		UpdatedAtMs: fields[2],
	}, nil
}

func toInt64(v interface{}) (int64, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return val, nil
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrUnexpectedReply, val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnexpectedReply, v)
	}
}
