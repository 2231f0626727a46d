package ledger

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLedger keeps the keys in one Redis set. SADD reports how many
// members it added, which makes check-then-mark a single atomic command.
type RedisLedger struct {
	client *redis.Client
	setKey string
	logger *zap.Logger
}

// RedisOptions locates the Redis server
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisLedger connects to Redis. setKey names the set holding the keys.
func NewRedisLedger(ctx context.Context, opts RedisOptions, setKey string, logger *zap.Logger, retention Options) (*RedisLedger, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if retention.Retention > 0 {
		logger.Warn("Ledger retention is not supported by the redis backend, keys are kept forever",
			zap.Duration("retention", retention.Retention))
	}

	return NewRedisLedgerFromClient(client, setKey, logger), nil
}

// NewRedisLedgerFromClient wraps an existing client
func NewRedisLedgerFromClient(client *redis.Client, setKey string, logger *zap.Logger) *RedisLedger {
	return &RedisLedger{
		client: client,
		setKey: setKey,
		logger: logger,
	}
}

// IsMember reports whether the key was already seen
func (l *RedisLedger) IsMember(ctx context.Context, key string) (bool, error) {
	ok, err := l.client.SIsMember(ctx, l.setKey, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to query ledger: %w", err)
	}
	return ok, nil
}

// Add marks the key as seen
func (l *RedisLedger) Add(ctx context.Context, key string) error {
	if err := l.client.SAdd(ctx, l.setKey, key).Err(); err != nil {
		return fmt.Errorf("failed to add ledger key: %w", err)
	}
	return nil
}

// MarkIfAbsent adds the key and reports whether this call added it
func (l *RedisLedger) MarkIfAbsent(ctx context.Context, key string) (bool, error) {
	added, err := l.client.SAdd(ctx, l.setKey, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to add ledger key: %w", err)
	}
	return added == 1, nil
}

// Stop closes the Redis connection pool
func (l *RedisLedger) Stop() {
	if err := l.client.Close(); err != nil {
		l.logger.Error("Failed to close Redis client", zap.Error(err))
	}
}
