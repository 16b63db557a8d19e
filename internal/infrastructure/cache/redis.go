package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/greenmobile/heatglass/internal/config"
	"github.com/greenmobile/heatglass/internal/domain/panel"
	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/logging"
)

// SharedStore is the optional second cache tier behind the in-process LRU,
// letting replicas reuse each other's solves. Implementations must treat
// every failure as a miss; the solver is always available as a fallback.
type SharedStore interface {
	Get(ctx context.Context, key SolveKey) (*panel.SolveResult, bool)
	Put(ctx context.Context, key SolveKey, result *panel.SolveResult)
}

// RedisStore is the Redis-backed SharedStore. Results are stored as JSON
// under prefix+key with a TTL; connectivity problems are logged at Warn and
// degrade to cache misses.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    logging.Logger
}

// NewRedisStore dials Redis with the configured timeouts and verifies the
// connection with a ping.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig, log logging.Logger) (*RedisStore, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisStore{
		client: client,
		prefix: cfg.KeyPrefix,
		ttl:    cfg.TTL,
		log:    log.Named("solve_store"),
	}, nil
}

func (s *RedisStore) redisKey(key SolveKey) string {
	return s.prefix + key.String()
}

// Get fetches and decodes a shared result; any failure is a miss.
func (s *RedisStore) Get(ctx context.Context, key SolveKey) (*panel.SolveResult, bool) {
	data, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("shared solve store get failed", logging.Err(err))
		}
		return nil, false
	}
	var result panel.SolveResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.log.Warn("shared solve store entry corrupt", logging.Err(err))
		return nil, false
	}
	return &result, true
}

// Put stores the result best-effort; failures are logged, never propagated.
func (s *RedisStore) Put(ctx context.Context, key SolveKey, result *panel.SolveResult) {
	data, err := json.Marshal(result)
	if err != nil {
		s.log.Warn("shared solve store encode failed", logging.Err(err))
		return
	}
	if err := s.client.Set(ctx, s.redisKey(key), data, s.ttl).Err(); err != nil {
		s.log.Warn("shared solve store put failed", logging.Err(err))
	}
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
