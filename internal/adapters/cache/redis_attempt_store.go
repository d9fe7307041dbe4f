package cache

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/wblproducoes/mvc08/internal/ports"
)

// RedisAttemptStore keeps attempt timestamps in a sorted set per throttle
// key, scored by unix time. Purge, append and read run inside one MULTI/EXEC
// pipeline so concurrent logins against the same key cannot undercount.
type RedisAttemptStore struct {
	client *redis.Client
}

func NewRedisAttemptStore(client *redis.Client) *RedisAttemptStore {
	return &RedisAttemptStore{client: client}
}

func score(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromScore(s float64) time.Time {
	sec, frac := math.Modf(s)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
}

func (s *RedisAttemptStore) Record(ctx context.Context, key string, now time.Time, window time.Duration) (ports.AttemptSnapshot, error) {
	cutoff := fmt.Sprintf("%f", score(now.Add(-window)))

	var countCmd *redis.IntCmd
	var oldestCmd *redis.ZSliceCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZRemRangeByScore(ctx, key, "-inf", cutoff)
		p.ZAdd(ctx, key, redis.Z{Score: score(now), Member: uuid.NewString()})
		// The set empties itself via purge; the TTL only covers keys no one
		// reads again.
		p.Expire(ctx, key, window)
		countCmd = p.ZCard(ctx, key)
		oldestCmd = p.ZRangeWithScores(ctx, key, 0, 0)
		return nil
	})
	if err != nil {
		return ports.AttemptSnapshot{}, err
	}
	return snapshotFrom(countCmd, oldestCmd)
}

func (s *RedisAttemptStore) Snapshot(ctx context.Context, key string, now time.Time, window time.Duration) (ports.AttemptSnapshot, error) {
	cutoff := fmt.Sprintf("%f", score(now.Add(-window)))

	var countCmd *redis.IntCmd
	var oldestCmd *redis.ZSliceCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZRemRangeByScore(ctx, key, "-inf", cutoff)
		countCmd = p.ZCard(ctx, key)
		oldestCmd = p.ZRangeWithScores(ctx, key, 0, 0)
		return nil
	})
	if err != nil {
		return ports.AttemptSnapshot{}, err
	}
	return snapshotFrom(countCmd, oldestCmd)
}

func (s *RedisAttemptStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func snapshotFrom(countCmd *redis.IntCmd, oldestCmd *redis.ZSliceCmd) (ports.AttemptSnapshot, error) {
	count, err := countCmd.Result()
	if err != nil {
		return ports.AttemptSnapshot{}, err
	}
	snap := ports.AttemptSnapshot{Count: int(count)}
	oldest, err := oldestCmd.Result()
	if err != nil {
		return ports.AttemptSnapshot{}, err
	}
	if len(oldest) > 0 {
		snap.OldestAt = fromScore(oldest[0].Score)
	}
	return snap, nil
}
