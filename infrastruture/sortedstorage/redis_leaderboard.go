package sortedstorage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/beka-birhanu/vinom-roads/domain"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const memberSeparator = "\x1f"

// Rank scores pack the game score and the play time into one float64.
// Play time is clamped to [0, playTimeSpan) so it never outweighs a point of
// score. Ordering is exact while Score is below maxExactScore; past it the
// product exceeds 2^53 and records with equal scores may tie on play time.
const (
	playTimeSpan  = 10_000_000 // seconds, about 115 days
	maxExactScore = (1 << 53) / playTimeSpan
)

// RedisLeaderboard keeps retired players in a Redis sorted set ranked by
// score, then play time, then name. Record bodies live in a companion hash.
type RedisLeaderboard struct {
	client     *redis.Client
	locker     *redsync.Redsync
	key        string
	maxEntries int64
}

// NewRedisLeaderboard creates a leaderboard stored under key. When maxEntries
// is positive only the best maxEntries records are kept.
func NewRedisLeaderboard(client *redis.Client, key string, maxEntries int64) *RedisLeaderboard {
	return &RedisLeaderboard{
		client:     client,
		locker:     redsync.New(goredis.NewPool(client)),
		key:        key,
		maxEntries: maxEntries,
	}
}

// rankScore orders higher scores first and shorter play times first among equal scores.
// Play time resolution shrinks as the score grows and reaches one second at maxExactScore.
func rankScore(rec domain.RetiredPlayer) float64 {
	play := min(max(rec.PlaySeconds, 0), playTimeSpan-1)
	return -float64(rec.Score)*playTimeSpan + play
}

// memberFor returns a unique sorted set member that sorts by name among equal rank scores.
func memberFor(rec domain.RetiredPlayer) string {
	return rec.Name + memberSeparator + uuid.NewString()
}

func nameOf(member string) string {
	name, _, _ := strings.Cut(member, memberSeparator)
	return name
}

func (l *RedisLeaderboard) dataKey() string {
	return l.key + ":data"
}

// SaveRetired adds records and trims the board while holding the board lock.
func (l *RedisLeaderboard) SaveRetired(ctx context.Context, records []domain.RetiredPlayer) error {
	if len(records) == 0 {
		return nil
	}

	mutex := l.locker.NewMutex(l.key + ":write_lock")
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("obtaining leaderboard lock: %w", err)
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	zs := make([]redis.Z, 0, len(records))
	fields := make([]interface{}, 0, 2*len(records))
	for _, rec := range records {
		body, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		member := memberFor(rec)
		zs = append(zs, redis.Z{Score: rankScore(rec), Member: member})
		fields = append(fields, member, string(body))
	}

	pipe := l.client.TxPipeline()
	pipe.ZAdd(ctx, l.key, zs...)
	pipe.HSet(ctx, l.dataKey(), fields...)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	return l.trim(ctx)
}

func (l *RedisLeaderboard) trim(ctx context.Context) error {
	if l.maxEntries <= 0 {
		return nil
	}

	dropped, err := l.client.ZRange(ctx, l.key, l.maxEntries, -1).Result()
	if err != nil || len(dropped) == 0 {
		return err
	}

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByRank(ctx, l.key, l.maxEntries, -1)
	pipe.HDel(ctx, l.dataKey(), dropped...)
	_, err = pipe.Exec(ctx)
	return err
}

// Retired returns a page of the board.
func (l *RedisLeaderboard) Retired(ctx context.Context, start, maxItems int) ([]domain.RetiredPlayer, error) {
	if maxItems <= 0 {
		return []domain.RetiredPlayer{}, nil
	}

	members, err := l.client.ZRange(ctx, l.key, int64(start), int64(start+maxItems-1)).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []domain.RetiredPlayer{}, nil
	}

	bodies, err := l.client.HMGet(ctx, l.dataKey(), members...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]domain.RetiredPlayer, 0, len(members))
	for k, raw := range bodies {
		s, ok := raw.(string)
		if !ok {
			continue
		}
		var rec domain.RetiredPlayer
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("decoding leaderboard entry %q: %w", nameOf(members[k]), err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Close closes the Redis client.
func (l *RedisLeaderboard) Close(context.Context) error {
	return l.client.Close()
}
