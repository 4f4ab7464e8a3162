package sequence

import (
	"context"
	"fmt"

	"sporcu-lisans-takip/pkg/rediskey"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// RedisAllocator keeps one counter per year so concurrent instances never
// compute the same "next" sequence. A fresh counter is seeded from the store
// max; the rare seeding race between two instances resolves through the
// unique index on license_number and the caller's retry.
type RedisAllocator struct {
	rdb *redis.Client
	db  *gorm.DB
}

func NewRedisAllocator(rdb *redis.Client, db *gorm.DB) *RedisAllocator {
	return &RedisAllocator{rdb: rdb, db: db}
}

func (a *RedisAllocator) NextLicenseNumber(ctx context.Context, year int) (string, error) {
	key := rediskey.BuildLicenseSeqKey(year)

	seq, err := a.rdb.Incr(ctx, key).Result()
	if err != nil {
		return "", err
	}

	if seq == 1 {
		max, err := maxStoredSequence(ctx, a.db, year)
		if err != nil {
			return "", err
		}
		if max > 0 {
			seq, err = a.rdb.IncrBy(ctx, key, int64(max)).Result()
			if err != nil {
				return "", err
			}
		}
	}

	if seq > maxSequence {
		return "", fmt.Errorf("%w: year %d", ErrExhausted, year)
	}

	return Format(year, int(seq)), nil
}
