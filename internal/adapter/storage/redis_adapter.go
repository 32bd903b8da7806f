package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const highestBidKeyPrefix = "auction:highest_bid:"

// Runs single-threaded on the Redis server, so the read-compare-write is
// indivisible across all processes sharing the key.
var compareAndRaiseScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local candidate = tonumber(ARGV[1])

if candidate > current then
	redis.call('SET', KEYS[1], candidate)
	return 1
end

return 0
`)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func highestBidKey(auctionID int64) string {
	return fmt.Sprintf("%s%d", highestBidKeyPrefix, auctionID)
}

func (r *RedisAdapter) CompareAndRaise(ctx context.Context, auctionID int64, price int64) (bool, error) {
	result, err := compareAndRaiseScript.Run(ctx, r.client, []string{highestBidKey(auctionID)}, price).Int()
	if err != nil {
		return false, err
	}

	return result == 1, nil
}

func (r *RedisAdapter) GetHighest(ctx context.Context, auctionID int64) (int64, error) {
	val, err := r.client.Get(ctx, highestBidKey(auctionID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return val, nil
}

func (r *RedisAdapter) SetHighest(ctx context.Context, auctionID int64, price int64) error {
	return r.client.Set(ctx, highestBidKey(auctionID), price, 0).Err()
}
