package cache

import (
	"context"
	"encoding/json"
	"time"
	"user_mgmt/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "user:profile:"

// Client caches public user projections in Redis. It is strictly
// best-effort: every method is safe on a nil receiver and swallows Redis
// errors, so a cache outage degrades to store reads, never to request
// failures.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr, password string, db int, ttl time.Duration) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Client{rdb: rdb, ttl: ttl}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() {
	if c != nil && c.rdb != nil {
		c.rdb.Close()
	}
}

func (c *Client) GetUser(ctx context.Context, id string) (*model.PublicUser, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		return nil, false
	}
	var user model.PublicUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, false
	}
	return &user, true
}

func (c *Client) SetUser(ctx context.Context, user *model.PublicUser) {
	if c == nil {
		return
	}
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, keyPrefix+user.ID, data, c.ttl)
}

func (c *Client) Invalidate(ctx context.Context, id string) {
	if c == nil {
		return
	}
	c.rdb.Del(ctx, keyPrefix+id)
}
