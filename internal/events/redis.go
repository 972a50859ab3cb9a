package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "lawncare:events:"

// RedisPublisher publishes events over Redis pub/sub, one channel per event type
type RedisPublisher struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisPublisher connects using a redis:// URL
func NewRedisPublisher(url string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisPublisherFromClient(redis.NewClient(opt)), nil
}

func NewRedisPublisherFromClient(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, prefix: defaultRedisPrefix}
}

func (p *RedisPublisher) Publish(ctx context.Context, evt Event) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.Channel(evt.Type), data).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", evt.Type, err)
	}
	return nil
}

// Channel is the pub/sub channel an event type is published on
func (p *RedisPublisher) Channel(eventType string) string {
	return p.prefix + eventType
}

func (p *RedisPublisher) Close() error {
	return p.rdb.Close()
}
