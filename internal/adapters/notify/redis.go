package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
	"github.com/twomatetechnologies/moneyflow-prices/internal/ports"
)

// DefaultChannel is the pub/sub channel alerts are published on
const DefaultChannel = "moneyflow:alerts"

// RedisClient is the subset of the go-redis client the publisher uses
type RedisClient interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisPublisher publishes alerts on a Redis channel and keeps the latest
// alert of each type under a key with a TTL
type RedisPublisher struct {
	client  RedisClient
	channel string
	ttl     time.Duration
	logger  *slog.Logger
}

// NewRedisPublisher creates a new publisher. An empty channel uses DefaultChannel.
func NewRedisPublisher(client RedisClient, channel string, ttl time.Duration, logger *slog.Logger) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisPublisher{
		client:  client,
		channel: channel,
		ttl:     ttl,
		logger:  logger.With("component", "alert_redis"),
	}
}

// NewRedisClient connects to the Redis server at url and verifies it responds
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

func (p *RedisPublisher) Name() string { return "redis" }

// Notify publishes the alert as JSON
func (p *RedisPublisher) Notify(ctx context.Context, alert domain.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	receivers, err := p.client.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}

	key := fmt.Sprintf("%s:latest:%s", p.channel, alert.Type)
	if err := p.client.Set(ctx, key, payload, p.ttl).Err(); err != nil {
		p.logger.Warn("failed to store latest alert", "key", key, "error", err)
	}

	p.logger.Debug("alert published", "channel", p.channel, "alert_id", alert.ID, "receivers", receivers)
	return nil
}

// Ensure RedisPublisher implements ports.AlertNotifier
var _ ports.AlertNotifier = (*RedisPublisher)(nil)
