// Package service contains the service layer for the Instruments Catalog API
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marketbots/instrumentsapi/internal/config"
	"github.com/marketbots/instrumentsapi/pkg/utils/zaplogger"
	"github.com/redis/go-redis/v9"
)

var RedisChannel = "CH:API:CATALOG:REFRESH"

// RefreshEvent is the message published after every refresh cycle so
// observability collaborators can follow catalog health.
type RefreshEvent struct {
	Status      string    `json:"status"`
	Instruments int       `json:"instruments"`
	DurationMs  int64     `json:"duration_ms"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// PublishService publishes refresh cycle outcomes to a Redis channel.
// A nil service or nil client disables publishing.
type PublishService struct {
	redisClient *redis.Client
}

// NewPublishService creates a new PublishService
func NewPublishService(redisClient *redis.Client) *PublishService {
	return &PublishService{
		redisClient: redisClient,
	}
}

// PublishRefreshEvent publishes the event to the Redis channel. Publish
// failures are logged and swallowed, they never affect the refresh outcome.
func (s *PublishService) PublishRefreshEvent(event RefreshEvent) {
	if s == nil || s.redisClient == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		zaplogger.Error("Failed to marshal refresh event", zaplogger.Fields{"error": err})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.redisClient.Publish(ctx, RedisChannel, payload).Err(); err != nil {
		zaplogger.Error("Failed to publish to Redis", zaplogger.Fields{"error": err})
	}
}

// ConnectRedis connects to the Redis instance named in the configuration.
func ConnectRedis(cfg *config.Config) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	// Check Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}
	return redisClient, nil
}
