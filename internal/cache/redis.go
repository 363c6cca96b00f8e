// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

// QueueName is the Redis list (queue) name for game action logs.
var QueueName = "uno_actions"

// GameActionRecord holds the minimal info needed by the historian.
// Recipient is set for actions only one player was shown.
type GameActionRecord struct {
	GameID        uuid.UUID   `json:"game_id"`
	ActionIndex   int         `json:"action_index"`
	ActorUserID   uuid.UUID   `json:"actor_user_id"`
	ActionType    string      `json:"action_type"`
	ActionPayload interface{} `json:"action_payload,omitempty"`
	Recipient     *uuid.UUID  `json:"recipient,omitempty"`
	Timestamp     int64       `json:"timestamp"`
}

// NewClient builds a Redis client and checks it is reachable.
func NewClient(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// ConnectRedis initializes the global Redis client and the queue the actions are pushed to.
func ConnectRedis(ctx context.Context, addr string, db int, queue string) error {
	rdb, err := NewClient(ctx, addr, db)
	if err != nil {
		return err
	}
	Rdb = rdb
	if queue != "" {
		QueueName = queue
	}
	return nil
}

// PublishGameAction serializes the given record to JSON, then pushes it to the Redis queue.
func PublishGameAction(ctx context.Context, record GameActionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal GameActionRecord: %w", err)
	}
	if err := Rdb.RPush(ctx, QueueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", QueueName, err)
	}
	return nil
}
