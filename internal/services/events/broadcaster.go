package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeTurnProcessing EventType = "turn.processing"
	EventTypeTurnCompleted  EventType = "turn.completed"
	EventTypeTurnFailed     EventType = "turn.failed"
	EventTypeGameOver       EventType = "game.over"
)

// Event represents a generic event structure
type Event struct {
	Type      EventType      `json:"type"`
	RequestID string         `json:"request_id,omitempty"`
	GameID    string         `json:"game_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Channel returns the pub/sub channel carrying a game's events
func Channel(gameID uuid.UUID) string {
	return fmt.Sprintf("game-events:%s", gameID.String())
}

// Broadcaster publishes turn lifecycle events to Redis Pub/Sub for SSE distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// PublishTurnProcessing announces that a command was accepted
func (b *Broadcaster) PublishTurnProcessing(ctx context.Context, gameID uuid.UUID, requestID, command string) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:      EventTypeTurnProcessing,
		RequestID: requestID,
		GameID:    gameID.String(),
		Data: map[string]any{
			"status":  "processing",
			"command": command,
		},
	})
}

// PublishTurnCompleted announces a resolved turn and how many log entries it produced
func (b *Broadcaster) PublishTurnCompleted(ctx context.Context, gameID uuid.UUID, requestID string, entries int, location string, health int) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:      EventTypeTurnCompleted,
		RequestID: requestID,
		GameID:    gameID.String(),
		Data: map[string]any{
			"status":        "completed",
			"entries":       entries,
			"location":      location,
			"player_health": health,
		},
	})
}

// PublishTurnFailed announces a turn that could not be resolved
func (b *Broadcaster) PublishTurnFailed(ctx context.Context, gameID uuid.UUID, requestID, errorMsg string) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:      EventTypeTurnFailed,
		RequestID: requestID,
		GameID:    gameID.String(),
		Data: map[string]any{
			"status": "failed",
			"error":  errorMsg,
		},
	})
}

// PublishGameOver announces the player's death
func (b *Broadcaster) PublishGameOver(ctx context.Context, gameID uuid.UUID, requestID string) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:      EventTypeGameOver,
		RequestID: requestID,
		GameID:    gameID.String(),
	})
}

// Subscribe streams a game's events until ctx is cancelled. The returned
// channel is closed when the subscription ends.
func (b *Broadcaster) Subscribe(ctx context.Context, gameID uuid.UUID) (<-chan Event, error) {
	pubsub := b.redisClient.Subscribe(ctx, Channel(gameID))

	// wait for the subscription to be confirmed so no event is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		defer func() { _ = pubsub.Close() }()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.logger.Warn("Dropping malformed event", "error", err, "channel", msg.Channel)
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// publishToGame publishes an event to the game-specific channel
func (b *Broadcaster) publishToGame(ctx context.Context, gameID uuid.UUID, event Event) error {
	channel := Channel(gameID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event", event)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
		"request_id", event.RequestID,
	)
	return nil
}
