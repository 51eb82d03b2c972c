package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/wasteland-engine/pkg/queue"
)

// TicketsKey is the Redis list of tickets, one per queued request. Each
// game's requests wait in their own list under RequestsKey.
const TicketsKey = "turn-tickets"

// RequestsKey is the Redis list holding a game's pending requests in order
func RequestsKey(gameID uuid.UUID) string {
	return "turn-requests:" + gameID.String()
}

// dropHeadScript pops a game's first request only if it is still the one
// the caller looked at
var dropHeadScript = redis.NewScript(`
	local head = redis.call("lindex", KEYS[1], 0)
	if head and string.find(head, '"request_id":"' .. ARGV[1] .. '"', 1, true) then
		redis.call("lpop", KEYS[1])
		return 1
	end
	return 0
`)

// TurnQueue queues turns per game, shared by the API and workers
type TurnQueue struct {
	rdb *redis.Client
}

func NewTurnQueue(rdb *redis.Client) *TurnQueue {
	return &TurnQueue{rdb: rdb}
}

// Enqueue appends a request to its game's list and issues a ticket for it
func (q *TurnQueue) Enqueue(ctx context.Context, req *queue.Request) error {
	data, err := req.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}
	ticket, err := (&queue.Ticket{GameID: req.GameID}).ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize ticket: %w", err)
	}

	_, err = q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, RequestsKey(req.GameID), data)
		pipe.RPush(ctx, TicketsKey, ticket)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue request: %w", err)
	}
	return nil
}

// NextTicket waits up to timeout for a ticket. Returns nil, nil on timeout
// or when ctx is done.
func (q *TurnQueue) NextTicket(ctx context.Context, timeout time.Duration) (*queue.Ticket, error) {
	result, err := q.rdb.BLPop(ctx, timeout, TicketsKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || ctx.Err() != nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue ticket: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPop result: %v", result)
	}
	ticket, err := queue.TicketFromJSON([]byte(result[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ticket: %w", err)
	}
	return ticket, nil
}

// Retry puts a ticket back for a game that was busy
func (q *TurnQueue) Retry(ctx context.Context, t *queue.Ticket) error {
	data, err := t.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize ticket: %w", err)
	}
	if err := q.rdb.RPush(ctx, TicketsKey, data).Err(); err != nil {
		return fmt.Errorf("failed to retry ticket: %w", err)
	}
	return nil
}

// Pop removes and returns a game's next request. Returns nil if the game
// has none. Callers hold the game's turn lock.
func (q *TurnQueue) Pop(ctx context.Context, gameID uuid.UUID) (*queue.Request, error) {
	result, err := q.rdb.LPop(ctx, RequestsKey(gameID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue request: %w", err)
	}
	return parse(result)
}

// Peek returns a game's next request without removing it
func (q *TurnQueue) Peek(ctx context.Context, gameID uuid.UUID) (*queue.Request, error) {
	result, err := q.rdb.LIndex(ctx, RequestsKey(gameID), 0).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read request: %w", err)
	}
	return parse(result)
}

// DropHead removes a game's next request if its id is requestID. Returns
// false when the head has already moved on.
func (q *TurnQueue) DropHead(ctx context.Context, gameID uuid.UUID, requestID string) (bool, error) {
	n, err := dropHeadScript.Run(ctx, q.rdb, []string{RequestsKey(gameID)}, requestID).Int()
	if err != nil {
		return false, fmt.Errorf("failed to drop request: %w", err)
	}
	return n == 1, nil
}

// Depth returns the number of requests pending for a game
func (q *TurnQueue) Depth(ctx context.Context, gameID uuid.UUID) (int, error) {
	n, err := q.rdb.LLen(ctx, RequestsKey(gameID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(n), nil
}

// Pending returns the number of outstanding tickets across all games
func (q *TurnQueue) Pending(ctx context.Context) (int, error) {
	n, err := q.rdb.LLen(ctx, TicketsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get pending tickets: %w", err)
	}
	return int(n), nil
}

func parse(data string) (*queue.Request, error) {
	req, err := queue.FromJSON([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return req, nil
}
