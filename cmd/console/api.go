package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/wasteland-engine/internal/handlers"
	"github.com/jwebster45206/wasteland-engine/internal/services/events"
)

// APIClient talks to the game API over HTTP.
type APIClient struct {
	baseURL string
	client  *http.Client
	// streamClient has no timeout; event streams stay open for the session
	streamClient *http.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		client:       &http.Client{Timeout: timeout},
		streamClient: &http.Client{},
	}
}

// Health reports whether the API answers /health with 200.
func (c *APIClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, http.StatusOK, nil)
}

func (c *APIClient) ListWorlds(ctx context.Context) ([]handlers.WorldSummary, error) {
	var resp handlers.WorldsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/worlds", nil, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("failed to list worlds: %w", err)
	}
	return resp.Worlds, nil
}

// CreateGame starts a game in the given world. An empty id lets the server
// pick its default world.
func (c *APIClient) CreateGame(ctx context.Context, worldID string) (*handlers.TurnResponse, error) {
	body := map[string]string{}
	if worldID != "" {
		body["world"] = worldID
	}
	var resp handlers.TurnResponse
	if err := c.do(ctx, http.MethodPost, "/v1/games", body, http.StatusCreated, &resp); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	return &resp, nil
}

func (c *APIClient) GetGame(ctx context.Context, id uuid.UUID) (*handlers.GameView, error) {
	var view handlers.GameView
	if err := c.do(ctx, http.MethodGet, "/v1/games/"+id.String(), nil, http.StatusOK, &view); err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &view, nil
}

// SendCommand submits one raw player command.
func (c *APIClient) SendCommand(ctx context.Context, id uuid.UUID, command string) (*handlers.TurnResponse, error) {
	var resp handlers.TurnResponse
	body := map[string]string{"command": command}
	if err := c.do(ctx, http.MethodPost, "/v1/games/"+id.String()+"/commands", body, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("command failed: %w", err)
	}
	return &resp, nil
}

func (c *APIClient) DeleteGame(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, "/v1/games/"+id.String(), nil, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}

// do sends a JSON request and decodes a JSON response into out when the
// status matches want. Other statuses are turned into errors carrying the
// server's error message.
func (c *APIClient) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != want {
		var errorResp handlers.ErrorResponse
		if err := json.Unmarshal(data, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return &APIError{Status: resp.StatusCode, Message: errorResp.Error}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// APIError is a non-success response with an error body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// ListenEvents connects to a game's event stream and forwards events until
// ctx is cancelled or the stream ends. The "connected" greeting is skipped.
func (c *APIClient) ListenEvents(ctx context.Context, id uuid.UUID, out chan<- events.Event) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/games/"+id.String()+"/events", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to event stream: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("event stream failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	scanner := bufio.NewScanner(resp.Body)
	var name, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "":
			// blank line ends an event; comments (keepalives) leave name empty
			if name != "" && name != "connected" {
				var ev events.Event
				if err := json.Unmarshal([]byte(data), &ev); err == nil {
					select {
					case out <- ev:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
			}
			name, data = "", ""
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error reading event stream: %w", err)
	}
	return nil
}
