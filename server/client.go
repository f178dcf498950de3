package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gameframe/game"

	"github.com/gorilla/websocket"
)

// Client talks to a Server over HTTP.
type Client[S game.State] struct {
	serverURL  string
	httpClient *http.Client
}

func NewClient[S game.State](serverURL string) *Client[S] {
	return &Client[S]{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: http.DefaultClient,
	}
}

func (c *Client[S]) State(ctx context.Context) (Snapshot[S], error) {
	return c.do(ctx, http.MethodGet, "/state", nil)
}

func (c *Client[S]) Move(ctx context.Context, move string) (Snapshot[S], error) {
	return c.do(ctx, http.MethodPost, "/move", MoveRequest{Move: move})
}

func (c *Client[S]) Reset(ctx context.Context) (Snapshot[S], error) {
	return c.do(ctx, http.MethodPost, "/reset", nil)
}

// Subscribe calls onUpdate with every snapshot the server pushes until ctx is done or the
// connection drops.
func (c *Client[S]) Subscribe(ctx context.Context, onUpdate func(Snapshot[S])) error {
	url := "ws" + strings.TrimPrefix(c.serverURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var snapshot Snapshot[S]
		if err := conn.ReadJSON(&snapshot); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("failed to read update: %w", err)
		}
		onUpdate(snapshot)
	}
}

func (c *Client[S]) do(ctx context.Context, method, path string, body any) (Snapshot[S], error) {
	var snapshot Snapshot[S]

	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			return snapshot, fmt.Errorf("failed to encode request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, &payload)
	if err != nil {
		return snapshot, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return snapshot, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
			return snapshot, fmt.Errorf("server returned %s", resp.Status)
		}
		return snapshot, fmt.Errorf("server returned %s: %s", resp.Status, errResp.Error)
	}
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return snapshot, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snapshot, nil
}
