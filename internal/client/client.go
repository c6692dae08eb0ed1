// Package client provides a Go client for the Aura concierge server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raphaelgruber/aura-go/internal/metrics"
	"github.com/raphaelgruber/aura-go/internal/models"
)

// Client talks to a running concierge server.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New creates a new concierge client.
// If endpoint is empty, uses AURA_SERVER_URL env var or defaults to localhost:8585.
// Timeout can be configured via AURA_CLIENT_TIMEOUT env var.
func New(endpoint string) *Client {
	if endpoint == "" {
		endpoint = os.Getenv("AURA_SERVER_URL")
	}
	if endpoint == "" {
		endpoint = "http://localhost:8585"
	}
	endpoint = strings.TrimRight(endpoint, "/")

	timeout := 30 * time.Second
	if t := os.Getenv("AURA_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// get fetches a JSON endpoint into result.
func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server error: %s - %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// Health reports whether the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/healthz", nil)
}

// Stats returns the server's in-memory runtime statistics.
func (c *Client) Stats(ctx context.Context) (*metrics.Snapshot, error) {
	var snap metrics.Snapshot
	if err := c.get(ctx, "/stats", &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Fleet returns the registered vehicles.
func (c *Client) Fleet(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := c.get(ctx, "/fleet", &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// Dealers returns the service center list.
func (c *Client) Dealers(ctx context.Context) ([]models.Dealer, error) {
	var dealers []models.Dealer
	if err := c.get(ctx, "/dealers", &dealers); err != nil {
		return nil, err
	}
	return dealers, nil
}

// Slots returns bookable appointment slots at a dealer on a date (YYYY-MM-DD).
func (c *Client) Slots(ctx context.Context, dealerID, date string) ([]models.TimeSlot, error) {
	var slots []models.TimeSlot
	path := fmt.Sprintf("/slots?dealer=%s&date=%s", dealerID, date)
	if err := c.get(ctx, path, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// =============================================================================
// CONVERSATION SESSION (websocket)
// =============================================================================

// State is one conversation snapshot pushed by the server.
type State struct {
	Turns []models.Turn `json:"turns"`
	Busy  bool          `json:"busy"`
}

// wsCommand is a message to the server.
type wsCommand struct {
	Type           string `json:"type"`
	Prompt         string `json:"prompt,omitempty"`
	AttachmentPath string `json:"attachment_path,omitempty"`
	RequestID      string `json:"request_id,omitempty"`
}

// wsPush is a message from the server.
type wsPush struct {
	Type      string        `json:"type"`
	Turns     []models.Turn `json:"turns"`
	Busy      bool          `json:"busy"`
	RequestID string        `json:"request_id"`
	Message   string        `json:"message"`
}

// Session is one live conversation over a websocket.
type Session struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu       sync.Mutex
	accepted chan string
	errs     chan string
}

// Connect opens a conversation session. The onState callback is invoked for
// every state snapshot the server pushes, from a single goroutine.
func (c *Client) Connect(ctx context.Context, onState func(State)) (*Session, error) {
	wsEndpoint := c.endpoint + "/ws"
	wsEndpoint = strings.Replace(wsEndpoint, "http://", "ws://", 1)
	wsEndpoint = strings.Replace(wsEndpoint, "https://", "wss://", 1)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, wsEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket connect: %w", err)
	}

	s := &Session{
		conn:     conn,
		accepted: make(chan string, 8),
		errs:     make(chan string, 8),
	}

	go s.readLoop(onState)
	return s, nil
}

// readLoop dispatches server pushes until the connection closes.
func (s *Session) readLoop(onState func(State)) {
	for {
		var msg wsPush
		if err := s.conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "state":
			if onState != nil {
				onState(State{Turns: msg.Turns, Busy: msg.Busy})
			}
		case "accepted":
			select {
			case s.accepted <- msg.RequestID:
			default:
			}
		case "error":
			select {
			case s.errs <- msg.Message:
			default:
			}
		}
	}
}

func (s *Session) write(cmd wsCommand) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(cmd)
}

// Send submits a prompt and waits for the server to accept it, returning the
// request id for cancellation.
func (s *Session) Send(ctx context.Context, prompt, attachmentPath string) (string, error) {
	if err := s.write(wsCommand{Type: "send", Prompt: prompt, AttachmentPath: attachmentPath}); err != nil {
		return "", fmt.Errorf("send: %w", err)
	}
	select {
	case id := <-s.accepted:
		return id, nil
	case msg := <-s.errs:
		return "", fmt.Errorf("rejected: %s", msg)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Retry re-issues the last submitted prompt.
func (s *Session) Retry(ctx context.Context) (string, error) {
	if err := s.write(wsCommand{Type: "retry"}); err != nil {
		return "", fmt.Errorf("retry: %w", err)
	}
	select {
	case id := <-s.accepted:
		return id, nil
	case msg := <-s.errs:
		return "", fmt.Errorf("rejected: %s", msg)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Cancel aborts one in-flight request.
func (s *Session) Cancel(requestID string) error {
	return s.write(wsCommand{Type: "cancel", RequestID: requestID})
}

// Clear starts a new conversation.
func (s *Session) Clear() error {
	return s.write(wsCommand{Type: "clear"})
}

// Close terminates the session.
func (s *Session) Close() error {
	return s.conn.Close()
}
