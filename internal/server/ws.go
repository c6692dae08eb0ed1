package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/raphaelgruber/aura-go/internal/conversation"
	"github.com/raphaelgruber/aura-go/internal/models"
)

// keepAlivePingInterval is how often idle websocket connections are pinged.
const keepAlivePingInterval = 10 * time.Second

// writeTimeout bounds a single websocket write.
const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// clientCommand is a message from the browser to the concierge.
type clientCommand struct {
	Type           string `json:"type"`
	Prompt         string `json:"prompt,omitempty"`
	AttachmentPath string `json:"attachment_path,omitempty"`
	RequestID      string `json:"request_id,omitempty"`
}

// serverMessage is a message pushed to the browser.
type serverMessage struct {
	Type      string        `json:"type"`
	Turns     []models.Turn `json:"turns,omitempty"`
	Busy      bool          `json:"busy,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
	Message   string        `json:"message,omitempty"`
}

// handleWS upgrades the connection and runs one conversation session over
// it. Each session subscribes to store events and pushes a full state
// snapshot after every mutation; the client renders snapshots, it does not
// replay deltas.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := &session{
		conn:    conn,
		manager: s.manager,
		logger:  s.logger.With("remote", r.RemoteAddr),
	}
	sess.run(r.Context())
}

// session is one websocket connection to the concierge.
type session struct {
	conn    *websocket.Conn
	manager *conversation.Manager
	logger  *slog.Logger

	writeMu sync.Mutex
}

func (s *session) run(ctx context.Context) {
	defer s.conn.Close()

	events, unsubscribe := s.manager.Store().Subscribe()
	defer unsubscribe()

	s.logger.Debug("session started")
	s.pushState()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Writer side: state snapshots on store events plus keep-alive pings.
	go func() {
		ticker := time.NewTicker(keepAlivePingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				s.pushState()
			case <-ticker.C:
				s.writeMu.Lock()
				err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
				s.writeMu.Unlock()
				if err != nil {
					cancel()
					return
				}
			}
		}
	}()

	// Reader side: client commands until disconnect.
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("session read ended", "error", err)
			}
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.pushError("malformed command: " + err.Error())
			continue
		}
		s.dispatch(ctx, cmd)
	}
}

func (s *session) dispatch(ctx context.Context, cmd clientCommand) {
	switch cmd.Type {
	case "send":
		requestID, err := s.manager.Send(ctx, cmd.Prompt, cmd.AttachmentPath)
		if err != nil {
			s.pushError(err.Error())
			return
		}
		s.push(serverMessage{Type: "accepted", RequestID: requestID})

	case "retry":
		requestID, err := s.manager.Retry(ctx)
		if err != nil {
			if errors.Is(err, conversation.ErrNothingToRetry) {
				s.pushError("nothing to retry")
				return
			}
			s.pushError(err.Error())
			return
		}
		s.push(serverMessage{Type: "accepted", RequestID: requestID})

	case "cancel":
		s.manager.Cancel(cmd.RequestID)

	case "cancel_all":
		s.manager.CancelAll()

	case "clear":
		s.manager.Clear(ctx)

	default:
		s.pushError("unknown command type: " + cmd.Type)
	}
}

// pushState sends the full conversation snapshot.
func (s *session) pushState() {
	store := s.manager.Store()
	s.push(serverMessage{
		Type:  "state",
		Turns: store.Turns(),
		Busy:  store.Busy(),
	})
}

func (s *session) pushError(msg string) {
	s.push(serverMessage{Type: "error", Message: msg})
}

func (s *session) push(msg serverMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Debug("session write failed", "error", err)
	}
}
