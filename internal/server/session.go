package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sells-group/mortgage-agent/internal/agent"
	"github.com/sells-group/mortgage-agent/internal/model"
)

// Session binds one websocket connection to one advisor. Inbound envelopes
// are processed strictly in order: a session never interleaves turns.
type Session struct {
	ID      string
	conn    *websocket.Conn
	advisor *agent.Advisor

	// writeMu serializes writes; the turn pipeline and error paths both
	// emit envelopes on the same connection.
	writeMu sync.Mutex

	// cancel aborts the turn context. A failed write means the peer is
	// gone; the read loop is blocked inside the turn at that point, so
	// the write path is the only place the disconnect is observable.
	cancel context.CancelFunc
}

// NewSession wraps an accepted connection.
func NewSession(conn *websocket.Conn, advisor *agent.Advisor) *Session {
	return &Session{
		ID:      uuid.New().String(),
		conn:    conn,
		advisor: advisor,
	}
}

// Run reads envelopes until the connection closes or ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	log := zap.L().With(zap.String("session_id", s.ID))
	log.Info("session: connected")
	defer log.Info("session: disconnected")

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	defer cancel()

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("session: read failed", zap.Error(err))
			}
			return
		}

		var in Inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			s.sendError("Invalid JSON message", err.Error())
			continue
		}

		switch in.Type {
		case inboundMessage:
			s.handleMessage(ctx, in, log)
		case inboundReset:
			s.advisor.Reset()
			s.send(okEnvelope{Type: "ok", Action: "reset"})
		default:
			s.sendError(fmt.Sprintf("Unknown message type: %s", in.Type), "")
		}
	}
}

// handleMessage runs one user turn and relays its events to the client.
func (s *Session) handleMessage(ctx context.Context, in Inbound, log *zap.Logger) {
	if in.Message == "" {
		s.sendError("Empty message", "")
		return
	}

	stream := in.Stream == nil || *in.Stream

	result, err := s.advisor.SendMessage(ctx, in.Message, stream, func(e model.Event) {
		s.send(envelopeFor(e))
	})
	if err != nil {
		log.Error("session: turn failed", zap.Error(err))
		s.sendError("Failed to process message", err.Error())
		return
	}

	// Non-streamed turns get the complete response as a single envelope.
	if !stream {
		s.send(messageEnvelope{Type: "message", Content: result.Message})
	}
}

func (s *Session) send(v any) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(v); err != nil {
		zap.L().Warn("session: write failed, cancelling turn",
			zap.String("session_id", s.ID),
			zap.Error(err),
		)
		// The peer is gone; abort the in-flight turn so the model call
		// and any remaining tool rounds stop instead of streaming into
		// a dead socket.
		if s.cancel != nil {
			s.cancel()
		}
	}
}

func (s *Session) sendError(msg, detail string) {
	s.send(errorEnvelope{Type: "error", Error: msg, Detail: detail})
}
