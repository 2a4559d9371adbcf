// Package stream serves path traces over a websocket, sending each output
// line as it is produced followed by a terminal result message.
package stream

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/deixis/pathtrace/internal/trace"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed for the client to send its trace request.
	requestWait = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// Message types (server -> client).
const (
	MsgTypeLine  = "line"
	MsgTypeDone  = "done"
	MsgTypeError = "error"
)

// Request is the single message a client sends after connecting.
type Request struct {
	Target string `json:"target"`
}

// Message is sent from server to client.
type Message struct {
	Type    string `json:"type"`              // line, done, error
	TraceID string `json:"trace_id"`          // shared by every message of one trace
	LineNo  int    `json:"line_no,omitempty"` // 1-based, line messages only
	Line    string `json:"line,omitempty"`    // line messages only
	Output  string `json:"output,omitempty"`  // done: full stdout, verbatim
	Message string `json:"message,omitempty"` // error: human-readable reason
}

// upgrader configures WebSocket connection upgrade parameters.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Allow same-origin and localhost for development.
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return strings.HasPrefix(origin, "http://localhost") ||
			strings.HasPrefix(origin, "http://127.0.0.1") ||
			strings.HasPrefix(origin, "https://localhost") ||
			strings.HasPrefix(origin, "https://127.0.0.1")
	},
}

// Handler runs one trace per websocket connection.
type Handler struct {
	svc *trace.Service
}

// NewHandler returns a websocket trace handler backed by svc.
func NewHandler(svc *trace.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.svc.Logger()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(requestWait))

	s := &session{conn: conn, traceID: uuid.New().String()}

	var req Request
	if err := conn.ReadJSON(&req); err != nil {
		logger.Warn("websocket bad request", "remote", r.RemoteAddr, "err", err)
		s.send(Message{Type: MsgTypeError, Message: "expected {\"target\": \"...\"}"})
		s.close()
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The client sends nothing more; a read error means it went away.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	logger.Info("websocket trace", "trace_id", s.traceID, "remote", r.RemoteAddr)

	out, err := h.svc.Trace(ctx, req.Target, func(lineNo int, line string) {
		if !s.send(Message{Type: MsgTypeLine, LineNo: lineNo, Line: line}) {
			cancel()
		}
	})
	if err != nil {
		s.send(Message{Type: MsgTypeError, Message: err.Error()})
	} else {
		s.send(Message{Type: MsgTypeDone, Output: out})
	}
	s.close()
}

// session serialises writes to one connection.
type session struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	traceID string
	broken  bool
}

// send writes m and reports whether the peer is still reachable.
func (s *session) send(m Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken {
		return false
	}
	m.TraceID = s.traceID
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(m); err != nil {
		s.broken = true
		return false
	}
	return true
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken {
		return
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
