package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deixis/pathtrace/internal/config"
	"github.com/deixis/pathtrace/internal/trace"
	"github.com/gorilla/websocket"
)

func dial(t *testing.T, header http.Header) *websocket.Conn {
	t.Helper()
	svc := trace.NewService(&config.Config{RawTimeout: "5s"}, nil)
	srv := httptest.NewServer(NewHandler(svc))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		if resp != nil {
			t.Fatalf("dial: %v (status %d)", err, resp.StatusCode)
		}
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readAll collects messages until the terminal one.
func readAll(t *testing.T, conn *websocket.Conn) []Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	var msgs []Message
	for {
		var m Message
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read after %d messages: %v", len(msgs), err)
		}
		msgs = append(msgs, m)
		if m.Type == MsgTypeDone || m.Type == MsgTypeError {
			return msgs
		}
	}
}

func TestStream_InvalidTarget(t *testing.T) {
	conn := dial(t, nil)
	if err := conn.WriteJSON(Request{Target: "a b"}); err != nil {
		t.Fatal(err)
	}
	msgs := readAll(t, conn)
	if len(msgs) != 1 {
		t.Fatalf("msgs = %+v", msgs)
	}
	m := msgs[0]
	if m.Type != MsgTypeError || !strings.HasPrefix(m.Message, "Invalid target: ") {
		t.Errorf("msg = %+v", m)
	}
	if m.TraceID == "" {
		t.Error("TraceID is empty")
	}
}

func TestStream_MalformedRequest(t *testing.T) {
	conn := dial(t, nil)
	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	msgs := readAll(t, conn)
	if msgs[0].Type != MsgTypeError {
		t.Errorf("msg = %+v", msgs[0])
	}
}

func TestStream_RejectsForeignOrigin(t *testing.T) {
	svc := trace.NewService(&config.Config{}, nil)
	srv := httptest.NewServer(NewHandler(svc))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	if err == nil {
		t.Fatal("expected dial to fail for foreign origin")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("resp = %v", resp)
	}
}
