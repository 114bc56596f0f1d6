package sse

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestEventFormatSSE(t *testing.T) {
	event := Event{
		Type: EventProgress,
		Data: map[string]interface{}{"percentage": 40},
	}

	lines := strings.Split(event.FormatSSE(), "\n")
	if lines[0] != "event: progress" {
		t.Errorf("Expected 'event: progress', got '%s'", lines[0])
	}
	if !strings.HasPrefix(lines[1], "data: ") {
		t.Fatalf("Expected data line, got '%s'", lines[1])
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimPrefix(lines[1], "data: ")), &parsed); err != nil {
		t.Fatalf("Failed to parse JSON data: %v", err)
	}
	if parsed["percentage"] != float64(40) {
		t.Errorf("Expected percentage 40, got %v", parsed["percentage"])
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	a := &Client{ID: "a", Channel: make(chan Event, 1), Resource: "op:1"}
	b := &Client{ID: "b", Channel: make(chan Event, 1), Resource: "op:2"}
	hub.Register(a)
	hub.Register(b)

	if n := hub.Broadcast("op:1", Event{Type: "x"}); n != 1 {
		t.Errorf("Expected 1 delivery, got %d", n)
	}
	// 缓冲区已满
	if n := hub.Broadcast("op:1", Event{Type: "y"}); n != 0 {
		t.Errorf("Expected full buffer to be skipped, got %d", n)
	}

	hub.Unregister(a)
	if hub.ClientCount("op:1") != 0 {
		t.Error("Expected resource to be cleaned up")
	}
	if hub.ClientCount("op:2") != 1 {
		t.Error("Expected op:2 subscriber to remain")
	}
}

func newTestContext(ctx context.Context) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/translate/document", nil).WithContext(ctx)
	return c, w
}

func TestStreamDrainsBufferedEventsOnClose(t *testing.T) {
	c, w := newTestContext(context.Background())
	stream := NewStream(c, NewHub()).WithResource("op:abc").WithHeartbeat(0).Build()

	reporter := NewOperationReporter(stream, "abc")
	if err := reporter.Start(2, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := reporter.Progress(50); err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if err := reporter.Complete("done"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	_ = stream.Close()

	if err := stream.Send(EventProgress, nil); !errors.Is(err, ErrStreamClosed) {
		t.Errorf("Expected ErrStreamClosed, got %v", err)
	}

	stream.StartStreaming()

	body := w.Body.String()
	for _, want := range []string{"event: connected", "event: operation-start", "event: progress", "event: operation-complete"} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected body to contain %q", want)
		}
	}
	if strings.Index(body, "operation-start") > strings.Index(body, "operation-complete") {
		t.Error("Expected events in send order")
	}
	if got := w.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestStreamClientDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c, _ := newTestContext(ctx)

	disconnected := false
	stream := NewStream(c, NewHub()).
		WithHeartbeat(0).
		OnDisconnect(func() { disconnected = true }).
		Build()

	cancel()
	stream.StartStreaming()

	if !disconnected {
		t.Error("Expected OnDisconnect to fire when the request context ends")
	}
	if !stream.IsClosed() {
		t.Error("Expected stream to be closed after streaming returns")
	}
}

func TestStreamBufferFull(t *testing.T) {
	c, _ := newTestContext(context.Background())

	var dropped error
	stream := NewStream(c, nil).WithBufferSize(1).OnError(func(err error) { dropped = err }).Build()

	if err := stream.Send(EventProgress, 1); err != nil {
		t.Fatalf("first send: %v", err)
	}
	if err := stream.Send(EventProgress, 2); !errors.Is(err, ErrBufferFull) {
		t.Errorf("Expected ErrBufferFull, got %v", err)
	}
	if dropped == nil {
		t.Error("Expected OnError to receive the dropped event")
	}
}
