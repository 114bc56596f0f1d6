package sse

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	ErrStreamClosed = errors.New("stream closed")
	ErrBufferFull   = errors.New("stream buffer full")
)

// Stream SSE 流(封装 Client 和 gin.Context)
type Stream struct {
	client    *Client
	ctx       *gin.Context
	hub       *Hub
	heartbeat time.Duration

	onConnect    func()
	onDisconnect func()
	onError      func(error)

	mu          sync.Mutex
	closed      bool
	registered  bool
	connectTime time.Time
}

// StreamBuilder 构建器
type StreamBuilder struct {
	ginCtx       *gin.Context
	hub          *Hub
	resource     string
	bufferSize   int
	heartbeat    time.Duration
	onConnect    func()
	onDisconnect func()
	onError      func(error)
}

// NewStream 创建 Stream 构建器
func NewStream(c *gin.Context, hub *Hub) *StreamBuilder {
	return &StreamBuilder{
		ginCtx:     c,
		hub:        hub,
		bufferSize: 16,
		heartbeat:  15 * time.Second,
	}
}

// WithResource 设置资源 ID
func (b *StreamBuilder) WithResource(resource string) *StreamBuilder {
	b.resource = resource
	return b
}

// WithBufferSize 设置 Channel 缓冲区大小
func (b *StreamBuilder) WithBufferSize(size int) *StreamBuilder {
	if size > 0 {
		b.bufferSize = size
	}
	return b
}

// WithHeartbeat 设置心跳间隔(0 表示禁用心跳)
func (b *StreamBuilder) WithHeartbeat(interval time.Duration) *StreamBuilder {
	b.heartbeat = interval
	return b
}

// OnConnect 设置连接建立钩子
func (b *StreamBuilder) OnConnect(fn func()) *StreamBuilder {
	b.onConnect = fn
	return b
}

// OnDisconnect 设置客户端提前断开钩子(正常 Close 不触发)
func (b *StreamBuilder) OnDisconnect(fn func()) *StreamBuilder {
	b.onDisconnect = fn
	return b
}

// OnError 设置错误处理钩子
func (b *StreamBuilder) OnError(fn func(error)) *StreamBuilder {
	b.onError = fn
	return b
}

// Build 构建 Stream
func (b *StreamBuilder) Build() *Stream {
	hub := b.hub
	if hub == nil {
		hub = NewHub()
	}
	return &Stream{
		client: &Client{
			ID:       uuid.New().String(),
			Channel:  make(chan Event, b.bufferSize),
			Resource: b.resource,
		},
		ctx:          b.ginCtx,
		hub:          hub,
		heartbeat:    b.heartbeat,
		onConnect:    b.onConnect,
		onDisconnect: b.onDisconnect,
		onError:      b.onError,
		connectTime:  time.Now(),
	}
}

// Send 发送事件(并发安全，缓冲区满时返回 ErrBufferFull)
func (s *Stream) Send(eventType string, data interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStreamClosed
	}

	select {
	case s.client.Channel <- Event{Type: eventType, Data: data}:
		return nil
	default:
		err := fmt.Errorf("%w: %s dropped", ErrBufferFull, eventType)
		if s.onError != nil {
			s.onError(err)
		}
		return err
	}
}

// Close 关闭流(幂等)，已缓冲的事件仍会写出
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.registered {
		s.hub.Unregister(s.client)
	}
	close(s.client.Channel)
	return nil
}

func (s *Stream) register() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.hub.Register(s.client)
	s.registered = true
	return true
}

// StartStreaming 开始流式传输(阻塞直到流关闭或客户端断开)
func (s *Stream) StartStreaming() {
	s.ctx.Header("Content-Type", "text/event-stream")
	s.ctx.Header("Cache-Control", "no-cache")
	s.ctx.Header("Connection", "keep-alive")
	s.ctx.Header("X-Accel-Buffering", "no")

	defer s.Close()
	s.register()

	if s.onConnect != nil {
		s.onConnect()
	}

	connected := Event{
		Type: "connected",
		Data: map[string]string{
			"client_id": s.client.ID,
			"resource":  s.client.Resource,
		},
	}
	if !s.write(connected.FormatSSE()) {
		return
	}

	var heartbeat <-chan time.Time
	if s.heartbeat > 0 {
		ticker := time.NewTicker(s.heartbeat)
		defer ticker.Stop()
		heartbeat = ticker.C
	}

	clientGone := s.ctx.Request.Context().Done()

	for {
		select {
		case <-clientGone:
			if s.onDisconnect != nil && !s.IsClosed() {
				s.onDisconnect()
			}
			return

		case event, ok := <-s.client.Channel:
			if !ok {
				return
			}
			if !s.write(event.FormatSSE()) {
				return
			}

		case <-heartbeat:
			if !s.write(": heartbeat\n\n") {
				return
			}
		}
	}
}

func (s *Stream) write(payload string) bool {
	if _, err := fmt.Fprint(s.ctx.Writer, payload); err != nil {
		if s.onError != nil {
			s.onError(err)
		}
		return false
	}
	s.ctx.Writer.Flush()
	return true
}

// ClientID 获取客户端 ID
func (s *Stream) ClientID() string {
	return s.client.ID
}

// Resource 获取资源 ID
func (s *Stream) Resource() string {
	return s.client.Resource
}

// Duration 获取连接时长
func (s *Stream) Duration() time.Duration {
	return time.Since(s.connectTime)
}

// IsClosed 检查是否已关闭
func (s *Stream) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
