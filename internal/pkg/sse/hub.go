package sse

import (
	"encoding/json"
	"sync"
)

// Event SSE 事件
type Event struct {
	Type string      `json:"type"` // 事件类型
	Data interface{} `json:"data"` // 事件数据
}

// FormatSSE 格式化为 SSE 消息格式
func (e Event) FormatSSE() string {
	data, err := json.Marshal(e.Data)
	if err != nil {
		data, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	return "event: " + e.Type + "\ndata: " + string(data) + "\n\n"
}

// Client SSE 客户端连接
type Client struct {
	ID       string
	Channel  chan Event
	Resource string // 订阅的资源 ID (如 op:xxx)
}

// Hub SSE 连接管理器，按资源分组
// Channel 的生命周期由 Stream 负责，Hub 只做订阅关系
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Register 注册客户端
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.Resource] == nil {
		h.clients[client.Resource] = make(map[*Client]struct{})
	}
	h.clients[client.Resource][client] = struct{}{}
}

// Unregister 注销客户端
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.Resource]
	if !ok {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.clients, client.Resource)
	}
}

// Broadcast 向订阅指定资源的所有客户端广播消息，缓冲区满的客户端跳过
func (h *Hub) Broadcast(resource string, event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for client := range h.clients[resource] {
		select {
		case client.Channel <- event:
			delivered++
		default:
		}
	}
	return delivered
}

// ClientCount 获取订阅指定资源的客户端数量
func (h *Hub) ClientCount(resource string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[resource])
}
