package biz

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

// OperationStatus 操作状态
type OperationStatus string

const (
	OperationRunning   OperationStatus = "running"
	OperationCompleted OperationStatus = "completed"
	OperationCancelled OperationStatus = "cancelled"
	OperationFailed    OperationStatus = "failed"
)

// Operation 一次文档翻译操作，持有自己的取消信号
type Operation struct {
	ID        string
	SessionID string
	StartedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// Context 返回操作上下文，取消后所有分片请求停止
func (o *Operation) Context() context.Context {
	return o.ctx
}

// Cancel 取消操作
func (o *Operation) Cancel() {
	o.cancel()
}

// OperationInfo 操作快照
type OperationInfo struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id,omitempty"`
	Status    OperationStatus `json:"status"`
	StartedAt time.Time       `json:"started_at"`
}

// OperationManager 管理进行中的操作；同一会话开始新操作时取消旧操作
type OperationManager struct {
	mu        sync.Mutex
	byID      map[string]*Operation
	bySession map[string]*Operation
	logger    *logger.Logger
}

// NewOperationManager 创建操作管理器
func NewOperationManager(lgr *logger.Logger) *OperationManager {
	if lgr == nil {
		lgr = logger.L()
	}
	return &OperationManager{
		byID:      make(map[string]*Operation),
		bySession: make(map[string]*Operation),
		logger:    lgr,
	}
}

// Begin 开始新操作，先取消该会话仍在进行的操作
func (m *OperationManager) Begin(ctx context.Context, sessionID string) *Operation {
	op := m.Prepare(ctx, sessionID)
	m.Activate(op)
	return op
}

// Prepare 创建操作但不登记，会话中已有的操作不受影响
func (m *OperationManager) Prepare(ctx context.Context, sessionID string) *Operation {
	opCtx, cancel := context.WithCancel(ctx)
	op := &Operation{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		StartedAt: time.Now(),
		cancel:    cancel,
	}
	op.ctx = logger.WithOperationID(opCtx, op.ID)
	return op
}

// Activate 登记 Prepare 创建的操作，并取消同一会话的旧操作
func (m *OperationManager) Activate(op *Operation) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if op.SessionID != "" {
		if prev, ok := m.bySession[op.SessionID]; ok && prev != op {
			prev.cancel()
			delete(m.byID, prev.ID)
			m.logger.Info("operation superseded",
				zap.String("session_id", op.SessionID),
				zap.String("previous", prev.ID),
				zap.String("operation_id", op.ID))
		}
		m.bySession[op.SessionID] = op
	}
	m.byID[op.ID] = op
}

// Cancel 按 ID 取消操作
func (m *OperationManager) Cancel(id string) error {
	m.mu.Lock()
	op, ok := m.byID[id]
	m.mu.Unlock()

	if !ok {
		return ErrOperationNotFound
	}
	op.cancel()
	return nil
}

// Finish 结束操作并释放资源
func (m *OperationManager) Finish(op *Operation, status OperationStatus) {
	op.cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.byID[op.ID]; ok && current == op {
		delete(m.byID, op.ID)
	}
	if current, ok := m.bySession[op.SessionID]; ok && current == op {
		delete(m.bySession, op.SessionID)
	}

	m.logger.Debug("operation finished",
		zap.String("operation_id", op.ID),
		zap.String("status", string(status)),
		zap.Duration("duration", time.Since(op.StartedAt)))
}

// Get 查询进行中的操作
func (m *OperationManager) Get(id string) (*Operation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	op, ok := m.byID[id]
	return op, ok
}

// Active 列出进行中的操作，按开始时间排序
func (m *OperationManager) Active() []OperationInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]OperationInfo, 0, len(m.byID))
	for _, op := range m.byID {
		status := OperationRunning
		if op.ctx.Err() != nil {
			status = OperationCancelled
		}
		out = append(out, OperationInfo{
			ID:        op.ID,
			SessionID: op.SessionID,
			Status:    status,
			StartedAt: op.StartedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// CancelAll 取消所有操作（服务关闭时调用）
func (m *OperationManager) CancelAll() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, op := range m.byID {
		op.cancel()
	}
	return len(m.byID)
}
