package sse

import "fmt"

// 文档翻译操作事件类型
const (
	EventOperationStart     = "operation-start"
	EventProgress           = "progress"
	EventOperationComplete  = "operation-complete"
	EventOperationCancelled = "operation-cancelled"
	EventOperationFailed    = "operation-failed"
)

// Sender 事件发送者(Stream 实现该接口)
type Sender interface {
	Send(eventType string, data interface{}) error
}

// OperationReporter 将一次翻译操作的生命周期推送为 SSE 事件
type OperationReporter struct {
	sender      Sender
	operationID string
	total       int
}

// NewOperationReporter 创建操作事件推送器
func NewOperationReporter(sender Sender, operationID string) *OperationReporter {
	return &OperationReporter{
		sender:      sender,
		operationID: operationID,
	}
}

// Start 发送开始事件
func (r *OperationReporter) Start(totalChunks int, extra map[string]interface{}) error {
	r.total = totalChunks

	data := map[string]interface{}{
		"operation_id": r.operationID,
		"total_chunks": totalChunks,
		"message":      fmt.Sprintf("Translating %d chunk(s)", totalChunks),
	}
	for k, v := range extra {
		data[k] = v
	}
	return r.sender.Send(EventOperationStart, data)
}

// Progress 发送进度事件
func (r *OperationReporter) Progress(percentage int) error {
	return r.sender.Send(EventProgress, map[string]interface{}{
		"operation_id": r.operationID,
		"percentage":   percentage,
	})
}

// Complete 发送完成事件
func (r *OperationReporter) Complete(result interface{}) error {
	return r.sender.Send(EventOperationComplete, map[string]interface{}{
		"operation_id": r.operationID,
		"total_chunks": r.total,
		"result":       result,
	})
}

// Cancelled 发送取消事件(取消不是错误)
func (r *OperationReporter) Cancelled(completed int) error {
	return r.sender.Send(EventOperationCancelled, map[string]interface{}{
		"operation_id": r.operationID,
		"completed":    completed,
		"total_chunks": r.total,
		"message":      fmt.Sprintf("Operation cancelled after %d of %d chunk(s)", completed, r.total),
	})
}

// Failed 发送失败事件
func (r *OperationReporter) Failed(code int, err error) error {
	return r.sender.Send(EventOperationFailed, map[string]interface{}{
		"operation_id": r.operationID,
		"code":         code,
		"error":        err.Error(),
	})
}
