package biz

import "sync"

// ProgressFunc 接收 0-100 的进度百分比
//
// 只在百分比变化时回调：分片数超过 100 时多个分片完成可能只产生一次回调，
// 回调次数不等于分片数。
type ProgressFunc func(percentage int)

// Progress 进度聚合器：并发完成计数，按非递减顺序回调
type Progress struct {
	mu        sync.Mutex
	total     int
	completed int
	last      int
	onChange  ProgressFunc
}

// NewProgress 创建进度聚合器，onChange 可为 nil
func NewProgress(total int, onChange ProgressFunc) *Progress {
	p := &Progress{onChange: onChange}
	p.Reset(total)
	return p
}

// Reset 开始新的一轮统计
func (p *Progress) Reset(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	p.completed = 0
	p.last = 0
}

// Complete 记录一个分片完成，返回当前百分比；百分比变化时回调
func (p *Progress) Complete() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.completed < p.total {
		p.completed++
	}
	pct := percentage(p.completed, p.total)
	if pct < p.last {
		pct = p.last
	}
	if pct != p.last {
		p.last = pct
		if p.onChange != nil {
			p.onChange(pct)
		}
	}
	return pct
}

// Completed 返回已完成数量
func (p *Progress) Completed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

// Percentage 返回当前百分比
func (p *Progress) Percentage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func percentage(completed, total int) int {
	if total <= 0 {
		return 100
	}
	pct := completed * 100 / total
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}
