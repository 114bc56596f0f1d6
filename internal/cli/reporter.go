package cli

import (
	"fmt"
	"io"
	"sync"
)

// progressReporter 将文档操作事件打印到终端（stderr）
type progressReporter struct {
	mu   sync.Mutex
	out  io.Writer
	last int
}

func newProgressReporter(out io.Writer) *progressReporter {
	return &progressReporter{out: out, last: -1}
}

func (r *progressReporter) Start(totalChunks int, extra map[string]interface{}) error {
	if name, ok := extra["filename"]; ok {
		fmt.Fprintf(r.out, "Translating %v (%d chunks)\n", name, totalChunks)
		return nil
	}
	fmt.Fprintf(r.out, "Translating %d chunks\n", totalChunks)
	return nil
}

func (r *progressReporter) Progress(percentage int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if percentage <= r.last {
		return nil
	}
	r.last = percentage
	fmt.Fprintf(r.out, "\rProgress: %3d%%", percentage)
	if percentage >= 100 {
		fmt.Fprintln(r.out)
	}
	return nil
}

func (r *progressReporter) Complete(interface{}) error {
	return nil
}

func (r *progressReporter) Cancelled(completed int) error {
	fmt.Fprintf(r.out, "\nCancelled after %d chunks\n", completed)
	return nil
}

func (r *progressReporter) Failed(code int, err error) error {
	fmt.Fprintf(r.out, "\nFailed (code %d): %v\n", code, err)
	return nil
}
