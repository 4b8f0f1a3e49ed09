package vk

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// pacer spaces requests at least interval apart across goroutines.
type pacer struct {
	next     time.Time
	interval time.Duration
	mu       sync.Mutex
}

func newPacer(interval time.Duration) *pacer {
	return &pacer{interval: interval}
}

// wait blocks until the caller may send its request or the context is canceled.
func (p *pacer) wait(ctx context.Context) error {
	if p.interval <= 0 {
		return nil
	}

	p.mu.Lock()
	now := time.Now()
	slot := p.next
	if slot.Before(now) {
		slot = now
	}
	p.next = slot.Add(p.interval)
	p.mu.Unlock()

	delay := time.Until(slot)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("request pacing canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
