package watcher

import (
	"context"
	"sync"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/notify"
)

// Collector is a notify.Alerter that holds alerts raised by automation
// actions until the watcher drains them into the current pass. Give it to
// the service as its alerter and to the watcher with WithCollector so those
// alerts go through the same de-duplication as every other watch alert.
type Collector struct {
	mu     sync.Mutex
	alerts []notify.Alert
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Alert implements notify.Alerter. It never fails.
func (c *Collector) Alert(_ context.Context, a notify.Alert) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = append(c.alerts, a)
	return nil
}

func (c *Collector) drain() []notify.Alert {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.alerts
	c.alerts = nil
	return out
}
