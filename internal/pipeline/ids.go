package pipeline

import (
	"sync/atomic"
	"time"
)

// IDGenerator hands out millisecond-based ids that never repeat or go backwards
type IDGenerator struct {
	last atomic.Int64
}

// Next returns max(now in ms, previous+1)
func (g *IDGenerator) Next(now time.Time) int64 {
	for {
		last := g.last.Load()
		id := now.UnixMilli()
		if id <= last {
			id = last + 1
		}
		if g.last.CompareAndSwap(last, id) {
			return id
		}
	}
}
