package push

import (
	"context"
	"sync/atomic"
)

// Cell is a stable indirection in front of a Handler. Pass Cell.Handle to
// Connect once; later Set calls redirect events without touching the
// connection.
type Cell struct {
	target atomic.Pointer[Handler]
}

func NewCell(h Handler) *Cell {
	c := &Cell{}
	c.Set(h)
	return c
}

// Set replaces the effective handler. A nil handler drops events.
func (c *Cell) Set(h Handler) {
	if h == nil {
		c.target.Store(nil)
		return
	}
	c.target.Store(&h)
}

// Handle forwards p to the current handler.
func (c *Cell) Handle(ctx context.Context, p Payload) {
	if h := c.target.Load(); h != nil {
		(*h)(ctx, p)
	}
}
