package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// clockTickMsg redraws the header clock.
type clockTickMsg time.Time

// cacheChangedMsg is sent after the engine's collection, selection or
// notice changed, including a notice expiring on its own.
type cacheChangedMsg struct{}

type accentMsg struct {
	hex string
}

type healthMsg struct {
	online bool
}

type pushStatusMsg struct {
	live bool
}

type loadedMsg struct {
	err error
}

type mutation int

const (
	mutationCreate mutation = iota
	mutationUpdate
	mutationDelete
)

func (m mutation) String() string {
	switch m {
	case mutationCreate:
		return "publish the article"
	case mutationUpdate:
		return "save the changes"
	default:
		return "delete the article"
	}
}

type mutationDoneMsg struct {
	op mutation
	ok bool
}

// relay forwards messages from background goroutines into the program.
// Messages sent before bind, or after the program exits, are dropped.
type relay struct {
	program atomic.Pointer[tea.Program]
}

func (r *relay) bind(p *tea.Program) { r.program.Store(p) }

func (r *relay) Send(msg tea.Msg) {
	if p := r.program.Load(); p != nil {
		p.Send(msg)
	}
}
