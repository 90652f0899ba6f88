// Package state holds the short-lived view state derived from the article
// cache: the latest-published notice and the article open in the detail
// view.
package state

import (
	"sync"
	"time"

	"github.com/matakom/informator-3000/internal/article"
	"github.com/matakom/informator-3000/internal/clock"
)

// DefaultNoticeWindow is how long a notice stays up.
const DefaultNoticeWindow = 5 * time.Second

// Notice holds at most one article. Each Show restarts the countdown;
// when it runs out the notice clears itself.
type Notice struct {
	clock    clock.Clock
	window   time.Duration
	onChange func()

	mu      sync.Mutex
	current *article.Article
	timer   *clock.Timer
	gen     uint64
	closed  bool
}

// NewNotice returns an empty notice. onChange, if set, runs after the
// notice expires on its own; it is not called for Show or Dismiss.
func NewNotice(clk clock.Clock, window time.Duration, onChange func()) *Notice {
	if clk == nil {
		clk = clock.Real()
	}
	if window <= 0 {
		window = DefaultNoticeWindow
	}
	return &Notice{clock: clk, window: window, onChange: onChange}
}

func (n *Notice) Show(a article.Article) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.timer.Stop()
	n.current = &a
	n.gen++
	gen := n.gen
	n.timer = n.clock.AfterFunc(n.window, func() { n.expire(gen) })
}

func (n *Notice) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || n.current == nil {
		n.mu.Unlock()
		return
	}
	n.current = nil
	n.timer = nil
	onChange := n.onChange
	n.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

func (n *Notice) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.timer.Stop()
	n.timer = nil
	n.current = nil
	n.gen++
}

func (n *Notice) Current() (article.Article, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return article.Article{}, false
	}
	return *n.current, true
}

// Close stops the countdown for good. Later Show calls are ignored.
func (n *Notice) Close() {
	n.Dismiss()
	n.mu.Lock()
	n.closed = true
	n.mu.Unlock()
}

// Selection is the article open in the detail view, if any.
type Selection struct {
	mu      sync.Mutex
	current *article.Article
}

func (s *Selection) Open(a article.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &a
}

// Back closes the detail view. It does not trigger a refetch.
func (s *Selection) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

func (s *Selection) Current() (article.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return article.Article{}, false
	}
	return *s.current, true
}

// Sync replaces the selected article with a when they share an id and
// reports whether it did.
func (s *Selection) Sync(a article.Article) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.ID != a.ID {
		return false
	}
	s.current = &a
	return true
}
