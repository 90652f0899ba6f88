// Package cache is the client's authoritative in-memory copy of the
// article collection. Fetch results, pushed entities and local mutations
// all go through the Engine, which keeps the collection de-duplicated by
// id and ordered newest first.
package cache

import (
	"context"
	"log/slog"
	"sync"

	"github.com/matakom/informator-3000/internal/article"
	"github.com/matakom/informator-3000/internal/clock"
	"github.com/matakom/informator-3000/internal/push"
	"github.com/matakom/informator-3000/internal/state"
)

// Source is the remote side of the cache. *gateway.Gateway satisfies it.
type Source interface {
	FetchArticles(ctx context.Context) ([]article.Article, error)
	Create(ctx context.Context, draft article.Draft) bool
	Update(ctx context.Context, id int64, patch article.Patch) bool
	Delete(ctx context.Context, id int64) bool
}

type Options struct {
	Source    Source
	Selection *state.Selection
	Notice    *state.Notice
	Clock     clock.Clock
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
	// OnChange runs after every change to the collection, the selection
	// or the notice, outside the engine's lock.
	OnChange func()
}

type Engine struct {
	source    Source
	selection *state.Selection
	notice    *state.Notice
	clock     clock.Clock
	logger    *slog.Logger
	onChange  func()

	mu       sync.RWMutex
	articles []article.Article
	stale    bool
}

func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	sel := opts.Selection
	if sel == nil {
		sel = &state.Selection{}
	}
	notice := opts.Notice
	if notice == nil {
		notice = state.NewNotice(clk, 0, nil)
	}
	return &Engine{
		source:    opts.Source,
		selection: sel,
		notice:    notice,
		clock:     clk,
		logger:    logger,
		onChange:  opts.OnChange,
		stale:     true,
	}
}

func (e *Engine) Selection() *state.Selection { return e.selection }
func (e *Engine) Notice() *state.Notice       { return e.notice }

func (e *Engine) changed() {
	if e.onChange != nil {
		e.onChange()
	}
}

// Articles returns a copy of the collection, newest first.
func (e *Engine) Articles() []article.Article {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]article.Article(nil), e.articles...)
}

func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.articles)
}

// Stale reports whether the collection is waiting on a refetch.
func (e *Engine) Stale() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stale
}

// Project returns the collection filtered to category; see Filter.
func (e *Engine) Project(category string) []article.Article {
	return Filter(e.Articles(), category)
}

// Filter returns the articles of list whose category equals category, in
// list order. An empty category selects everything.
func Filter(list []article.Article, category string) []article.Article {
	if category == "" {
		return list
	}
	out := make([]article.Article, 0, len(list))
	for _, a := range list {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// merge replaces the entry sharing a's id or prepends a, then re-sorts.
func merge(list []article.Article, a article.Article) []article.Article {
	for i := range list {
		if list[i].ID == a.ID {
			list[i] = a
			article.SortNewestFirst(list)
			return list
		}
	}
	list = append([]article.Article{a}, list...)
	article.SortNewestFirst(list)
	return list
}

// Merge applies one incoming article to the collection. Merging the same
// article twice leaves the collection as merging it once.
func (e *Engine) Merge(a article.Article) {
	e.mu.Lock()
	e.articles = merge(e.articles, a)
	e.mu.Unlock()

	e.selection.Sync(a)
	e.changed()
}

// Replace installs a freshly fetched collection. Records sharing an id
// collapse to the last one.
func (e *Engine) Replace(list []article.Article) {
	next := make([]article.Article, 0, len(list))
	index := make(map[int64]int, len(list))
	for _, a := range list {
		if i, ok := index[a.ID]; ok {
			next[i] = a
			continue
		}
		index[a.ID] = len(next)
		next = append(next, a)
	}
	article.SortNewestFirst(next)

	e.mu.Lock()
	e.articles = next
	e.stale = false
	e.mu.Unlock()

	if sel, ok := e.selection.Current(); ok {
		for _, a := range next {
			if a.ID == sel.ID {
				e.selection.Sync(a)
				break
			}
		}
	}
	e.changed()
}

// Seed installs the initial collection.
func (e *Engine) Seed(list []article.Article) { e.Replace(list) }

// Refresh refetches the whole collection. On failure the current
// collection is kept and stays stale.
func (e *Engine) Refresh(ctx context.Context) error {
	list, err := e.source.FetchArticles(ctx)
	if err != nil {
		e.logger.Error("refreshing articles", "error", err)
		return err
	}
	e.Replace(list)
	return nil
}

// Invalidate marks the collection stale and refetches it. Failures are
// logged, never returned.
func (e *Engine) Invalidate(ctx context.Context) {
	e.mu.Lock()
	e.stale = true
	e.mu.Unlock()
	_ = e.Refresh(ctx)
}

// HandlePush applies one push payload and reports how it was classified.
func (e *Engine) HandlePush(ctx context.Context, p push.Payload) Classification {
	c := Classify(p, e.clock.Now())
	switch c.Kind {
	case FullEntity:
		e.logger.Debug("merging pushed article", "id", c.Article.ID)
		e.notice.Show(c.Article)
		e.Merge(c.Article)
	case Signal:
		e.logger.Debug("push signal, refetching", "signal", c.Text)
		e.Invalidate(ctx)
		if c.Created {
			e.announceNewest(ctx)
		}
	}
	return c
}

// announceNewest fetches the collection once more to find the article a
// creation signal referred to. The signal itself carries no payload.
func (e *Engine) announceNewest(ctx context.Context) {
	list, err := e.source.FetchArticles(ctx)
	if err != nil {
		e.logger.Error("fetching newest article for notice", "error", err)
		return
	}
	if len(list) == 0 {
		return
	}
	article.SortNewestFirst(list)
	e.notice.Show(list[0])
	e.changed()
}

// Create publishes draft. On success the collection is refetched; nothing
// is predicted locally.
func (e *Engine) Create(ctx context.Context, draft article.Draft) bool {
	if !e.source.Create(ctx, draft) {
		return false
	}
	e.Invalidate(ctx)
	return true
}

func (e *Engine) Update(ctx context.Context, id int64, patch article.Patch) bool {
	if !e.source.Update(ctx, id, patch) {
		return false
	}
	e.Invalidate(ctx)
	return true
}

func (e *Engine) Delete(ctx context.Context, id int64) bool {
	if !e.source.Delete(ctx, id) {
		return false
	}
	e.Invalidate(ctx)
	return true
}
