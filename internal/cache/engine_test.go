package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matakom/informator-3000/internal/article"
	"github.com/matakom/informator-3000/internal/clock"
	"github.com/matakom/informator-3000/internal/push"
	"github.com/matakom/informator-3000/internal/state"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeSource serves a fixed collection and records mutations.
type fakeSource struct {
	mu      sync.Mutex
	list    []article.Article
	err     error
	fetches int
	ok      bool
	creates []article.Draft
	updates map[int64]article.Patch
	deletes []int64
}

func (f *fakeSource) FetchArticles(ctx context.Context) ([]article.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	out := append([]article.Article(nil), f.list...)
	article.SortNewestFirst(out)
	return out, nil
}

func (f *fakeSource) Create(ctx context.Context, d article.Draft) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, d)
	return f.ok
}

func (f *fakeSource) Update(ctx context.Context, id int64, p article.Patch) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updates == nil {
		f.updates = make(map[int64]article.Patch)
	}
	f.updates[id] = p
	return f.ok
}

func (f *fakeSource) Delete(ctx context.Context, id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.ok
}

func at(id int64, title string, age time.Duration) article.Article {
	created := epoch.Add(-age)
	return article.Article{
		ID: id, Title: title, Author: "Ann", Content: "body", Category: "Tech",
		CreatedAt: created, UpdatedAt: created,
	}
}

func testEngine(src *fakeSource) (*Engine, *clock.FakeClock, *int) {
	c := clock.Fake(epoch)
	changes := 0
	e := New(Options{
		Source:   src,
		Notice:   state.NewNotice(c, 5*time.Second, nil),
		Clock:    c,
		OnChange: func() { changes++ },
	})
	return e, c, &changes
}

func assertSorted(t *testing.T, list []article.Article) {
	t.Helper()
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.After(list[i-1].CreatedAt) {
			t.Fatalf("collection not newest-first at %d: %v after %v", i, list[i].CreatedAt, list[i-1].CreatedAt)
		}
	}
}

func assertSame(t *testing.T, got, want []article.Article) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d articles, got %d", len(want), len(got))
	}
	for i := range want {
		if !article.Equal(got[i], want[i]) {
			t.Errorf("position %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMergeReplacesByID(t *testing.T) {
	e, _, _ := testEngine(&fakeSource{})
	e.Seed([]article.Article{at(1, "A", time.Hour)})

	updated := at(1, "B", time.Hour)
	e.Merge(updated)

	got := e.Articles()
	if len(got) != 1 {
		t.Fatalf("expected one article after merging the same id, got %d", len(got))
	}
	if got[0].Title != "B" {
		t.Errorf("expected title B, got %q", got[0].Title)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	e, _, _ := testEngine(&fakeSource{})
	e.Seed([]article.Article{at(1, "A", time.Hour), at(2, "B", 2*time.Hour)})

	incoming := at(3, "C", 90*time.Minute)
	e.Merge(incoming)
	once := e.Articles()
	e.Merge(incoming)
	twice := e.Articles()

	assertSame(t, twice, once)
}

func TestMergeKeepsNewestFirst(t *testing.T) {
	e, _, _ := testEngine(&fakeSource{})
	e.Seed([]article.Article{at(1, "A", time.Hour), at(2, "B", 3*time.Hour)})

	for _, a := range []article.Article{
		at(3, "C", 2*time.Hour),
		at(4, "D", 0),
		at(5, "E", 10*time.Hour),
		at(2, "B2", 3*time.Hour),
	} {
		e.Merge(a)
		assertSorted(t, e.Articles())
	}

	got := e.Articles()
	want := []int64{4, 1, 3, 2, 5}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected id %d, got %d", i, id, got[i].ID)
		}
	}
}

func TestReplaceDeduplicatesKeepingLast(t *testing.T) {
	e, _, _ := testEngine(&fakeSource{})
	e.Replace([]article.Article{at(1, "first", time.Hour), at(2, "B", 2*time.Hour), at(1, "last", time.Hour)})

	got := e.Articles()
	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}
	if got[0].ID != 1 || got[0].Title != "last" {
		t.Errorf("expected the last record for id 1, got %+v", got[0])
	}
	if e.Stale() {
		t.Error("expected fresh collection after Replace")
	}
}

func TestFilter(t *testing.T) {
	tech := article.Article{ID: 1, Category: "Tech"}
	sport := article.Article{ID: 2, Category: "Sport"}
	list := []article.Article{tech, sport}

	got := Filter(list, "Tech")
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("expected only the Tech entry, got %+v", got)
	}

	all := Filter(list, "")
	if len(all) != 2 || all[0].ID != 1 || all[1].ID != 2 {
		t.Errorf("expected both entries in order, got %+v", all)
	}

	if got := Filter(list, "Politika"); len(got) != 0 {
		t.Errorf("expected nothing for Politika, got %+v", got)
	}
}

func TestProjectFollowsCollection(t *testing.T) {
	e, _, _ := testEngine(&fakeSource{})
	e.Seed([]article.Article{at(1, "A", time.Hour)})
	if got := e.Project("Sport"); len(got) != 0 {
		t.Fatalf("expected no Sport articles, got %d", len(got))
	}

	s := at(2, "S", 2*time.Hour)
	s.Category = "Sport"
	e.Merge(s)
	if got := e.Project("Sport"); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("expected the merged Sport article, got %+v", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		raw     string
		kind    Kind
		created bool
	}{
		{`{"id": 5, "title": "x"}`, FullEntity, false},
		{`{"ID": 5}`, Ignored, false},
		{`{"title": "no id"}`, Ignored, false},
		{`article created`, Signal, true},
		{`Article UPDATED`, Signal, false},
		{`"delete"`, Signal, false},
		{`ping`, Ignored, false},
		{`heartbeat`, Ignored, false},
		{`[1, 2]`, Ignored, false},
		{`{not json`, Ignored, false},
	}
	for _, tt := range tests {
		c := Classify(push.Parse("", tt.raw), epoch)
		if c.Kind != tt.kind {
			t.Errorf("Classify(%q) = %v, want %v", tt.raw, c.Kind, tt.kind)
		}
		if c.Created != tt.created {
			t.Errorf("Classify(%q).Created = %v, want %v", tt.raw, c.Created, tt.created)
		}
	}

	c := Classify(push.Parse("article", `{"id": 5, "Title": "pascal"}`), epoch)
	if c.Article.ID != 5 || c.Article.Title != "pascal" {
		t.Errorf("expected normalized entity, got %+v", c.Article)
	}
}

func TestHandlePushEntityMergesAndNotifies(t *testing.T) {
	src := &fakeSource{}
	e, _, changes := testEngine(src)
	e.Seed([]article.Article{at(1, "A", time.Hour)})
	*changes = 0

	c := e.HandlePush(context.Background(), push.Parse("article",
		`{"id": 2, "title": "pushed", "createdAt": "2026-03-01T12:00:00Z"}`))
	if c.Kind != FullEntity {
		t.Fatalf("expected entity, got %v", c.Kind)
	}
	got := e.Articles()
	if len(got) != 2 || got[0].ID != 2 {
		t.Errorf("expected pushed article first, got %+v", got)
	}
	n, ok := e.Notice().Current()
	if !ok || n.ID != 2 {
		t.Errorf("expected notice for article 2, got %+v %v", n, ok)
	}
	if *changes == 0 {
		t.Error("expected OnChange after merge")
	}
	if src.fetches != 0 {
		t.Errorf("entity events must not refetch, got %d fetches", src.fetches)
	}
}

func TestHandlePushSignalRefetches(t *testing.T) {
	src := &fakeSource{list: []article.Article{at(1, "A", time.Hour), at(2, "B", 2*time.Hour)}}
	e, _, _ := testEngine(src)
	e.Seed([]article.Article{at(1, "A", time.Hour), at(3, "gone", 3*time.Hour)})

	e.HandlePush(context.Background(), push.Parse("delete", "article deleted"))

	if src.fetches != 1 {
		t.Errorf("expected one refetch, got %d", src.fetches)
	}
	got := e.Articles()
	if len(got) != 2 || got[1].ID != 2 {
		t.Errorf("expected refetched collection, got %+v", got)
	}
	if _, ok := e.Notice().Current(); ok {
		t.Error("delete signal must not raise a notice")
	}
}

func TestHandlePushCreateSignalAnnouncesNewest(t *testing.T) {
	src := &fakeSource{list: []article.Article{at(1, "A", time.Hour), at(9, "fresh", 0)}}
	e, _, _ := testEngine(src)

	e.HandlePush(context.Background(), push.Parse("create", "article created"))

	if src.fetches != 2 {
		t.Errorf("expected refetch plus notice fetch, got %d fetches", src.fetches)
	}
	n, ok := e.Notice().Current()
	if !ok || n.ID != 9 {
		t.Errorf("expected notice for the newest article, got %+v %v", n, ok)
	}
}

func TestHandlePushPingChangesNothing(t *testing.T) {
	src := &fakeSource{list: []article.Article{at(1, "A", time.Hour)}}
	e, _, changes := testEngine(src)
	e.Seed([]article.Article{at(2, "B", time.Hour)})
	*changes = 0
	before := e.Articles()

	e.HandlePush(context.Background(), push.Parse("ping", "ping"))

	if *changes != 0 {
		t.Errorf("ping must not signal a change, got %d", *changes)
	}
	if src.fetches != 0 {
		t.Errorf("ping must not refetch, got %d", src.fetches)
	}
	assertSame(t, e.Articles(), before)
}

func TestSelectionFollowsMergedEntity(t *testing.T) {
	e, _, _ := testEngine(&fakeSource{})
	orig := at(7, "old", time.Hour)
	e.Seed([]article.Article{orig})
	e.Selection().Open(orig)

	fresh := orig
	fresh.Title = "new"
	fresh.UpdatedAt = orig.UpdatedAt.Add(time.Minute)
	e.HandlePush(context.Background(), push.Parse("update",
		`{"id": 7, "title": "new", "author": "Ann", "content": "body", "category": "Tech",
		  "createdAt": "`+orig.CreatedAt.Format(time.RFC3339)+`",
		  "updatedAt": "`+fresh.UpdatedAt.Format(time.RFC3339)+`"}`))

	sel, ok := e.Selection().Current()
	if !ok {
		t.Fatal("selection lost")
	}
	if sel.ID != 7 || sel.Title != "new" {
		t.Errorf("expected refreshed selection for id 7, got %+v", sel)
	}

	other := at(8, "other", 0)
	e.Merge(other)
	if sel, _ := e.Selection().Current(); sel.ID != 7 {
		t.Errorf("merging another id must not change the selection, got %d", sel.ID)
	}
}

func TestSelectionFollowsRefetch(t *testing.T) {
	src := &fakeSource{list: []article.Article{at(7, "server copy", time.Hour)}}
	e, _, _ := testEngine(src)
	e.Selection().Open(at(7, "local copy", time.Hour))

	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	sel, _ := e.Selection().Current()
	if sel.Title != "server copy" {
		t.Errorf("expected selection refreshed from refetch, got %q", sel.Title)
	}

	src.list = nil
	e.Refresh(context.Background())
	if _, ok := e.Selection().Current(); !ok {
		t.Error("a refetch without the selected id should leave the selection open")
	}
}

func TestRefreshFailureKeepsCollection(t *testing.T) {
	src := &fakeSource{err: errors.New("unreachable")}
	e, _, _ := testEngine(src)
	e.Seed([]article.Article{at(1, "A", time.Hour)})

	e.Invalidate(context.Background())

	if e.Len() != 1 {
		t.Errorf("expected collection kept on failed refetch, got %d", e.Len())
	}
	if !e.Stale() {
		t.Error("expected collection to stay stale after a failed refetch")
	}
}

func TestLocalMutations(t *testing.T) {
	src := &fakeSource{ok: true, list: []article.Article{at(1, "A", time.Hour)}}
	e, _, _ := testEngine(src)

	if !e.Create(context.Background(), article.Draft{Title: "new"}) {
		t.Fatal("expected create to succeed")
	}
	if src.fetches != 1 || e.Len() != 1 {
		t.Errorf("expected refetch after create, fetches=%d len=%d", src.fetches, e.Len())
	}

	title := "B"
	e.Update(context.Background(), 1, article.Patch{Title: &title})
	e.Delete(context.Background(), 1)
	if src.fetches != 3 {
		t.Errorf("expected a refetch per successful mutation, got %d", src.fetches)
	}
	if _, ok := src.updates[1]; !ok || len(src.deletes) != 1 {
		t.Errorf("mutations not forwarded: %+v %+v", src.updates, src.deletes)
	}
}

func TestFailedMutationLeavesCacheAlone(t *testing.T) {
	src := &fakeSource{ok: false, list: []article.Article{at(2, "server", 0)}}
	e, _, changes := testEngine(src)
	e.Seed([]article.Article{at(1, "A", time.Hour)})
	*changes = 0

	if e.Create(context.Background(), article.Draft{Title: "x"}) {
		t.Error("expected create to report failure")
	}
	if e.Delete(context.Background(), 1) {
		t.Error("expected delete to report failure")
	}
	if src.fetches != 0 || *changes != 0 {
		t.Errorf("failed mutations must not touch the cache: fetches=%d changes=%d", src.fetches, *changes)
	}
	if got := e.Articles(); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("cache changed: %+v", got)
	}
}
