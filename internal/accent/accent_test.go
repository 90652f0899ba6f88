package accent

import (
	"sync"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matakom/informator-3000/internal/clock"
)

type colours struct {
	mu   sync.Mutex
	seen []string
}

func (c *colours) record(hex string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = append(c.seen, hex)
}

func (c *colours) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.seen...)
}

func testFader(t *testing.T) (*Fader, *clock.FakeClock, *colours) {
	t.Helper()
	c := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	rec := &colours{}
	f, err := New(Options{Clock: c, OnChange: rec.record})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(f.Close)
	return f, c, rec
}

func TestNewRejectsInvalidDefault(t *testing.T) {
	if _, err := New(Options{Default: "red"}); err == nil {
		t.Fatal("expected error for non-hex default")
	}
}

func TestStartsOnDefault(t *testing.T) {
	f, _, rec := testFader(t)
	if got := f.Current(); got != DefaultColor {
		t.Errorf("expected %s, got %s", DefaultColor, got)
	}
	if len(rec.all()) != 0 {
		t.Error("no change expected before a trigger")
	}
}

func TestTriggerSnapsHoldsAndFades(t *testing.T) {
	f, c, rec := testFader(t)

	if err := f.Trigger("#00FF00"); err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if got := f.Current(); got != "#00ff00" {
		t.Fatalf("expected snap to #00ff00, got %s", got)
	}

	c.Advance(DefaultHold - time.Millisecond)
	if got := f.Current(); got != "#00ff00" {
		t.Fatalf("expected colour held, got %s", got)
	}

	c.Advance(time.Millisecond + DefaultFade/2)
	mid := f.Current()
	if mid == "#00ff00" || mid == DefaultColor {
		t.Fatalf("expected an intermediate colour half way, got %s", mid)
	}

	c.Advance(DefaultFade)
	if got := f.Current(); got != DefaultColor {
		t.Fatalf("expected fade to end on %s, got %s", DefaultColor, got)
	}
	if c.Pending() != 0 {
		t.Errorf("expected no pending timers after the fade, got %d", c.Pending())
	}

	seen := rec.all()
	if seen[0] != "#00ff00" || seen[len(seen)-1] != DefaultColor {
		t.Errorf("unexpected first/last colours: %s .. %s", seen[0], seen[len(seen)-1])
	}
	// Green falls from 255 toward 0x22 and never rises again.
	prev := 1.0
	for _, hex := range seen {
		col, err := colorful.Hex(hex)
		if err != nil {
			t.Fatalf("bad colour %q: %v", hex, err)
		}
		if col.G > prev+1e-9 {
			t.Fatalf("green channel rose to %f after %f", col.G, prev)
		}
		prev = col.G
	}
}

func TestFadeFramesFollowFrameInterval(t *testing.T) {
	f, c, rec := testFader(t)
	f.Trigger("#0000ff")
	c.Advance(DefaultHold)
	before := len(rec.all())

	c.Advance(DefaultFrame)
	seen := rec.all()
	if len(seen) != before+1 {
		t.Fatalf("expected exactly one frame, got %d", len(seen)-before)
	}
	from, _ := colorful.Hex("#0000ff")
	base, _ := colorful.Hex(DefaultColor)
	want := from.BlendRgb(base, float64(DefaultFrame)/float64(DefaultFade)).Hex()
	if got := seen[len(seen)-1]; got != want {
		t.Errorf("first frame: got %s, want %s", got, want)
	}
	if c.Pending() != 1 {
		t.Errorf("expected one pending frame, got %d", c.Pending())
	}
}

func TestRetriggerDuringHoldRestarts(t *testing.T) {
	f, c, _ := testFader(t)

	f.Trigger("#00ff00")
	c.Advance(time.Second)
	f.Trigger("#0000ff")
	if c.Pending() != 1 {
		t.Fatalf("expected the first hold cancelled, %d timers pending", c.Pending())
	}

	c.Advance(DefaultHold - time.Millisecond)
	if got := f.Current(); got != "#0000ff" {
		t.Fatalf("expected second colour held for a full hold, got %s", got)
	}

	c.Advance(time.Millisecond + DefaultFrame)
	from, _ := colorful.Hex("#0000ff")
	base, _ := colorful.Hex(DefaultColor)
	want := from.BlendRgb(base, float64(DefaultFrame)/float64(DefaultFade)).Hex()
	if got := f.Current(); got != want {
		t.Errorf("expected fade from the second colour, got %s want %s", got, want)
	}
}

func TestRetriggerDuringFade(t *testing.T) {
	f, c, _ := testFader(t)

	f.Trigger("#00ff00")
	c.Advance(DefaultHold + 3*time.Second)
	f.Trigger("#ffffff")
	if got := f.Current(); got != "#ffffff" {
		t.Fatalf("expected snap during fade, got %s", got)
	}
	c.Advance(DefaultHold - time.Millisecond)
	if got := f.Current(); got != "#ffffff" {
		t.Fatalf("expected frame loop cancelled, got %s", got)
	}
	c.Advance(DefaultFade + time.Second)
	if got := f.Current(); got != DefaultColor {
		t.Errorf("expected default after the fade, got %s", got)
	}
}

func TestTriggerInvalidColour(t *testing.T) {
	f, c, rec := testFader(t)
	for _, bad := range []string{"", "00ff00", "#zzzzzz", "#12345"} {
		if err := f.Trigger(bad); err == nil {
			t.Errorf("Trigger(%q): expected error", bad)
		}
	}
	if f.Current() != DefaultColor || len(rec.all()) != 0 || c.Pending() != 0 {
		t.Error("invalid colours must not change anything")
	}
}

func TestCloseCancelsAnimation(t *testing.T) {
	f, c, rec := testFader(t)
	f.Trigger("#00ff00")
	c.Advance(DefaultHold + time.Second)

	f.Close()
	if c.Pending() != 0 {
		t.Fatalf("expected no pending timers after Close, got %d", c.Pending())
	}
	n := len(rec.all())
	c.Advance(DefaultFade)
	if len(rec.all()) != n {
		t.Error("frames ran after Close")
	}

	if err := f.Trigger("#0000ff"); err != nil {
		t.Fatalf("Trigger after Close: %v", err)
	}
	if c.Pending() != 0 || len(rec.all()) != n {
		t.Error("Trigger after Close must be a no-op")
	}
}
