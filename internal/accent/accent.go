// Package accent drives the header's accent colour: a trigger snaps the
// colour to a target, holds it, then fades it back to the default one
// frame at a time.
package accent

import (
	"fmt"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matakom/informator-3000/internal/clock"
)

const (
	DefaultColor = "#d42228"
	DefaultHold  = 2 * time.Second
	DefaultFade  = 10 * time.Second
	DefaultFrame = 16 * time.Millisecond
)

type Options struct {
	// Default is the resting colour. Defaults to DefaultColor.
	Default string
	Hold    time.Duration
	Fade    time.Duration
	Frame   time.Duration
	Clock   clock.Clock
	// OnChange receives every displayed colour, outside the fader's lock.
	OnChange func(hex string)
}

// Fader owns the displayed accent colour. At most one timer, either the
// hold or the next frame, is pending at any time.
type Fader struct {
	base     colorful.Color
	baseHex  string
	hold     time.Duration
	fade     time.Duration
	frame    time.Duration
	clock    clock.Clock
	onChange func(string)

	mu      sync.Mutex
	current string
	timer   *clock.Timer
	gen     uint64
	closed  bool
}

func New(opts Options) (*Fader, error) {
	def := opts.Default
	if def == "" {
		def = DefaultColor
	}
	base, err := ParseHex(def)
	if err != nil {
		return nil, fmt.Errorf("parsing default accent %q: %w", def, err)
	}
	f := &Fader{
		base:     base,
		baseHex:  base.Hex(),
		hold:     opts.Hold,
		fade:     opts.Fade,
		frame:    opts.Frame,
		clock:    opts.Clock,
		onChange: opts.OnChange,
	}
	if f.hold <= 0 {
		f.hold = DefaultHold
	}
	if f.fade <= 0 {
		f.fade = DefaultFade
	}
	if f.frame <= 0 {
		f.frame = DefaultFrame
	}
	if f.clock == nil {
		f.clock = clock.Real()
	}
	f.current = f.baseHex
	return f, nil
}

// ParseHex accepts #rgb and #rrggbb, in either case.
func ParseHex(hex string) (colorful.Color, error) {
	if len(hex) != 4 && len(hex) != 7 {
		return colorful.Color{}, fmt.Errorf("want #rgb or #rrggbb, got %d characters", len(hex))
	}
	return colorful.Hex(hex)
}

// Current returns the displayed colour as lower-case #rrggbb.
func (f *Fader) Current() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Default returns the resting colour.
func (f *Fader) Default() string { return f.baseHex }

// Trigger cancels any running hold or fade, shows hex immediately and
// schedules the fade back to the default. An invalid colour leaves the
// fader untouched.
func (f *Fader) Trigger(hex string) error {
	target, err := ParseHex(hex)
	if err != nil {
		return fmt.Errorf("parsing accent %q: %w", hex, err)
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.timer.Stop()
	f.gen++
	gen := f.gen
	f.current = target.Hex()
	f.timer = f.clock.AfterFunc(f.hold, func() { f.startFade(gen, target) })
	shown := f.current
	f.mu.Unlock()

	f.notify(shown)
	return nil
}

func (f *Fader) startFade(gen uint64, from colorful.Color) {
	start := f.clock.Now()
	f.schedule(gen, func() { f.step(gen, from, start) })
}

// step renders one frame and chains the next until the fade completes.
func (f *Fader) step(gen uint64, from colorful.Color, start time.Time) {
	progress := float64(f.clock.Now().Sub(start)) / float64(f.fade)
	done := progress >= 1

	shown := f.baseHex
	if !done {
		shown = from.BlendRgb(f.base, progress).Hex()
	}

	f.mu.Lock()
	if gen != f.gen || f.closed {
		f.mu.Unlock()
		return
	}
	f.current = shown
	if done {
		f.timer = nil
	}
	f.mu.Unlock()

	f.notify(shown)
	if !done {
		f.schedule(gen, func() { f.step(gen, from, start) })
	}
}

func (f *Fader) schedule(gen uint64, next func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen || f.closed {
		return
	}
	f.timer = f.clock.AfterFunc(f.frame, next)
}

func (f *Fader) notify(hex string) {
	if f.onChange != nil {
		f.onChange(hex)
	}
}

// Close cancels the hold timer and the frame loop. Later triggers are
// ignored.
func (f *Fader) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timer.Stop()
	f.timer = nil
	f.gen++
	f.closed = true
}
