package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matakom/informator-3000/internal/accent"
	"github.com/matakom/informator-3000/internal/cache"
	"github.com/matakom/informator-3000/internal/clock"
	"github.com/matakom/informator-3000/internal/config"
	"github.com/matakom/informator-3000/internal/gateway"
	"github.com/matakom/informator-3000/internal/health"
	"github.com/matakom/informator-3000/internal/push"
	"github.com/matakom/informator-3000/internal/state"
)

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Cfg *config.Config
	// Category overrides the configured start category.
	Category string
	// Logger receives every component's logs. If nil, slog.Default() is
	// used; it should not write to the terminal.
	Logger *slog.Logger
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
// Every background task is stopped before it returns.
func Run(ctx context.Context, opts RunOpts) error {
	cfg := opts.Cfg
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := clock.Real()
	events := &relay{}
	changed := func() { events.Send(cacheChangedMsg{}) }

	gw, err := gateway.New(gateway.Config{
		BaseURL: cfg.APIURL,
		Timeout: cfg.RequestTimeoutDuration(),
		Logger:  logger,
		Clock:   clk,
	})
	if err != nil {
		return err
	}

	notice := state.NewNotice(clk, cfg.NoticeDuration(), changed)
	defer notice.Close()

	engine := cache.New(cache.Options{
		Source:   gw,
		Notice:   notice,
		Clock:    clk,
		Logger:   logger,
		OnChange: changed,
	})

	fader, err := accent.New(accent.Options{
		Default:  cfg.Accent.Default,
		Hold:     cfg.AccentHoldDuration(),
		Fade:     cfg.AccentFadeDuration(),
		Clock:    clk,
		OnChange: func(hex string) { events.Send(accentMsg{hex: hex}) },
	})
	if err != nil {
		return err
	}
	defer fader.Close()

	adapter, err := push.New(push.Config{
		URL:    gw.BaseURL() + push.StreamPath,
		Logger: logger,
		Clock:  clk,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		adapter.Disconnect()
	}()

	category := cfg.Category
	if opts.Category != "" {
		category = opts.Category
	}
	app := NewApp(Options{
		Context:  ctx,
		Engine:   engine,
		Fader:    fader,
		Probe:    gw.CheckHealth,
		Clock:    clk,
		Category: category,
		Author:   cfg.Author,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	events.bind(p)

	cell := push.NewCell(func(connCtx context.Context, payload push.Payload) {
		c := engine.HandlePush(connCtx, payload)
		logger.Debug("push event", "event", payload.Event, "kind", c.Kind)
	})
	adapter.Connect(cell.Handle, func(live bool) { events.Send(pushStatusMsg{live: live}) })

	go health.Poll(ctx, clk, cfg.HealthDuration(), gw.CheckHealth, func(up bool) {
		events.Send(healthMsg{online: up})
	})

	logger.Info("tui started", "api", gw.BaseURL(), "category", category)
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
