// Package tui is the terminal front end: a Bubble Tea program over the
// article cache. Background events (push updates, notice expiry, accent
// frames, health results) reach the model through Program.Send, and UI
// state changes only inside Update.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matakom/informator-3000/internal/accent"
	"github.com/matakom/informator-3000/internal/article"
	"github.com/matakom/informator-3000/internal/browser"
	"github.com/matakom/informator-3000/internal/cache"
	"github.com/matakom/informator-3000/internal/clock"
	"github.com/matakom/informator-3000/internal/health"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeList mode = iota
	modeFilter
	modeDetail
	modeForm
	modeConfirmDelete
	modeColour
	modeHelp
)

const clockInterval = 50 * time.Millisecond

type App struct {
	ctx     context.Context
	engine  *cache.Engine
	fader   *accent.Fader
	probe   health.Probe
	clock   clock.Clock
	author  string
	openURL func(string) error

	articles []article.Article
	cursor   int
	focus    focusPane
	mode     mode

	width  int
	height int

	filterBar     filterBar
	form          form
	colourInput   textinput.Model
	detail        viewport.Model
	previewScroll int

	now       time.Time
	accent    string
	apiOnline bool
	live      bool
	loading   bool
	busy      bool
	notice    *article.Article
	pendingID int64 // article awaiting delete confirmation
	returnTo  mode  // mode to restore after a form or confirmation
	status    string
	alert     string
}

// Options holds the collaborators the model needs.
type Options struct {
	Context context.Context
	Engine  *cache.Engine
	Fader   *accent.Fader
	// Probe is run once on start for the REST API indicator. Periodic
	// results arrive as messages.
	Probe    health.Probe
	Clock    clock.Clock
	Category string
	// Author pre-fills the compose form.
	Author string
	// OpenURL opens article links. Defaults to browser.Open.
	OpenURL func(string) error
}

func NewApp(opts Options) *App {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}

	openURL := opts.OpenURL
	if openURL == nil {
		openURL = browser.Open
	}

	ci := textinput.New()
	ci.Placeholder = "#00ff00"
	ci.CharLimit = 7
	ci.Prompt = "Colour: "

	a := &App{
		ctx:         ctx,
		engine:      opts.Engine,
		fader:       opts.Fader,
		probe:       opts.Probe,
		clock:       clk,
		author:      opts.Author,
		openURL:     openURL,
		filterBar:   newFilterBar(opts.Category),
		colourInput: ci,
		detail:      viewport.New(0, 0),
		now:         clk.Now(),
		accent:      accent.DefaultColor,
		loading:     true,
	}
	if a.fader != nil {
		a.accent = a.fader.Current()
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadCmd(), a.probeCmd(), a.tickCmd())
}

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg { return clockTickMsg(t) })
}

// loadCmd fetches the initial collection. A failed fetch leaves the list
// empty; the next push signal or a manual refresh tries again.
func (a *App) loadCmd() tea.Cmd {
	engine, ctx := a.engine, a.ctx
	return func() tea.Msg {
		return loadedMsg{err: engine.Refresh(ctx)}
	}
}

func (a *App) probeCmd() tea.Cmd {
	if a.probe == nil {
		return nil
	}
	probe, ctx := a.probe, a.ctx
	return func() tea.Msg {
		return healthMsg{online: probe(ctx)}
	}
}

func (a *App) mutateCmd(op mutation, run func(context.Context) bool) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return mutationDoneMsg{op: op, ok: run(ctx)}
	}
}

// sync copies the engine's view of the world into the model, keeping the
// cursor on the same article when it is still listed.
func (a *App) sync() {
	var currentID int64 = -1
	if a.cursor < len(a.articles) {
		currentID = a.articles[a.cursor].ID
	}

	a.articles = a.engine.Project(a.filterBar.category())
	a.cursor = min(a.cursor, max(0, len(a.articles)-1))
	for i, art := range a.articles {
		if art.ID == currentID {
			a.cursor = i
			break
		}
	}

	a.notice = nil
	if n, ok := a.engine.Notice().Current(); ok {
		a.notice = &n
	}

	// A prompt may be drawn over the detail view, so re-render whenever
	// an article is selected, not only in modeDetail.
	a.refreshDetail()
}

// restoreMode leaves a form or prompt for the mode it was opened from.
func (a *App) restoreMode() {
	a.mode = a.returnTo
	if a.mode == modeDetail {
		a.refreshDetail()
	}
}

func (a *App) refreshDetail() {
	sel, ok := a.engine.Selection().Current()
	if !ok {
		return
	}
	a.detail.SetContent(articleBody(sel, max(a.detail.Width-2, 10)))
}

func (a *App) highlighted() (article.Article, bool) {
	if a.cursor < len(a.articles) {
		return a.articles[a.cursor], true
	}
	return article.Article{}, false
}

// target is the article an edit or delete applies to: the open article
// in the detail view, otherwise the highlighted one.
func (a *App) target() (article.Article, bool) {
	if a.mode == modeDetail {
		return a.engine.Selection().Current()
	}
	return a.highlighted()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.detail.Width = msg.Width
		a.detail.Height = max(msg.Height-4, 3)
		a.form.setSize(msg.Width, msg.Height)
		if a.mode == modeDetail {
			a.refreshDetail()
		}
		return a, nil

	case tea.KeyMsg:
		if a.alert != "" {
			// The alert blocks until acknowledged; the key is consumed.
			a.alert = ""
			return a, nil
		}
		return a.handleKey(msg)

	case clockTickMsg:
		a.now = time.Time(msg)
		return a, a.tickCmd()

	case loadedMsg:
		a.loading = false
		if msg.err != nil {
			a.status = "could not load articles"
		}
		a.sync()
		return a, nil

	case cacheChangedMsg:
		a.sync()
		return a, nil

	case accentMsg:
		a.accent = msg.hex
		return a, nil

	case healthMsg:
		a.apiOnline = msg.online
		return a, nil

	case pushStatusMsg:
		a.live = msg.live
		return a, nil

	case mutationDoneMsg:
		a.busy = false
		if !msg.ok {
			a.alert = "Could not " + msg.op.String() + "."
			if msg.op == mutationDelete {
				a.pendingID = 0
				a.restoreMode()
			}
			return a, nil
		}
		switch msg.op {
		case mutationCreate:
			a.status = "published"
			a.restoreMode()
		case mutationUpdate:
			a.status = "saved"
			a.restoreMode()
		case mutationDelete:
			a.status = "deleted"
			if sel, ok := a.engine.Selection().Current(); ok && sel.ID == a.pendingID {
				a.engine.Selection().Back()
			}
			a.mode = modeList
		}
		a.pendingID = 0
		a.sync()
		return a, nil
	}

	if a.mode == modeForm {
		var cmd tea.Cmd
		switch a.form.focus {
		case fieldContent:
			a.form.content, cmd = a.form.content.Update(msg)
		case fieldTitle:
			a.form.title, cmd = a.form.title.Update(msg)
		case fieldAuthor:
			a.form.author, cmd = a.form.author.Update(msg)
		}
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeDetail:
		return a.handleDetailKey(msg)
	case modeForm:
		return a.handleFormKey(msg)
	case modeConfirmDelete:
		return a.handleConfirmKey(msg)
	case modeColour:
		return a.handleColourKey(msg)
	case modeHelp:
		if key.Matches(msg, keys.Help, keys.Back, keys.Quit) {
			a.restoreMode()
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Down):
		if a.focus == focusList && a.cursor < len(a.articles)-1 {
			a.cursor++
			a.previewScroll = 0
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
	case key.Matches(msg, keys.Up):
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
	case key.Matches(msg, keys.Focus):
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
	case key.Matches(msg, keys.Open):
		if art, ok := a.highlighted(); ok {
			a.engine.Selection().Open(art)
			a.mode = modeDetail
			a.detail.GotoTop()
			a.refreshDetail()
		}
	case key.Matches(msg, keys.Filter):
		a.mode = modeFilter
		a.filterBar.filterMode = true
	case key.Matches(msg, keys.All, keys.Cat1, keys.Cat2, keys.Cat3):
		a.selectCategory(int(msg.String()[0] - '0'))
	default:
		return a.handleCommonKey(msg)
	}
	return a, nil
}

// handleCommonKey covers the actions shared by the list and detail views.
func (a *App) handleCommonKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.New):
		return a, a.openCompose()
	case key.Matches(msg, keys.Edit):
		return a, a.openEdit()
	case key.Matches(msg, keys.Delete):
		if art, ok := a.target(); ok {
			a.pendingID = art.ID
			a.returnTo = a.mode
			a.mode = modeConfirmDelete
		}
	case key.Matches(msg, keys.Colour):
		a.returnTo = a.mode
		a.mode = modeColour
		a.colourInput.SetValue("")
		return a, a.colourInput.Focus()
	case key.Matches(msg, keys.Link):
		a.openLink()
	case key.Matches(msg, keys.Dismiss):
		a.engine.Notice().Dismiss()
		a.notice = nil
	case key.Matches(msg, keys.Refresh):
		a.status = "refreshing"
		return a, a.loadCmd()
	case key.Matches(msg, keys.Help):
		a.returnTo = a.mode
		a.mode = modeHelp
	}
	return a, nil
}

func (a *App) openLink() {
	art, ok := a.target()
	if !ok {
		return
	}
	link, ok := browser.FirstLink(art.Content)
	if !ok {
		a.status = "no link in this article"
		return
	}
	if err := a.openURL(link); err != nil {
		a.status = "could not open " + link
		return
	}
	a.status = "opened " + link
}

func (a *App) selectCategory(i int) {
	if a.filterBar.choose(i) {
		a.cursor = 0
		a.previewScroll = 0
		a.sync()
	}
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.mode = modeList
		a.filterBar.filterMode = false
	case "left", "h":
		if a.filterBar.filterCursor > 0 {
			a.filterBar.filterCursor--
		}
	case "right", "l":
		if a.filterBar.filterCursor < len(a.filterBar.categories)-1 {
			a.filterBar.filterCursor++
		}
	case " ", "enter":
		a.selectCategory(a.filterBar.filterCursor)
		a.mode = modeList
		a.filterBar.filterMode = false
	case "0", "1", "2", "3":
		a.selectCategory(int(msg.String()[0] - '0'))
	}
	return a, nil
}

func (a *App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		// Closing the detail view never refetches.
		a.engine.Selection().Back()
		a.mode = modeList
		return a, nil
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Up, keys.Down):
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd
	}
	return a.handleCommonKey(msg)
}

func (a *App) openCompose() tea.Cmd {
	if !a.apiOnline {
		a.status = "REST API offline, cannot compose"
		return nil
	}
	a.form = newForm(article.Draft{Author: a.author, Category: a.filterBar.category()})
	return a.showForm()
}

func (a *App) openEdit() tea.Cmd {
	art, ok := a.target()
	if !ok {
		return nil
	}
	a.form = newEditForm(art)
	return a.showForm()
}

func (a *App) showForm() tea.Cmd {
	a.form.setSize(a.width, a.height)
	a.returnTo = a.mode
	a.mode = modeForm
	return a.form.focusOn(fieldTitle)
}

func (a *App) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.restoreMode()
		return a, nil
	case "ctrl+s":
		return a, a.submitForm()
	}
	return a, a.form.update(msg)
}

func (a *App) submitForm() tea.Cmd {
	switch {
	case a.busy:
		return nil
	case !a.apiOnline:
		a.status = "REST API offline"
		return nil
	case !a.form.valid():
		a.status = "a title is required"
		return nil
	}

	engine := a.engine
	if !a.form.editing {
		draft := a.form.draft()
		a.busy = true
		return a.mutateCmd(mutationCreate, func(ctx context.Context) bool {
			return engine.Create(ctx, draft)
		})
	}

	patch := a.form.patch()
	if patch.Empty() {
		a.status = "no changes"
		a.restoreMode()
		return nil
	}
	id := a.form.original.ID
	a.busy = true
	return a.mutateCmd(mutationUpdate, func(ctx context.Context) bool {
		return engine.Update(ctx, id, patch)
	})
}

func (a *App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		if a.busy {
			return a, nil
		}
		engine, id := a.engine, a.pendingID
		a.busy = true
		return a, a.mutateCmd(mutationDelete, func(ctx context.Context) bool {
			return engine.Delete(ctx, id)
		})
	case "n", "esc":
		a.pendingID = 0
		a.restoreMode()
	}
	return a, nil
}

func (a *App) handleColourKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.colourInput.Blur()
		a.restoreMode()
		return a, nil
	case "enter":
		value := strings.TrimSpace(a.colourInput.Value())
		if !strings.HasPrefix(value, "#") {
			value = "#" + value
		}
		a.colourInput.Blur()
		a.restoreMode()
		if a.fader == nil {
			return a, nil
		}
		if err := a.fader.Trigger(value); err != nil {
			a.status = "not a colour: " + value
			return a, nil
		}
		a.accent = a.fader.Current()
		return a, nil
	}
	var cmd tea.Cmd
	a.colourInput, cmd = a.colourInput.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(accentColor(a.accent)).Render("  informator")
	}
	if a.alert != "" {
		return renderAlert(a.alert, a.width, a.height)
	}

	header := renderHeader(a.width, a.now, a.accent, a.apiOnline, a.live)

	if a.mode == modeHelp {
		return withBottomBar(a.renderHelp(), a.statusBar(hints(keys.Help, keys.Quit)), a.height)
	}

	// Prompts draw over the screen they were opened from.
	under := a.mode
	if under == modeConfirmDelete || under == modeColour {
		under = a.returnTo
	}

	var body, hint string
	switch under {
	case modeForm:
		body = a.form.view(a.accent, a.apiOnline)
		if a.busy {
			hint = "saving..."
		}
	case modeDetail:
		body = a.detail.View()
		hint = hints(keys.Back, keys.Edit, keys.Delete, keys.Link, keys.Colour, keys.Quit)
	default:
		body = a.renderBrowse()
		hint = hints(keys.Open, keys.Filter, keys.New, keys.Edit, keys.Delete, keys.Colour, keys.Help)
	}
	switch a.mode {
	case modeFilter:
		hint = "←/→ move  enter select  esc close"
	case modeConfirmDelete:
		hint = pendingStyle.Render("Delete this article? y/n")
		if a.busy {
			hint = "deleting..."
		}
	case modeColour:
		hint = a.colourInput.View()
	}

	screen := withBottomBar(lipgloss.JoinVertical(lipgloss.Left, header, body), a.statusBar(hint), a.height)
	if a.notice != nil && a.mode != modeForm {
		screen = overlayBottomRight(screen, renderToast(*a.notice, a.width, a.accent), a.width)
	}
	return screen
}

func (a *App) statusBar(hint string) string {
	message := a.status
	if a.loading {
		message = "loading..."
	}
	return renderStatusBar(len(a.articles), a.filterBar.label(), message, hint, a.width)
}

func (a *App) renderBrowse() string {
	// Header, filter bar, status bar and pane borders.
	contentHeight := max(a.height-1-1-1-2, 3)

	listWidth := int(float64(a.width) * 0.4)
	previewWidth := a.width - listWidth - 1

	filter := a.filterBar.render(a.width, a.accent)

	listContent := renderList(a.articles, a.cursor, contentHeight, listWidth-4, a.now, a.accent)
	listStyle := listPaneStyle
	if a.focus == focusList {
		listStyle = listPaneActiveStyle
	}
	listPane := listStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)

	var selected *article.Article
	if art, ok := a.highlighted(); ok {
		selected = &art
	}
	previewContent := renderPreview(selected, previewWidth-4, contentHeight, a.previewScroll)
	previewStyle := previewPaneStyle
	if a.focus == focusPreview {
		previewStyle = previewPaneActiveStyle
	}
	previewPane := previewStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)

	return lipgloss.JoinVertical(lipgloss.Left, filter, lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane))
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(accentColor(a.accent)).Bold(true).Render("Informator 3000")
	dim := helpDimStyle

	help := title + dim.Render(": keyboard shortcuts") + "\n\n" +
		dim.Render("Browse") + "\n" +
		"  j/k, ↑/↓      Move through the list\n" +
		"  tab           Switch between list and preview\n" +
		"  enter         Open the article\n" +
		"  esc           Back from the article\n" +
		"  f             Category filter (←/→, enter)\n" +
		"  0-3           All, Politika, Sport, Tech\n\n" +
		dim.Render("Articles") + "\n" +
		"  n             New article (needs the REST API)\n" +
		"  e             Edit the article\n" +
		"  d             Delete the article\n" +
		"  o             Open the article's link\n" +
		"  r             Refetch everything\n\n" +
		dim.Render("Compose") + "\n" +
		"  tab           Next field\n" +
		"  ←/→           Change category\n" +
		"  ctrl+s        Save\n" +
		"  esc           Cancel\n\n" +
		dim.Render("General") + "\n" +
		"  c             Flash the accent colour\n" +
		"  x             Dismiss the published toast\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c     Quit"

	return lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, helpCardStyle.Render(help))
}
