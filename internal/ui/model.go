// Package ui is the terminal front end: the search overlay, the result card
// column, the live preview pane, and the page pager.
package ui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"siteseek/internal/config"
	"siteseek/internal/domain"
	"siteseek/internal/eventbus"
	"siteseek/internal/highlight"
	"siteseek/internal/index"
	"siteseek/internal/logging"
	"siteseek/internal/preview"
	"siteseek/internal/ui/input"
	"siteseek/internal/ui/input/types"
	"siteseek/internal/ui/views"
)

// pointerLockDuration is how long hover focus stays disabled after a
// keyboard navigation, so the mouse resting on a card cannot steal focus
// from the keys.
const pointerLockDuration = 300 * time.Millisecond

type indexState int

const (
	indexIdle indexState = iota
	indexBuilding
	indexReady
	indexFailed
)

// Model represents the UI state
type Model struct {
	bus     eventbus.EventBus
	cfg     *config.Config
	idx     *index.Index
	fetcher preview.ContentFetcher
	manager *preview.Manager
	styles  *views.Styles

	inputHandler *input.Handler
	pagerOps     *PagerOps
	program      *tea.Program

	width  int
	height int

	searchOpen bool
	query      string
	querySeq   int

	results    []domain.ResultEntry
	focused    int
	regions    []views.CardRegion
	cardsTop   int // first frame line of the card column, for hit-testing
	cardsWidth int // card column width, for hit-testing

	idxState  indexState
	statusErr string

	pointerLocked bool
	lockSeq       int

	previewEnabled bool
	inPagerMode    bool
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, idx *index.Index, fetcher preview.ContentFetcher) *Model {
	if idx == nil {
		panic("ui: index is required")
	}
	m := &Model{
		bus:            bus,
		cfg:            cfg,
		idx:            idx,
		fetcher:        fetcher,
		styles:         views.NewStyles(),
		inputHandler:   input.New(cfg.UI.ToggleKey),
		pagerOps:       NewPagerOps(),
		previewEnabled: cfg.UI.PreviewEnabled,
	}

	m.manager = preview.NewManager(fetcher, bus, func() {
		if m.program != nil {
			m.program.Send(previewUpdatedMsg{})
		}
	})

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pagerOps.SetProgram(p)
}

// Manager exposes the preview manager for teardown.
func (m *Model) Manager() *preview.Manager {
	return m.manager
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}
		actions, inputCmd := m.inputHandler.HandleKey(msg, m)
		cmd := m.executeActions(actions)
		return m, tea.Batch(inputCmd, cmd)

	case tea.MouseMsg:
		if m.inPagerMode {
			return m, nil
		}
		return m, m.handleMouse(msg)

	case debounceMsg:
		// Only the latest revision's timer may run the query.
		if msg.seq != m.querySeq || !m.searchOpen {
			return m, nil
		}
		m.bus.Publish(eventbus.QueryChangedEvent{Term: msg.term})
		return m, m.runQueryCmd(msg.seq, msg.term)

	case resultsMsg:
		if msg.seq != m.querySeq || !m.searchOpen {
			return m, nil
		}
		m.applyResults(msg.term, msg.results)
		return m, nil

	case indexBuiltMsg:
		if msg.err != nil {
			m.idxState = indexFailed
			return m, nil
		}
		m.idxState = indexReady
		if m.searchOpen && m.query != "" {
			return m, m.runQueryCmd(m.querySeq, m.query)
		}
		return m, nil

	case unlockPointerMsg:
		if msg.seq == m.lockSeq {
			m.pointerLocked = false
		}
		return m, nil

	case previewUpdatedMsg:
		return m, nil

	case pagerDoneMsg:
		m.inPagerMode = false
		if msg.err != nil {
			logging.Logger(logging.CompUI).Error("pager failed", "slug", msg.slug, "error", msg.err)
			m.statusErr = "failed to open page"
		}
		return m, nil

	case EventMsg:
		return m, m.handleEvent(msg.Event)
	}

	return m, m.inputHandler.Update(msg)
}

func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.ManifestFailedEvent:
		m.statusErr = "search failed"
		logging.Logger(logging.CompUI).Error("manifest load failed", "error", e.Err)
	case eventbus.ErrorEvent:
		m.statusErr = e.Message
	}
	return nil
}

func (m *Model) executeActions(actions []types.Action) tea.Cmd {
	var cmds []tea.Cmd

	for _, action := range actions {
		switch a := action.(type) {
		case types.ChangeModeAction:
			if a.Mode == types.ModeSearch {
				cmds = append(cmds, m.openSearch())
			} else {
				m.closeSearch()
			}

		case types.UpdateTextAction:
			cmds = append(cmds, m.setQuery(a.Text))

		case types.CancelTextAction:
			m.clearResults()

		case types.NavigateAction:
			cmds = append(cmds, m.moveFocus(a.Direction))

		case types.OpenResultAction:
			cmds = append(cmds, m.openResult(a.Slug))

		case types.TogglePreviewAction:
			m.previewEnabled = !m.previewEnabled
			if m.previewEnabled {
				m.updatePreview()
			} else {
				m.manager.Hide()
			}

		case types.QuitAction:
			cmds = append(cmds, m.quit())
		}
	}

	return tea.Batch(cmds...)
}

// openSearch shows the overlay and kicks the lazy index build.
func (m *Model) openSearch() tea.Cmd {
	m.searchOpen = true
	m.statusErr = ""

	if m.idx.Ready() {
		m.idxState = indexReady
		return nil
	}
	if m.idxState == indexBuilding {
		return nil
	}
	m.idxState = indexBuilding
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return indexBuiltMsg{err: m.idx.EnsureReady(ctx)}
	}
}

func (m *Model) closeSearch() {
	m.searchOpen = false
	m.clearResults()
}

func (m *Model) clearResults() {
	m.query = ""
	m.querySeq++
	m.results = nil
	m.regions = nil
	m.focused = 0
	m.manager.Hide()
}

// setQuery starts the debounce window for a new query revision.
func (m *Model) setQuery(text string) tea.Cmd {
	if text == m.query {
		return nil
	}
	m.query = text
	m.querySeq++

	if strings.TrimSpace(text) == "" {
		m.results = nil
		m.regions = nil
		m.focused = 0
		m.manager.Hide()
		return nil
	}

	seq := m.querySeq
	debounce := time.Duration(m.cfg.UI.DebounceMS) * time.Millisecond
	return tea.Tick(debounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq, term: text}
	})
}

func (m *Model) runQueryCmd(seq int, term string) tea.Cmd {
	if !m.idx.Ready() {
		// The build finishing re-runs the pending query.
		return nil
	}
	return func() tea.Msg {
		return resultsMsg{
			seq:     seq,
			term:    term,
			results: buildResults(m.idx, term, m.cfg.UI.MaxResults),
		}
	}
}

func (m *Model) applyResults(term string, results []domain.ResultEntry) {
	m.results = results
	m.focused = 0
	m.bus.Publish(eventbus.ResultsUpdatedEvent{Term: term, Results: results})
	m.updatePreview()
}

// moveFocus shifts keyboard focus and locks pointer hover for a beat.
func (m *Model) moveFocus(direction string) tea.Cmd {
	if len(m.results) == 0 {
		return nil
	}

	switch direction {
	case "up":
		if m.focused > 0 {
			m.focused--
		}
	case "down":
		if m.focused < len(m.results)-1 {
			m.focused++
		}
	}

	m.updatePreview()

	m.pointerLocked = true
	m.lockSeq++
	seq := m.lockSeq
	return tea.Tick(pointerLockDuration, func(time.Time) tea.Msg {
		return unlockPointerMsg{seq: seq}
	})
}

func (m *Model) updatePreview() {
	if !m.previewEnabled || !m.searchOpen || m.focused >= len(m.results) {
		m.manager.Hide()
		return
	}
	target := &m.results[m.focused]
	if !target.NoMatch {
		m.bus.Publish(eventbus.PreviewRequestedEvent{Slug: target.Slug, Term: m.query})
	}
	m.manager.Update(target, m.query)
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.X >= m.cardsWidth {
		return nil
	}
	line := msg.Y - m.cardsTop

	switch msg.Action {
	case tea.MouseActionMotion:
		if m.pointerLocked {
			return nil
		}
		idx := views.HitTest(m.regions, line)
		// Leaving the cards keeps the last focus; only entering a card moves it.
		if idx >= 0 && idx != m.focused {
			m.focused = idx
			m.updatePreview()
		}

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		idx := views.HitTest(m.regions, line)
		if idx >= 0 && !m.results[idx].NoMatch {
			m.focused = idx
			return m.openResult(m.results[idx].Slug)
		}
	}

	return nil
}

// openResult renders the full page with match highlighting and hands it to
// the pager, logging the destination URL with its text-fragment directive.
func (m *Model) openResult(slug string) tea.Cmd {
	if slug == "" || m.inPagerMode {
		return nil
	}
	m.inPagerMode = true

	term := m.query
	width := m.width
	if width <= 0 {
		width = 80
	}

	// Activation dismisses the search UI.
	m.inputHandler.Reset()
	m.closeSearch()

	return func() tea.Msg {
		log := logging.Logger(logging.CompUI)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		content, err := m.fetcher.FetchContent(ctx, slug)
		if err != nil {
			return pagerDoneMsg{slug: slug, err: err}
		}

		dest := fragmentURL(content.URL, term)
		m.bus.Publish(eventbus.PageOpenRequestedEvent{Slug: slug, Term: term, URL: dest})
		log.Info("opening page", "slug", slug, "url", dest)

		rendered := &preview.Rendered{
			Slug:        content.Slug,
			URL:         content.URL,
			Frontmatter: content.Frontmatter,
		}
		for _, el := range content.Elements {
			clone := el.Clone()
			highlight.TextNodes(clone, term)
			rendered.Elements = append(rendered.Elements, clone)
		}

		var page strings.Builder
		page.WriteString(m.styles.Dim.Render(dest))
		page.WriteString("\n\n")
		page.WriteString(m.styles.RenderPage(rendered, width-2))

		err = m.pagerOps.ShowPage(page.String())
		return pagerDoneMsg{slug: slug, err: err}
	}
}

// fragmentURL appends the text-fragment directive so the destination scrolls
// to the first match when opened in a browser.
func fragmentURL(pageURL, term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return pageURL
	}
	return pageURL + "#:~:text=" + url.QueryEscape(term)
}

func (m *Model) quit() tea.Cmd {
	m.manager.Destroy()
	return tea.Quit
}

// Context interface for the input handler

func (m *Model) FocusedIndex() int { return m.focused }

func (m *Model) ResultCount() int { return len(m.results) }

func (m *Model) SearchOpen() bool { return m.searchOpen }

func (m *Model) FocusedSlug() string {
	if m.focused < len(m.results) {
		return m.results[m.focused].Slug
	}
	return ""
}

func (m *Model) FocusedIsNoMatch() bool {
	return m.focused < len(m.results) && m.results[m.focused].NoMatch
}

func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	if !m.searchOpen {
		return m.viewHome()
	}
	return m.viewSearch()
}

func (m *Model) viewHome() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("siteseek"))
	b.WriteString("\n")
	if m.cfg.SiteURL != "" {
		b.WriteString(m.styles.Dim.Render(m.cfg.SiteURL))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(fmt.Sprintf("%s search · q quit", m.cfg.UI.ToggleKey)))
	if m.statusErr != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Error.Render(m.statusErr))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m *Model) viewSearch() string {
	barWidth := m.width - 2
	if barWidth < 20 {
		barWidth = 20
	}

	var queryLine string
	if ti := m.inputHandler.TextInput(); ti != nil {
		queryLine = m.styles.Prompt.Render("Search: ") + ti.View()
	} else {
		queryLine = m.styles.Prompt.Render("Search: ") + m.query
	}
	bar := m.styles.SearchBar.Width(barWidth).Render(queryLine)

	status := m.statusLine()

	// The card column starts after the bar and the status line.
	m.cardsTop = lipgloss.Height(bar) + 1

	cardWidth := m.width
	previewWidth := 0
	showPreview := m.previewEnabled && m.manager.Visible()
	if showPreview {
		cardWidth = m.width * 2 / 5
		previewWidth = m.width - cardWidth
	}

	cards, regions := m.styles.RenderCards(m.results, m.focused, cardWidth)
	m.regions = regions
	m.cardsWidth = cardWidth

	body := cards
	if showPreview {
		paneHeight := m.height - m.cardsTop - 1
		if paneHeight < 5 {
			paneHeight = 5
		}
		pane := m.styles.RenderPreview(m.manager.View(), previewWidth, paneHeight)
		body = lipgloss.JoinHorizontal(lipgloss.Top, cards, pane)
	}

	return bar + "\n" + status + "\n" + body
}

func (m *Model) statusLine() string {
	switch {
	case m.statusErr != "":
		return m.styles.Error.Render(m.statusErr)
	case m.idxState == indexBuilding:
		return m.styles.Status.Render("Indexing...")
	case m.idxState == indexFailed:
		return m.styles.Error.Render("search failed")
	case m.query == "":
		return m.styles.Status.Render("Type to search · esc to close")
	case len(m.results) == 0:
		return m.styles.Status.Render("Searching...")
	default:
		n := len(m.results)
		if n == 1 && m.results[0].NoMatch {
			n = 0
		}
		return m.styles.Status.Render(fmt.Sprintf("%d results · enter opens · ctrl+p preview", n))
	}
}
