package preview

import (
	"context"
	"sync"

	"siteseek/internal/domain"
	"siteseek/internal/eventbus"
	"siteseek/internal/highlight"
	"siteseek/internal/logging"
)

// AnchorFraction is where the first highlighted match is placed vertically in
// the preview viewport after a render.
const AnchorFraction = 0.4

// Rendered is the preview pane's displayable state for one slug.
type Rendered struct {
	Slug        string
	URL         string
	Frontmatter domain.Frontmatter
	Elements    []*highlight.Node // highlighted clone of the cached tree
	HasMatch    bool
	Err         error
}

// Manager owns the preview pane state. Only the most recently requested
// slug's resolved fetch may mutate it; late arrivals from earlier requests
// are dropped.
type Manager struct {
	fetcher ContentFetcher
	bus     eventbus.EventBus
	notify  func() // repaint hook, called after every applied change

	mu        sync.Mutex
	visible   bool
	current   string // most recently requested slug
	view      *Rendered
	destroyed bool
}

// NewManager creates a preview manager. The bus and notify may be nil.
func NewManager(fetcher ContentFetcher, bus eventbus.EventBus, notify func()) *Manager {
	if fetcher == nil {
		panic("preview: fetcher is required")
	}
	if notify == nil {
		notify = func() {}
	}
	return &Manager{fetcher: fetcher, bus: bus, notify: notify}
}

// Update points the preview at target. A nil target hides the pane. Otherwise
// the pane becomes visible immediately, target's slug is recorded as current,
// and the fetch+render runs asynchronously; the result is applied only if the
// slug is still current when it resolves.
func (m *Manager) Update(target *domain.ResultEntry, term string) {
	if target == nil || target.NoMatch {
		m.Hide()
		return
	}

	slug := target.Slug

	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return
	}
	m.visible = true
	m.current = slug
	m.mu.Unlock()

	go m.load(slug, term)
}

func (m *Manager) load(slug, term string) {
	log := logging.Logger(logging.CompPreview)

	content, err := m.fetcher.FetchContent(context.Background(), slug)

	m.mu.Lock()
	defer m.mu.Unlock()

	// Stale-write suppression: an intervening request wins, even when this
	// fetch resolved later.
	if m.destroyed || m.current != slug {
		log.Debug("dropping stale preview", "slug", slug, "current", m.current)
		return
	}

	if err != nil {
		log.Error("preview fetch failed", "slug", slug, "error", err)
		m.view = &Rendered{Slug: slug, Err: err}
		if m.bus != nil {
			m.bus.Publish(eventbus.PreviewFailedEvent{Slug: slug, Err: err})
		}
		m.notify()
		return
	}

	rendered := &Rendered{
		Slug:        slug,
		URL:         content.URL,
		Frontmatter: content.Frontmatter,
		Elements:    make([]*highlight.Node, 0, len(content.Elements)),
	}
	for _, el := range content.Elements {
		clone := el.Clone()
		highlight.TextNodes(clone, term)
		if highlight.HasMark(clone) {
			rendered.HasMatch = true
		}
		rendered.Elements = append(rendered.Elements, clone)
	}

	m.view = rendered
	if m.bus != nil {
		m.bus.Publish(eventbus.PreviewLoadedEvent{Slug: slug})
	}
	m.notify()
}

// Visible reports whether the pane is shown.
func (m *Manager) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// Current returns the most recently requested slug.
func (m *Manager) Current() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// View returns the last applied render, or nil while loading.
func (m *Manager) View() *Rendered {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.visible {
		return nil
	}
	return m.view
}

// Hide hides the pane and forgets the current request.
func (m *Manager) Hide() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = false
	m.current = ""
	m.view = nil
}

// Destroy permanently disables the manager; in-flight loads become no-ops.
// Called on navigation teardown so late fetches cannot touch a dead UI.
func (m *Manager) Destroy() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyed = true
	m.visible = false
	m.view = nil
}
