// Package preview fetches page fragments, parses them into a previewable
// node tree, and drives the live preview pane.
package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gtext "github.com/yuin/goldmark/text"
	"golang.org/x/sync/singleflight"

	"siteseek/internal/domain"
	"siteseek/internal/highlight"
	"siteseek/internal/logging"
	"siteseek/internal/pagestate"
)

// PageContent is the parsed, previewable form of one fetched page fragment.
type PageContent struct {
	Slug        string
	URL         string
	Frontmatter domain.Frontmatter
	Elements    []*highlight.Node // top-level previewable elements, unhighlighted
}

// ContentFetcher is the interface the preview manager depends on.
type ContentFetcher interface {
	FetchContent(ctx context.Context, slug string) (*PageContent, error)
}

// cacheEntry memoizes one fetch outcome, success or failure.
type cacheEntry struct {
	content *PageContent
	err     error
}

// Fetcher retrieves and memoizes page fragments. At most one network fetch
// happens per slug per session; concurrent callers share the in-flight fetch.
type Fetcher struct {
	base   *url.URL
	client *http.Client
	states *pagestate.Store
	md     goldmark.Markdown
	group  singleflight.Group

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewFetcher creates a fetcher for the given site base URL. states may be nil.
func NewFetcher(base *url.URL, client *http.Client, states *pagestate.Store) *Fetcher {
	if base == nil {
		panic("preview: base URL is required")
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{
		base:   base,
		client: client,
		states: states,
		md:     goldmark.New(goldmark.WithExtensions(extension.TaskList)),
		cache:  make(map[string]cacheEntry),
	}
}

// FetchContent returns the memoized content for slug, fetching and parsing it
// on first use. The parsed result is cached before being returned, so later
// callers never duplicate the network request or the parse.
func (f *Fetcher) FetchContent(ctx context.Context, slug string) (*PageContent, error) {
	f.mu.RLock()
	entry, ok := f.cache[slug]
	f.mu.RUnlock()
	if ok {
		return entry.content, entry.err
	}

	v, err, _ := f.group.Do(slug, func() (interface{}, error) {
		// A caller that lost the race to the cache check may arrive after
		// the flight completed; re-check before fetching again.
		f.mu.RLock()
		entry, ok := f.cache[slug]
		f.mu.RUnlock()
		if ok {
			return entry.content, entry.err
		}

		content, err := f.fetch(ctx, slug)

		f.mu.Lock()
		f.cache[slug] = cacheEntry{content: content, err: err}
		f.mu.Unlock()

		return content, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*PageContent), nil
}

func (f *Fetcher) fetch(ctx context.Context, slug string) (*PageContent, error) {
	log := logging.Logger(logging.CompPreview)

	pageURL := f.base.ResolveReference(&url.URL{Path: slug + ".md"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("page request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("page fetch %q: %w", slug, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page fetch %q: unexpected status %s", slug, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("page read %q: %w", slug, err)
	}

	fm, markdown, err := splitFrontmatter(body)
	if err != nil {
		return nil, fmt.Errorf("page parse %q: %w", slug, err)
	}

	doc := f.md.Parser().Parse(gtext.NewReader(markdown))
	elements := convertDocument(doc, markdown, pageURL, slug, f.states)

	log.Debug("page fetched", "slug", slug, "elements", len(elements))
	return &PageContent{
		Slug:        slug,
		URL:         pageURL.String(),
		Frontmatter: fm,
		Elements:    elements,
	}, nil
}
