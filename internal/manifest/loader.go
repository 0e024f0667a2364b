// Package manifest fetches the build-time content manifest: the mapping from
// page slug to searchable metadata produced by the site's build pipeline.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"siteseek/internal/domain"
	"siteseek/internal/eventbus"
	"siteseek/internal/logging"
)

const manifestPath = "search.json"

// Loader fetches the content manifest exactly once per session.
type Loader interface {
	Load(ctx context.Context) (map[string]domain.ManifestEntry, error)
	BaseURL() *url.URL
}

// loader is the concrete implementation
type loader struct {
	base   *url.URL
	client *http.Client
	bus    eventbus.EventBus

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]domain.ManifestEntry
}

// NewLoader creates a manifest loader for the given site base URL.
// The bus may be nil.
func NewLoader(base *url.URL, client *http.Client, bus eventbus.EventBus) Loader {
	if base == nil {
		panic("manifest: base URL is required")
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &loader{base: base, client: client, bus: bus}
}

// BaseURL returns the site base URL the loader was built with.
func (l *loader) BaseURL() *url.URL {
	return l.base
}

// Load fetches and decodes the manifest. A successful fetch is cached for the
// rest of the session; concurrent callers share one in-flight fetch. Failures
// are not latched, so a later attempt can still succeed.
func (l *loader) Load(ctx context.Context) (map[string]domain.ManifestEntry, error) {
	l.mu.RLock()
	cached := l.entries
	l.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := l.group.Do("manifest", func() (interface{}, error) {
		entries, err := l.fetch(ctx)
		if err != nil {
			if l.bus != nil {
				l.bus.Publish(eventbus.ManifestFailedEvent{Err: err})
			}
			return nil, err
		}

		l.mu.Lock()
		l.entries = entries
		l.mu.Unlock()

		if l.bus != nil {
			l.bus.Publish(eventbus.ManifestLoadedEvent{Entries: entries})
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]domain.ManifestEntry), nil
}

func (l *loader) fetch(ctx context.Context) (map[string]domain.ManifestEntry, error) {
	log := logging.Logger(logging.CompManifest)

	u := l.base.ResolveReference(&url.URL{Path: manifestPath})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("manifest request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("manifest fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest fetch: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("manifest read: %w", err)
	}

	var raw map[string]domain.ManifestEntry
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("manifest decode: %w", err)
	}

	// Malformed entries are skipped, not fatal: one bad page must not take
	// down the whole index.
	entries := make(map[string]domain.ManifestEntry, len(raw))
	for slug, e := range raw {
		if slug == "" || (e.Title == "" && e.Content == "") {
			log.Warn("skipping malformed manifest entry", "slug", slug)
			continue
		}
		entries[slug] = e
	}

	log.Info("manifest loaded", "url", u.String(), "entries", len(entries))
	return entries, nil
}
