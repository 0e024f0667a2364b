// Package index builds the per-field weighted document index from the content
// manifest and answers per-field ranked queries against it.
package index

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"siteseek/internal/domain"
	"siteseek/internal/eventbus"
	"siteseek/internal/logging"
	"siteseek/internal/manifest"
)

// Field identifies one independently searchable document field.
type Field string

const (
	FieldSlug    Field = "slug"
	FieldAliases Field = "aliases"
	FieldTitle   Field = "title"
	FieldTags    Field = "tags"
	FieldAuthors Field = "authors"
	FieldContent Field = "content"
)

// FieldPriority is the fixed order in which per-field match sets are unioned
// into the result list.
var FieldPriority = []Field{FieldSlug, FieldAliases, FieldTitle, FieldTags, FieldAuthors, FieldContent}

// indexedDoc carries the prepared (lowercased, tokenized) searchable text.
type indexedDoc struct {
	doc           domain.Document
	fields        map[Field]string // lowercased field text
	contentTokens []string         // lowercased body tokens, document order
}

// Index is the lazily built search index. Safe for concurrent use.
type Index struct {
	loader manifest.Loader
	bus    eventbus.EventBus
	group  singleflight.Group

	mu    sync.RWMutex
	ready bool
	docs  []indexedDoc
}

// New creates an unbuilt index over the given manifest loader.
// The bus may be nil.
func New(loader manifest.Loader, bus eventbus.EventBus) *Index {
	if loader == nil {
		panic("index: manifest loader is required")
	}
	return &Index{loader: loader, bus: bus}
}

// Ready reports whether the index has been built.
func (ix *Index) Ready() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.ready
}

// DocumentCount returns the number of indexed documents.
func (ix *Index) DocumentCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

// Document returns the indexed document with the given id.
func (ix *Index) Document(id int) (domain.Document, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if id < 0 || id >= len(ix.docs) {
		return domain.Document{}, false
	}
	return ix.docs[id].doc, true
}

// EnsureReady builds the index if it has not been built yet. Idempotent and
// single-flight: a build already in progress is shared by every concurrent
// caller. On failure the index stays unready so a later call can retry.
func (ix *Index) EnsureReady(ctx context.Context) error {
	if ix.Ready() {
		return nil
	}

	_, err, _ := ix.group.Do("build", func() (interface{}, error) {
		if ix.Ready() {
			return nil, nil
		}
		return nil, ix.build(ctx)
	})
	return err
}

func (ix *Index) build(ctx context.Context) error {
	log := logging.Logger(logging.CompIndex)

	entries, err := ix.loader.Load(ctx)
	if err != nil {
		log.Error("index build failed", "error", err)
		if ix.bus != nil {
			ix.bus.Publish(eventbus.IndexFailedEvent{Err: err})
		}
		return err
	}

	// Deterministic ids: slug order.
	slugs := make([]string, 0, len(entries))
	for slug := range entries {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	docs := make([]indexedDoc, 0, len(slugs))
	for id, slug := range slugs {
		e := entries[slug]
		authors := strings.Join(e.Authors, ", ")

		docs = append(docs, indexedDoc{
			doc: domain.Document{
				ID:      id,
				Slug:    slug,
				Title:   e.Title,
				Content: e.Content,
				Authors: authors,
			},
			fields: map[Field]string{
				FieldSlug:    strings.ToLower(slug),
				FieldAliases: strings.ToLower(strings.Join(e.Aliases, " ")),
				FieldTitle:   strings.ToLower(e.Title),
				FieldTags:    strings.ToLower(strings.Join(e.Tags, " ")),
				FieldAuthors: strings.ToLower(authors),
			},
			contentTokens: strings.Fields(strings.ToLower(e.Content)),
		})
	}

	ix.mu.Lock()
	ix.docs = docs
	ix.ready = true
	ix.mu.Unlock()

	log.Info("index built", "documents", len(docs))
	if ix.bus != nil {
		ix.bus.Publish(eventbus.IndexReadyEvent{DocumentCount: len(docs)})
	}
	return nil
}

// Search returns, per field, the ordered set of document ids matching term.
// Substring fields (slug, aliases, title, tags, authors) match the whole
// trimmed term case-insensitively and rank by match position; the content
// field matches when every query word is a prefix of some body token and
// ranks by occurrence count.
func (ix *Index) Search(term string) map[Field][]int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	results := make(map[Field][]int, len(FieldPriority))
	if !ix.ready {
		return results
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return results
	}

	for _, field := range FieldPriority {
		if field == FieldContent {
			results[field] = ix.searchContent(needle)
			continue
		}
		results[field] = ix.searchSubstring(field, needle)
	}
	return results
}

// SearchUnion merges the per-field match sets in fixed field-priority order,
// collapsing duplicates by document id. A non-positive limit means unlimited.
func (ix *Index) SearchUnion(term string, limit int) []domain.Document {
	perField := ix.Search(term)

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	seen := make(map[int]bool)
	var out []domain.Document
	for _, field := range FieldPriority {
		for _, id := range perField[field] {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, ix.docs[id].doc)
			if limit > 0 && len(out) >= limit {
				return out
			}
		}
	}
	return out
}

type scored struct {
	id    int
	score int // lower is better
}

func (ix *Index) searchSubstring(field Field, needle string) []int {
	var hits []scored
	for _, d := range ix.docs {
		pos := strings.Index(d.fields[field], needle)
		if pos < 0 {
			continue
		}
		hits = append(hits, scored{id: d.doc.ID, score: pos})
	}
	return order(hits)
}

func (ix *Index) searchContent(needle string) []int {
	words := strings.Fields(needle)
	if len(words) == 0 {
		return nil
	}

	var hits []scored
	for _, d := range ix.docs {
		occurrences := 0
		matched := true
		for _, w := range words {
			n := 0
			for _, tok := range d.contentTokens {
				if strings.HasPrefix(tok, w) {
					n++
				}
			}
			if n == 0 {
				matched = false
				break
			}
			occurrences += n
		}
		if matched {
			// Negative so denser documents order first.
			hits = append(hits, scored{id: d.doc.ID, score: -occurrences})
		}
	}
	return order(hits)
}

func order(hits []scored) []int {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score < hits[j].score
		}
		return hits[i].id < hits[j].id
	})
	ids := make([]int, len(hits))
	for i, h := range hits {
		ids[i] = h.id
	}
	return ids
}
