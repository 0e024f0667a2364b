package index

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"siteseek/internal/domain"
)

// fakeLoader implements manifest.Loader for tests.
type fakeLoader struct {
	entries map[string]domain.ManifestEntry
	err     error
	calls   atomic.Int32
	block   chan struct{} // when set, Load waits until closed
}

func (f *fakeLoader) Load(ctx context.Context) (map[string]domain.ManifestEntry, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	return f.entries, f.err
}

func (f *fakeLoader) BaseURL() *url.URL {
	u, _ := url.Parse("https://example.test/")
	return u
}

func corpus() map[string]domain.ManifestEntry {
	return map[string]domain.ManifestEntry{
		"reward-target": {
			Title:   "Reward is not the optimization target",
			Content: "the reward signal shapes behavior but reward is not the goal",
			Tags:    []string{"alignment"},
			Authors: []string{"TurnTrout"},
		},
		"gardens": {
			Title:   "Digital gardens",
			Content: "notes grow like plants in a garden of ideas",
			Aliases: []string{"second-brain"},
			Authors: []string{"Maggie"},
		},
		"plain-note": {
			Title:   "A plain note",
			Content: "nothing special here",
		},
	}
}

func TestEnsureReadyBuildsOnce(t *testing.T) {
	fl := &fakeLoader{entries: corpus()}
	ix := New(fl, nil)

	require.False(t, ix.Ready())
	require.NoError(t, ix.EnsureReady(context.Background()))
	require.True(t, ix.Ready())
	require.Equal(t, 3, ix.DocumentCount())

	// Second call is a no-op.
	require.NoError(t, ix.EnsureReady(context.Background()))
	require.Equal(t, int32(1), fl.calls.Load())
}

func TestEnsureReadySingleFlight(t *testing.T) {
	fl := &fakeLoader{entries: corpus(), block: make(chan struct{})}
	ix := New(fl, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ix.EnsureReady(context.Background())
		}()
	}

	close(fl.block)
	wg.Wait()

	require.True(t, ix.Ready())
	require.Equal(t, int32(1), fl.calls.Load(), "concurrent callers must share one build")
}

func TestEnsureReadyFailureLeavesUnreadyAndRetries(t *testing.T) {
	fl := &fakeLoader{err: errors.New("boom")}
	ix := New(fl, nil)

	require.Error(t, ix.EnsureReady(context.Background()))
	require.False(t, ix.Ready())
	require.Empty(t, ix.Search("reward"))

	// Later retry succeeds.
	fl.err = nil
	fl.entries = corpus()
	require.NoError(t, ix.EnsureReady(context.Background()))
	require.True(t, ix.Ready())
}

func TestSearchTitleField(t *testing.T) {
	ix := built(t)

	ids := ix.Search("reward")[FieldTitle]
	require.Len(t, ids, 1)
	doc, ok := ix.Document(ids[0])
	require.True(t, ok)
	require.Equal(t, "reward-target", doc.Slug)
}

func TestSearchSlugAndAliasFields(t *testing.T) {
	ix := built(t)

	perField := ix.Search("gardens")
	require.NotEmpty(t, perField[FieldSlug])

	perField = ix.Search("second-brain")
	require.NotEmpty(t, perField[FieldAliases])
	require.Empty(t, perField[FieldTitle])
}

func TestSearchTagAndAuthorFields(t *testing.T) {
	ix := built(t)

	require.NotEmpty(t, ix.Search("alignment")[FieldTags])
	require.NotEmpty(t, ix.Search("turntrout")[FieldAuthors])
}

func TestSearchContentRequiresAllWords(t *testing.T) {
	ix := built(t)

	require.NotEmpty(t, ix.Search("reward signal")[FieldContent])
	require.Empty(t, ix.Search("reward plants")[FieldContent])
}

func TestSearchContentPrefixMatch(t *testing.T) {
	ix := built(t)
	require.NotEmpty(t, ix.Search("behav")[FieldContent])
}

func TestSearchUnionCollapsesDuplicates(t *testing.T) {
	ix := built(t)

	// "reward" matches both the slug and the title of the same document.
	docs := ix.SearchUnion("reward", 0)
	require.Len(t, docs, 1)
	require.Equal(t, "reward-target", docs[0].Slug)
}

func TestSearchUnionRespectsLimit(t *testing.T) {
	ix := built(t)

	// Empty-ish broad query: "e" appears in several fields.
	docs := ix.SearchUnion("e", 1)
	require.Len(t, docs, 1)
}

func TestSearchUnranked(t *testing.T) {
	ix := built(t)
	require.Empty(t, ix.SearchUnion("zzzzz", 0))
	require.Empty(t, ix.SearchUnion("   ", 0))
}

func TestSearchBeforeBuildReturnsNothing(t *testing.T) {
	ix := New(&fakeLoader{entries: corpus()}, nil)
	require.Empty(t, ix.SearchUnion("reward", 0))
}

func built(t *testing.T) *Index {
	t.Helper()
	ix := New(&fakeLoader{entries: corpus()}, nil)
	require.NoError(t, ix.EnsureReady(context.Background()))
	return ix
}
