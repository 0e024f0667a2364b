package manifest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const manifestJSON = `{
	"reward-target": {
		"title": "Reward is not the optimization target",
		"content": "the reward signal shapes behavior",
		"tags": ["alignment"],
		"authors": ["TurnTrout"]
	},
	"gardens": {
		"title": "Digital gardens",
		"content": "notes grow like plants"
	},
	"broken": {
		"tags": ["orphan"]
	}
}`

func newTestLoader(t *testing.T, handler http.HandlerFunc) (Loader, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	return NewLoader(base, srv.Client(), nil), &hits
}

func TestLoadDecodesManifest(t *testing.T) {
	l, _ := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search.json", r.URL.Path)
		_, _ = w.Write([]byte(manifestJSON))
	})

	entries, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Contains(t, entries, "reward-target")
	require.Equal(t, "Reward is not the optimization target", entries["reward-target"].Title)
	require.Equal(t, []string{"TurnTrout"}, entries["reward-target"].Authors)
}

func TestLoadSkipsMalformedEntries(t *testing.T) {
	l, _ := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(manifestJSON))
	})

	entries, err := l.Load(context.Background())
	require.NoError(t, err)
	require.NotContains(t, entries, "broken", "entry with no title and no content is skipped")
	require.Len(t, entries, 2)
}

func TestLoadFetchesOncePerSession(t *testing.T) {
	l, hits := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(manifestJSON))
	})

	for i := 0; i < 3; i++ {
		_, err := l.Load(context.Background())
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), hits.Load())
}

func TestLoadConcurrentCallersShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	l, hits := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(manifestJSON))
	})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.Load(context.Background())
		}()
	}
	close(release)
	wg.Wait()

	require.LessOrEqual(t, hits.Load(), int32(2),
		"concurrent loads must collapse into the in-flight fetch")
	_, err := l.Load(context.Background())
	require.NoError(t, err)
}

func TestLoadServerErrorIsNotLatched(t *testing.T) {
	fail := true
	l, hits := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "down", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(manifestJSON))
	})

	_, err := l.Load(context.Background())
	require.Error(t, err)

	fail = false
	entries, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, int32(2), hits.Load())
}

func TestLoadDecodeError(t *testing.T) {
	l, _ := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	_, err := l.Load(context.Background())
	require.Error(t, err)
}
