package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"siteseek/internal/highlight"
	"siteseek/internal/pagestate"
)

const pageMarkdown = `+++
title = "Reward is not the optimization target"
authors = ["TurnTrout"]
no_dropcap = true
+++

# Reward

The reward signal shapes behavior.

See [the sequel](followup) and [the site](https://other.example/abs).

- [ ] first box
- [x] second box

` + "```" + `
func main() {
	println("hi")
}
` + "```" + `
`

func newTestFetcher(t *testing.T, states *pagestate.Store) (*Fetcher, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/reward-target.md":
			_, _ = w.Write([]byte(pageMarkdown))
		case "/slow.md":
			_, _ = w.Write([]byte("+++\ntitle = \"Slow\"\n+++\n\nslow body\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	return NewFetcher(base, srv.Client(), states), &hits
}

func TestFetchContentParsesFrontmatter(t *testing.T) {
	f, _ := newTestFetcher(t, nil)

	content, err := f.FetchContent(context.Background(), "reward-target")
	require.NoError(t, err)
	require.Equal(t, "Reward is not the optimization target", content.Frontmatter.Title)
	require.Equal(t, []string{"TurnTrout"}, content.Frontmatter.Authors)
	require.True(t, content.Frontmatter.NoDropcap)
	require.NotEmpty(t, content.Elements)
}

func TestFetchContentRebasesRelativeLinks(t *testing.T) {
	f, _ := newTestFetcher(t, nil)

	content, err := f.FetchContent(context.Background(), "reward-target")
	require.NoError(t, err)

	var hrefs []string
	var collect func(n *highlight.Node)
	collect = func(n *highlight.Node) {
		if n.Tag == "a" {
			hrefs = append(hrefs, n.Attr("href"))
		}
		for _, c := range n.Children {
			collect(c)
		}
	}
	for _, el := range content.Elements {
		collect(el)
	}

	require.Len(t, hrefs, 2)
	require.Contains(t, hrefs[0], "://", "relative link is rebased to an absolute URL")
	require.Contains(t, hrefs[0], "/followup")
	require.Equal(t, "https://other.example/abs", hrefs[1], "absolute link untouched")
}

func TestFetchContentRestoresCheckboxState(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.toml")
	// Persisted state flips the first box on and the second off.
	persisted := "[checkboxes.reward-target]\n0 = true\n1 = false\n"
	require.NoError(t, os.WriteFile(statePath, []byte(persisted), 0644))
	states := pagestate.NewStore(statePath)

	f, _ := newTestFetcher(t, states)
	content, err := f.FetchContent(context.Background(), "reward-target")
	require.NoError(t, err)

	var boxes []*highlight.Node
	var collect func(n *highlight.Node)
	collect = func(n *highlight.Node) {
		if n.Class == highlight.ClassCheckbox {
			boxes = append(boxes, n)
		}
		for _, c := range n.Children {
			collect(c)
		}
	}
	for _, el := range content.Elements {
		collect(el)
	}

	require.Len(t, boxes, 2)
	require.Equal(t, "true", boxes[0].Attr("checked"))
	require.Equal(t, "false", boxes[1].Attr("checked"))
}

func TestFetchContentConvertsCodeBlocks(t *testing.T) {
	f, _ := newTestFetcher(t, nil)

	content, err := f.FetchContent(context.Background(), "reward-target")
	require.NoError(t, err)

	var pre *highlight.Node
	for _, el := range content.Elements {
		if el.Tag == "pre" {
			pre = el
		}
	}
	require.NotNil(t, pre)
	require.Contains(t, pre.PlainText(), "func main()")
	require.Contains(t, pre.PlainText(), `println("hi")`)
}

func TestFetchContentMemoized(t *testing.T) {
	f, hits := newTestFetcher(t, nil)

	for i := 0; i < 3; i++ {
		_, err := f.FetchContent(context.Background(), "reward-target")
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), hits.Load(), "one network fetch per slug per session")
}

func TestFetchContentConcurrentCallersShareOneFetch(t *testing.T) {
	f, hits := newTestFetcher(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.FetchContent(context.Background(), "slow")
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), hits.Load(), "concurrent fetches for one slug must collapse")
}

func TestFetchContentErrorIsMemoizedToo(t *testing.T) {
	f, hits := newTestFetcher(t, nil)

	_, err := f.FetchContent(context.Background(), "missing")
	require.Error(t, err)
	_, err = f.FetchContent(context.Background(), "missing")
	require.Error(t, err)
	require.Equal(t, int32(1), hits.Load())
}

func TestSplitFrontmatterWithoutFence(t *testing.T) {
	fm, body, err := splitFrontmatter([]byte("# Just a heading\n"))
	require.NoError(t, err)
	require.Zero(t, fm)
	require.Equal(t, "# Just a heading\n", string(body))
}

func TestSplitFrontmatterUnterminated(t *testing.T) {
	_, _, err := splitFrontmatter([]byte("+++\ntitle = \"x\"\n"))
	require.Error(t, err)
}
