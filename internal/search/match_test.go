package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchMarksSingleOccurrence(t *testing.T) {
	got := Match("reward", "Reward is not the optimization target", false)
	require.Equal(t, "<mark>Reward</mark> is not the optimization target", got)
}

func TestMatchCaseInsensitivePreservesOriginalCase(t *testing.T) {
	got := Match("GO", "Go is fun, go figure", false)
	require.Equal(t, "<mark>Go</mark> is fun, <mark>go</mark> figure", got)
}

func TestMatchPrefersLongestPhrase(t *testing.T) {
	// "hello world" must win over its constituent words.
	got := Match("hello world", "say hello world again", false)
	require.Equal(t, "say <mark>hello world</mark> again", got)
}

func TestMatchFallsBackToSingleWords(t *testing.T) {
	got := Match("hello world", "world peace and hello there", false)
	require.Equal(t, "<mark>world</mark> peace and <mark>hello</mark> there", got)
}

func TestMatchIdempotentOnMarkedText(t *testing.T) {
	once := Match("reward", "the reward signal", false)
	twice := Match("reward", once, false)
	require.Equal(t, once, twice, "re-matching marked text must not double-wrap")
}

func TestMatchNoOccurrences(t *testing.T) {
	text := "nothing to see here"
	require.Equal(t, text, Match("absent", text, false))
}

func TestMatchShortTextNotTrimmed(t *testing.T) {
	text := "short text with a reward inside"
	got := Match("reward", text, true)
	require.NotContains(t, got, "...")
	require.Contains(t, got, "<mark>reward</mark>")
}

func TestMatchTrimsLongTextToWindow(t *testing.T) {
	// 60 filler words with the match in the middle.
	words := make([]string, 0, 61)
	for i := 0; i < 30; i++ {
		words = append(words, "filler")
	}
	words = append(words, "reward")
	for i := 0; i < 30; i++ {
		words = append(words, "padding")
	}
	text := strings.Join(words, " ")

	got := Match("reward", text, true)
	require.Contains(t, got, "<mark>reward</mark>")

	// Both sides were truncated.
	require.True(t, strings.HasPrefix(got, "..."), "left side truncated: %q", got)
	require.True(t, strings.HasSuffix(got, "..."), "right side truncated: %q", got)

	// Bounded to the window size.
	plain := Strip(got)
	plain = strings.TrimPrefix(plain, "...")
	plain = strings.TrimSuffix(plain, "...")
	require.LessOrEqual(t, len(strings.Fields(plain)), ContextWindowWords)
}

func TestMatchWindowAtTextStart(t *testing.T) {
	words := []string{"reward"}
	for i := 0; i < 50; i++ {
		words = append(words, "tail")
	}
	text := strings.Join(words, " ")

	got := Match("reward", text, true)
	require.False(t, strings.HasPrefix(got, "..."), "window starts at word 0: %q", got)
	require.True(t, strings.HasSuffix(got, "..."), "right side truncated: %q", got)
	require.Contains(t, got, "<mark>reward</mark>")
}

func TestMatchWindowAtTextEnd(t *testing.T) {
	var words []string
	for i := 0; i < 50; i++ {
		words = append(words, "head")
	}
	words = append(words, "reward")
	text := strings.Join(words, " ")

	got := Match("reward", text, true)
	require.True(t, strings.HasPrefix(got, "..."), "left side truncated: %q", got)
	require.False(t, strings.HasSuffix(got, "..."), "window ends at last word: %q", got)
	require.Contains(t, got, "<mark>reward</mark>")
}

func TestMatchPicksDensestWindow(t *testing.T) {
	// Two match regions; the right one is denser.
	var words []string
	words = append(words, "reward")
	for i := 0; i < 40; i++ {
		words = append(words, "mid")
	}
	words = append(words, "reward", "reward", "reward")
	for i := 0; i < 10; i++ {
		words = append(words, "tail")
	}
	text := strings.Join(words, " ")

	got := Match("reward", text, true)
	require.GreaterOrEqual(t, strings.Count(got, "<mark>"), 3,
		"excerpt should cover the dense cluster: %q", got)
}

// Pins the intentional behavior where a shorter token hidden inside an
// already-marked longer span is skipped entirely.
func TestMatchShorterTokenInsideLongerSpanSkipped(t *testing.T) {
	got := Match("optimization target target", "the optimization target", false)
	require.Equal(t, "the <mark>optimization target</mark>", got)
}

func TestMatchOffsetsUnshiftedByWideCasePairs(t *testing.T) {
	// U+023A lowers from two bytes to three; lowering the text would shift
	// every span after it.
	got := Match("reward", "Ⱥ reward", false)
	require.Equal(t, "Ⱥ <mark>reward</mark>", got)
}

func TestMatchOffsetsUnshiftedByNarrowingCasePairs(t *testing.T) {
	// The Kelvin sign lowers from three bytes to one.
	got := Match("reward", "measured in K before the reward", false)
	require.Equal(t, "measured in K before the <mark>reward</mark>", got)
}

func TestMatchFoldsMultiByteRunes(t *testing.T) {
	got := Match("ⱥqua", "Ⱥqua notes", false)
	require.Equal(t, "<mark>Ⱥqua</mark> notes", got)
}

func TestStripRemovesMarkers(t *testing.T) {
	marked := Match("reward", "a reward here and a reward there", false)
	require.Equal(t, "a reward here and a reward there", Strip(marked))
}
