package search

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Markers wrapped around matched runs. Views translate them into styles; the
// pager pipeline translates them into ANSI colors.
const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

// ContextWindowWords bounds trimmed excerpts to the densest 30-word region.
const ContextWindowWords = 30

const ellipsis = "..."

// span is a half-open byte range [start, end) in the subject text.
type span struct {
	start, end int
}

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

// Match locates every tokenized candidate of term in text, longest candidate
// first, and wraps occurrences in markers. Spans already inside a marker are
// never re-wrapped, so marking is idempotent. When trim is set and the text
// exceeds the context window, only the window with the most match starts is
// kept, with an ellipsis on each truncated side.
func Match(term, text string, trim bool) string {
	if text == "" {
		return text
	}

	matches := findSpans(term, text)

	if trim {
		words := wordSpans(text)
		if len(words) > ContextWindowWords {
			start, end := densestWindow(words, matches)
			excerpt := text[words[start].start:words[end].end]

			// Re-match inside the excerpt: window edges are word-aligned, so
			// every match that survived the cut is found again.
			out := Match(term, excerpt, false)
			if start > 0 {
				out = ellipsis + out
			}
			if end < len(words)-1 {
				out = out + ellipsis
			}
			return out
		}
	}

	return applyMarks(text, matches)
}

// Strip removes all markers from a marked-up string.
func Strip(s string) string {
	s = strings.ReplaceAll(s, MarkOpen, "")
	return strings.ReplaceAll(s, MarkClose, "")
}

// findSpans returns the non-overlapping match spans for term in text,
// assigned longest-candidate-first. Existing marker regions are blocked out
// so already-highlighted text is left alone.
func findSpans(term, text string) []span {
	candidates := TokenizeTerm(term)
	if len(candidates) == 0 {
		return nil
	}

	blocked := markerSpans(text)
	var matches []span

	for _, cand := range candidates {
		if cand == "" {
			continue
		}
		from := 0
		for from < len(text) {
			s, ok := indexFold(text, cand, from)
			if !ok {
				break
			}
			_, size := utf8.DecodeRuneInString(text[s.start:])
			from = s.start + size

			if overlapsAny(s, blocked) || overlapsAny(s, matches) {
				continue
			}
			matches = append(matches, s)
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })
	return matches
}

// indexFold returns the byte span of the first case-insensitive occurrence
// of needle in text at or after from. Offsets stay native to text: lowering
// changes the byte length of some runes, so spans must never be computed on
// a lowered copy.
func indexFold(text, needle string, from int) (span, bool) {
	for i := from; i < len(text); {
		if end, ok := foldMatchAt(text, needle, i); ok {
			return span{start: i, end: end}, true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return span{}, false
}

// foldMatchAt reports whether needle matches text at byte offset at under
// simple case folding, and where the match ends in text.
func foldMatchAt(text, needle string, at int) (int, bool) {
	i := at
	for _, nr := range needle {
		if i >= len(text) {
			return 0, false
		}
		tr, size := utf8.DecodeRuneInString(text[i:])
		if tr != nr && unicode.ToLower(tr) != unicode.ToLower(nr) {
			return 0, false
		}
		i += size
	}
	return i, true
}

func overlapsAny(s span, spans []span) bool {
	for _, o := range spans {
		if s.overlaps(o) {
			return true
		}
	}
	return false
}

// markerSpans returns the regions of text already wrapped in markers,
// including the marker tokens themselves.
func markerSpans(text string) []span {
	var spans []span
	from := 0
	for {
		open := strings.Index(text[from:], MarkOpen)
		if open < 0 {
			return spans
		}
		open += from
		closing := strings.Index(text[open:], MarkClose)
		if closing < 0 {
			// Unterminated marker: block through the end.
			return append(spans, span{start: open, end: len(text)})
		}
		end := open + closing + len(MarkClose)
		spans = append(spans, span{start: open, end: end})
		from = end
	}
}

// applyMarks renders text with markers around the given ascending spans.
func applyMarks(text string, matches []span) string {
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m.start])
		b.WriteString(MarkOpen)
		b.WriteString(text[m.start:m.end])
		b.WriteString(MarkClose)
		last = m.end
	}
	b.WriteString(text[last:])
	return b.String()
}

// wordSpans returns the byte span of every whitespace-separated word.
func wordSpans(text string) []span {
	var words []span
	inWord := false
	start := 0
	for i, r := range text {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if inWord {
				words = append(words, span{start: start, end: i})
				inWord = false
			}
		} else if !inWord {
			start = i
			inWord = true
		}
	}
	if inWord {
		words = append(words, span{start: start, end: len(text)})
	}
	return words
}

// densestWindow slides a fixed window over the word list and returns the
// inclusive word range holding the most match starts. Ties keep the first
// window.
func densestWindow(words []span, matches []span) (int, int) {
	isStart := make([]bool, len(words))
	for _, m := range matches {
		for i, w := range words {
			if m.start >= w.start && m.start < w.end {
				isStart[i] = true
				break
			}
		}
	}

	best, bestCount := 0, -1
	count := 0
	for i := 0; i < len(words); i++ {
		if isStart[i] {
			count++
		}
		if i >= ContextWindowWords {
			if isStart[i-ContextWindowWords] {
				count--
			}
		}
		if i >= ContextWindowWords-1 {
			if count > bestCount {
				bestCount = count
				best = i - ContextWindowWords + 1
			}
		}
	}

	return best, best + ContextWindowWords - 1
}
