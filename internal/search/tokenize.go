// Package search implements the query tokenizer and the text matcher that
// marks query occurrences and extracts bounded context windows.
package search

import (
	"sort"
	"strings"
)

// TokenizeTerm splits a raw query into candidate phrases: every single word,
// plus every left-to-right cumulative multi-word phrase, sorted by descending
// length. Longer phrases sort first so the most specific span wins when
// candidates overlap.
func TokenizeTerm(term string) []string {
	words := strings.Fields(term)
	if len(words) == 0 {
		return nil
	}

	tokens := make([]string, 0, 2*len(words)-1)
	tokens = append(tokens, words...)

	// Cumulative phrases: first 2 words, first 3 words, ... all words.
	for i := 2; i <= len(words); i++ {
		tokens = append(tokens, strings.Join(words[:i], " "))
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		return len(tokens[i]) > len(tokens[j])
	})

	return tokens
}
