package ui

import (
	"siteseek/internal/domain"
	"siteseek/internal/index"
	"siteseek/internal/search"
)

// buildResults runs one query against the index and turns the matched
// documents into highlighted result cards. An empty match set yields the
// single non-activatable "no results" card.
func buildResults(idx *index.Index, term string, limit int) []domain.ResultEntry {
	docs := idx.SearchUnion(term, limit)
	if len(docs) == 0 {
		return []domain.ResultEntry{{NoMatch: true}}
	}

	out := make([]domain.ResultEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.ResultEntry{
			Slug:    d.Slug,
			Title:   search.Match(term, d.Title, false),
			Excerpt: search.Match(term, d.Content, true),
			Authors: d.Authors,
		})
	}
	return out
}
