package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"siteseek/internal/domain"
	"siteseek/internal/search"
)

// CardRegion records where one result card landed in the rendered card
// column, in lines relative to the column's top. Used for mouse hit-testing.
type CardRegion struct {
	Index int
	Top   int
	// Bottom is exclusive
	Bottom int
}

// renderMarked converts embedded match markers into styled spans.
func renderMarked(text string, base, mark lipgloss.Style) string {
	var b strings.Builder
	rest := text
	for {
		open := strings.Index(rest, search.MarkOpen)
		if open < 0 {
			b.WriteString(base.Render(rest))
			return b.String()
		}
		closing := strings.Index(rest[open:], search.MarkClose)
		if closing < 0 {
			b.WriteString(base.Render(rest))
			return b.String()
		}
		closing += open

		if open > 0 {
			b.WriteString(base.Render(rest[:open]))
		}
		b.WriteString(mark.Render(rest[open+len(search.MarkOpen) : closing]))
		rest = rest[closing+len(search.MarkClose):]
	}
}

// RenderCards renders the result card column and reports each card's line
// region for hit-testing.
func (s *Styles) RenderCards(results []domain.ResultEntry, focused int, width int) (string, []CardRegion) {
	if len(results) == 0 {
		return "", nil
	}

	innerWidth := width - 4 // card border and padding
	if innerWidth < 10 {
		innerWidth = 10
	}

	var blocks []string
	var regions []CardRegion
	top := 0

	for i, r := range results {
		var body strings.Builder

		if r.NoMatch {
			body.WriteString(s.NoMatch.Render("No results"))
		} else {
			body.WriteString(renderMarked(r.Title, s.CardTitle, s.Mark))
			if r.Authors != "" {
				body.WriteString("\n")
				body.WriteString(s.Authors.Render(r.Authors))
			}
			if r.Excerpt != "" {
				body.WriteString("\n")
				excerpt := lipgloss.NewStyle().Width(innerWidth).Render(
					renderMarked(r.Excerpt, s.Excerpt, s.Mark))
				body.WriteString(excerpt)
			}
		}

		style := s.Card
		if i == focused {
			style = s.CardFocused
		}
		block := style.Width(width - 2).Render(body.String())
		blocks = append(blocks, block)

		h := lipgloss.Height(block)
		regions = append(regions, CardRegion{Index: i, Top: top, Bottom: top + h})
		top += h
	}

	return strings.Join(blocks, "\n"), regions
}

// HitTest returns the card index at the given line, or -1.
func HitTest(regions []CardRegion, line int) int {
	for _, r := range regions {
		if line >= r.Top && line < r.Bottom {
			return r.Index
		}
	}
	return -1
}
