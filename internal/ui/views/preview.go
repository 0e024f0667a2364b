package views

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"siteseek/internal/highlight"
	"siteseek/internal/preview"
)

// RenderPreview renders the preview pane for the last applied render. A nil
// render means the fetch is still in flight.
func (s *Styles) RenderPreview(r *preview.Rendered, width, height int) string {
	innerWidth := width - 4 // pane border and padding
	if innerWidth < 10 {
		innerWidth = 10
	}

	var body string
	switch {
	case r == nil:
		body = s.Dim.Render("Loading preview...")
	case r.Err != nil:
		body = s.Error.Render("Preview unavailable: " + r.Err.Error())
	default:
		body = s.renderPage(r, innerWidth, height-2)
	}

	return s.Preview.Width(width - 2).Height(height - 2).Render(body)
}

// RenderPage renders the whole page without viewport clamping, for the pager.
func (s *Styles) RenderPage(r *preview.Rendered, width int) string {
	return s.renderPage(r, width, 0)
}

func (s *Styles) renderPage(r *preview.Rendered, width, height int) string {
	var lines []string
	anchorLine := -1

	title := r.Frontmatter.Title
	if title == "" {
		title = r.Slug
	}
	lines = append(lines, splitBlock(s.PreviewTitle.Width(width).Render(title))...)
	if len(r.Frontmatter.Authors) > 0 {
		lines = append(lines, s.Authors.Render(strings.Join(r.Frontmatter.Authors, ", ")))
	}
	lines = append(lines, "")

	for _, el := range r.Elements {
		block := s.renderBlock(el, width)
		if block == "" {
			continue
		}
		if anchorLine < 0 && highlight.HasMark(el) {
			anchorLine = len(lines)
		}
		lines = append(lines, splitBlock(block)...)
		lines = append(lines, "")
	}

	// Scroll so the first matched block sits at the anchor fraction of the
	// viewport instead of the top edge.
	offset := 0
	if anchorLine >= 0 && height > 0 {
		offset = anchorLine - int(float64(height)*preview.AnchorFraction)
	}
	if offset > len(lines)-height {
		offset = len(lines) - height
	}
	if offset < 0 {
		offset = 0
	}

	end := offset + height
	if height <= 0 || end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[offset:end], "\n")
}

func splitBlock(block string) []string {
	return strings.Split(block, "\n")
}

// renderBlock renders one top-level element into a wrapped, styled block.
func (s *Styles) renderBlock(n *highlight.Node, width int) string {
	switch n.Tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return s.PreviewTitle.Width(width).Render(s.renderInline(n, s.PreviewTitle))

	case "p", "span":
		return lipgloss.NewStyle().Width(width).Render(s.renderInline(n, s.Excerpt))

	case "blockquote":
		var inner []string
		for _, c := range n.Children {
			if b := s.renderBlock(c, width-2); b != "" {
				inner = append(inner, splitBlock(b)...)
			}
		}
		for i, line := range inner {
			inner[i] = s.Quote.Render("| ") + line
		}
		return strings.Join(inner, "\n")

	case "ul", "ol":
		return s.renderList(n, width, n.Tag == "ol")

	case "pre":
		return s.CodeBlock.Render(strings.TrimRight(n.PlainText(), "\n"))

	case "hr":
		return s.Dim.Render(strings.Repeat("-", width))

	default:
		if n.Type == highlight.TextNode || len(n.Children) > 0 {
			return lipgloss.NewStyle().Width(width).Render(s.renderInline(n, s.Excerpt))
		}
		return ""
	}
}

func (s *Styles) renderList(n *highlight.Node, width int, ordered bool) string {
	var items []string
	num := 1
	for _, c := range n.Children {
		if c.Tag != "li" {
			continue
		}
		bullet := "• "
		if ordered {
			bullet = strconv.Itoa(num) + ". "
			num++
		}
		item := lipgloss.NewStyle().Width(width - len(bullet)).Render(s.renderInline(c, s.Excerpt))
		lines := splitBlock(item)
		for i, line := range lines {
			if i == 0 {
				lines[i] = bullet + line
			} else {
				lines[i] = strings.Repeat(" ", len(bullet)) + line
			}
		}
		items = append(items, strings.Join(lines, "\n"))
	}
	return strings.Join(items, "\n")
}

// renderInline flattens a subtree into one styled string.
func (s *Styles) renderInline(n *highlight.Node, base lipgloss.Style) string {
	if n.Type == highlight.TextNode {
		return base.Render(n.Text)
	}

	style := base
	switch {
	case n.Class == highlight.ClassMark:
		style = s.Mark
	case n.Class == highlight.ClassCheckbox:
		if n.Attr("checked") == "true" {
			return base.Render("[x] ")
		}
		return base.Render("[ ] ")
	case n.Tag == "em":
		style = base.Italic(true)
	case n.Tag == "strong":
		style = base.Bold(true)
	case n.Tag == "a":
		style = s.Link
	case n.Tag == "code":
		style = s.CodeBlock
	}

	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(s.renderInline(c, style))
	}
	return b.String()
}
