package preview

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"

	"siteseek/internal/highlight"
	"siteseek/internal/pagestate"
)

// converter turns a goldmark AST into the generic node tree the highlighter
// and the preview renderer operate on.
type converter struct {
	source      []byte
	pageURL     *url.URL
	slug        string
	states      *pagestate.Store
	checkboxIdx int
}

// convertDocument returns the page's top-level previewable elements.
func convertDocument(doc ast.Node, source []byte, pageURL *url.URL, slug string, states *pagestate.Store) []*highlight.Node {
	c := &converter{source: source, pageURL: pageURL, slug: slug, states: states}

	var blocks []*highlight.Node
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		if n := c.convert(child); n != nil {
			blocks = append(blocks, n)
		}
	}

	markNoSearch(blocks)
	return blocks
}

func (c *converter) convert(n ast.Node) *highlight.Node {
	switch n := n.(type) {
	case *ast.Heading:
		out := highlight.NewElement("h" + string(rune('0'+n.Level)))
		c.appendChildren(out, n)
		return out

	case *ast.Paragraph:
		out := highlight.NewElement("p")
		c.appendChildren(out, n)
		return out

	case *ast.TextBlock:
		out := highlight.NewElement("p")
		c.appendChildren(out, n)
		return out

	case *ast.Blockquote:
		out := highlight.NewElement("blockquote")
		c.appendChildren(out, n)
		return out

	case *ast.List:
		tag := "ul"
		if n.IsOrdered() {
			tag = "ol"
		}
		out := highlight.NewElement(tag)
		c.appendChildren(out, n)
		return out

	case *ast.ListItem:
		out := highlight.NewElement("li")
		c.appendChildren(out, n)
		return out

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		out := highlight.NewElement("pre")
		var b strings.Builder
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(c.source))
		}
		out.Children = append(out.Children, highlight.NewText(b.String()))
		return out

	case *ast.ThematicBreak:
		return highlight.NewElement("hr")

	case *ast.Emphasis:
		tag := "em"
		if n.Level >= 2 {
			tag = "strong"
		}
		out := highlight.NewElement(tag)
		c.appendChildren(out, n)
		return out

	case *ast.Link:
		out := highlight.NewElement("a")
		out.SetAttr("href", c.rebase(string(n.Destination)))
		c.appendChildren(out, n)
		return out

	case *ast.AutoLink:
		dest := string(n.URL(c.source))
		out := highlight.NewElement("a", highlight.NewText(dest))
		out.SetAttr("href", c.rebase(dest))
		return out

	case *ast.Image:
		// Images become their alt text; the pane is text-only.
		out := highlight.NewElement("em")
		c.appendChildren(out, n)
		return out

	case *ast.CodeSpan:
		out := highlight.NewElement("code")
		c.appendChildren(out, n)
		return out

	case *extast.TaskCheckBox:
		checked := n.IsChecked
		if c.states != nil {
			if persisted, ok := c.states.Checkbox(c.slug, c.checkboxIdx); ok {
				checked = persisted
			}
		}
		out := highlight.NewElement("input")
		out.Class = highlight.ClassCheckbox
		out.SetAttr("index", strconv.Itoa(c.checkboxIdx))
		if checked {
			out.SetAttr("checked", "true")
		} else {
			out.SetAttr("checked", "false")
		}
		c.checkboxIdx++
		return out

	case *ast.Text:
		text := string(n.Segment.Value(c.source))
		if n.SoftLineBreak() {
			text += " "
		} else if n.HardLineBreak() {
			text += "\n"
		}
		return highlight.NewText(text)

	case *ast.String:
		return highlight.NewText(string(n.Value))

	case *ast.HTMLBlock, *ast.RawHTML:
		return nil // raw markup is not previewable

	default:
		// Unknown container: flatten its children into a span.
		if n.HasChildren() {
			out := highlight.NewElement("span")
			c.appendChildren(out, n)
			return out
		}
		return nil
	}
}

func (c *converter) appendChildren(out *highlight.Node, n ast.Node) {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if converted := c.convert(child); converted != nil {
			out.Children = append(out.Children, converted)
		}
	}
}

// rebase resolves a relative link destination against the page URL so it
// stays correct when the fragment is shown inside another page's preview.
func (c *converter) rebase(dest string) string {
	u, err := url.Parse(dest)
	if err != nil || u.IsAbs() || c.pageURL == nil {
		return dest
	}
	return c.pageURL.ResolveReference(u).String()
}

// markNoSearch tags an embedded table of contents (a "Table of Contents" or
// "Contents" heading plus the list that follows it) as a no-search region.
func markNoSearch(blocks []*highlight.Node) {
	for i, b := range blocks {
		if !strings.HasPrefix(b.Tag, "h") {
			continue
		}
		title := strings.ToLower(strings.TrimSpace(b.PlainText()))
		if title != "table of contents" && title != "contents" {
			continue
		}
		b.Class = highlight.ClassNoSearch
		if i+1 < len(blocks) && (blocks[i+1].Tag == "ul" || blocks[i+1].Tag == "ol") {
			blocks[i+1].Class = highlight.ClassNoSearch
		}
	}
}
