package highlight

import (
	"regexp"
	"strings"
)

// nbsp is inserted by markup renderers between inline elements; normalizing
// it lets a multi-word query match across that spacing.
const nbsp = "\u00a0"

// TextNodes walks root and wraps every case-insensitive occurrence of term
// inside its text leaves in a mark element, preserving all surrounding
// structure. No-search subtrees and existing marks are skipped, so the
// operation is idempotent. A nil root or empty term is a no-op.
func TextNodes(root *Node, term string) {
	term = strings.TrimSpace(term)
	if root == nil || term == "" {
		return
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(term))
	if err != nil {
		return
	}
	visit(root, re)
}

func visit(n *Node, re *regexp.Regexp) {
	if n == nil || n.Class == ClassNoSearch || n.Class == ClassMark {
		return
	}

	for i := 0; i < len(n.Children); i++ {
		child := n.Children[i]
		if child.Type != TextNode {
			visit(child, re)
			continue
		}

		runs := splitRuns(child.Text, re)
		if runs == nil {
			continue // no match: leave the leaf untouched
		}

		// Replace the single text leaf with the marked run sequence.
		n.Children = append(n.Children[:i], append(runs, n.Children[i+1:]...)...)
		i += len(runs) - 1
	}
}

// splitRuns splits text into unmatched text leaves and mark elements, or
// returns nil when nothing matches.
func splitRuns(text string, re *regexp.Regexp) []*Node {
	normalized := strings.ReplaceAll(text, nbsp, " ")

	locs := re.FindAllStringIndex(normalized, -1)
	if len(locs) == 0 {
		return nil
	}

	var runs []*Node
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			runs = append(runs, NewText(normalized[last:loc[0]]))
		}
		mark := NewElement("span", NewText(normalized[loc[0]:loc[1]]))
		mark.Class = ClassMark
		runs = append(runs, mark)
		last = loc[1]
	}
	if last < len(normalized) {
		runs = append(runs, NewText(normalized[last:]))
	}
	return runs
}

// HasMark reports whether the subtree contains at least one marked run. The
// preview pane uses it to decide whether to anchor its scroll on a match.
func HasMark(root *Node) bool {
	if root == nil {
		return false
	}
	if root.Class == ClassMark {
		return true
	}
	for _, c := range root.Children {
		if HasMark(c) {
			return true
		}
	}
	return false
}
