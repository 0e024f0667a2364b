package highlight

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func paragraph(text string) *Node {
	return NewElement("p", NewText(text))
}

func countMarks(n *Node) int {
	if n == nil {
		return 0
	}
	count := 0
	if n.Class == ClassMark {
		count++
	}
	for _, c := range n.Children {
		count += countMarks(c)
	}
	return count
}

func TestTextNodesMarksMatch(t *testing.T) {
	root := paragraph("the reward signal")
	TextNodes(root, "reward")

	require.Equal(t, 3, len(root.Children), "text leaf splits into before/mark/after")
	require.Equal(t, "the ", root.Children[0].Text)
	require.Equal(t, ClassMark, root.Children[1].Class)
	require.Equal(t, "reward", root.Children[1].Children[0].Text)
	require.Equal(t, " signal", root.Children[2].Text)
}

func TestTextNodesPreservesStructure(t *testing.T) {
	root := NewElement("article",
		NewElement("h1", NewText("Reward")),
		NewElement("p",
			NewText("about "),
			NewElement("em", NewText("reward hacking")),
			NewText(" again"),
		),
	)
	TextNodes(root, "reward")

	require.Equal(t, 2, countMarks(root))
	require.Equal(t, "h1", root.Children[0].Tag)
	require.Equal(t, "em", root.Children[1].Children[1].Tag)
	require.Equal(t, "about reward hacking again", Strip(root.Children[1]))
}

func TestTextNodesIdempotent(t *testing.T) {
	root := paragraph("reward reward reward")
	TextNodes(root, "reward")
	first := countMarks(root)

	TextNodes(root, "reward")
	require.Equal(t, first, countMarks(root), "re-running must not double-wrap")
	require.Equal(t, 3, first)
}

func TestTextNodesSkipsNoSearchRegion(t *testing.T) {
	toc := NewElement("ul", NewElement("li", NewText("reward section")))
	toc.Class = ClassNoSearch
	root := NewElement("article", toc, paragraph("reward body"))

	TextNodes(root, "reward")
	require.Equal(t, 1, countMarks(root))
	require.Equal(t, "reward section", toc.Children[0].Children[0].Text, "toc untouched")
}

func TestTextNodesNormalizesNonBreakingSpace(t *testing.T) {
	root := paragraph("hello\u00a0world")
	TextNodes(root, "hello world")
	require.Equal(t, 1, countMarks(root))
}

func TestTextNodesNoMatchIsNoOp(t *testing.T) {
	root := paragraph("nothing here")
	TextNodes(root, "absent")
	require.Equal(t, 1, len(root.Children))
	require.Equal(t, "nothing here", root.Children[0].Text)
}

func TestTextNodesEmptyNodesSafe(t *testing.T) {
	require.NotPanics(t, func() {
		TextNodes(nil, "x")
		TextNodes(NewElement("div"), "x")
		TextNodes(NewElement("div", NewText("")), "x")
		TextNodes(paragraph("text"), "")
	})
}

func TestHasMark(t *testing.T) {
	root := paragraph("the reward")
	require.False(t, HasMark(root))
	TextNodes(root, "reward")
	require.True(t, HasMark(root))
}

func TestCloneIsDeep(t *testing.T) {
	root := paragraph("the reward")
	root.SetAttr("href", "/x")
	clone := root.Clone()

	TextNodes(clone, "reward")
	require.False(t, HasMark(root), "highlighting a clone must not touch the original")
	require.Equal(t, "/x", clone.Attr("href"))
}

// Strip is a test helper turning a subtree back into plain text.
func Strip(n *Node) string {
	return n.PlainText()
}
