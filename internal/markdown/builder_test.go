package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildSource(t *testing.T, src string) ([]Block, []TOCEntry) {
	t.Helper()
	builder := &Builder{}
	blocks, toc, err := builder.Build(NewTokenizer().Tokenize([]byte(src)))
	require.NoError(t, err)
	return blocks, toc
}

func TestBuild_RoundTrip(t *testing.T) {
	blocks, toc := buildSource(t, "# Title\n\nHello ![Alt](x.png) tail\n\n```go\ncode()\n```\n")

	require.Len(t, toc, 1)
	require.Equal(t, 1, toc[0].Level)
	require.Equal(t, "Title", toc[0].Text)
	require.Equal(t, "block1", toc[0].ID)

	// The paragraph is transparent: its text run and image are spliced
	// between the heading and the fence, in original order.
	require.Len(t, blocks, 4)

	heading, ok := blocks[0].(*Heading)
	require.True(t, ok)
	require.Equal(t, "Title", heading.Text)
	require.Equal(t, toc[0].ID, heading.ID)

	run, ok := blocks[1].(*TextRun)
	require.True(t, ok)
	require.Contains(t, run.Text(), "Hello")
	require.Contains(t, run.Text(), "[Alt]")

	img, ok := blocks[2].(*ImageBlock)
	require.True(t, ok)
	require.Equal(t, "x.png", img.Source)

	fence, ok := blocks[3].(*Fence)
	require.True(t, ok)
	require.Equal(t, "code()", fence.Code)
	require.Equal(t, "go", fence.Info)
}

func TestBuild_HeadingTextIsPlain(t *testing.T) {
	_, toc := buildSource(t, "## A *styled* `title`\n")
	require.Len(t, toc, 1)
	require.Equal(t, 2, toc[0].Level)
	require.Equal(t, "A styled title", toc[0].Text)
}

func TestBuild_HeadingIDsAreSequential(t *testing.T) {
	_, toc := buildSource(t, "# One\n\n## Two\n\n# Three\n")
	require.Len(t, toc, 3)
	require.Equal(t, "block1", toc[0].ID)
	require.Equal(t, "block2", toc[1].ID)
	require.Equal(t, "block3", toc[2].ID)
}

func TestBuild_BulletMarkerCycles(t *testing.T) {
	blocks, _ := buildSource(t, "- one\n  - two\n    - three\n")

	list, ok := blocks[0].(*BulletList)
	require.True(t, ok)
	outer, ok := list.Children[0].(*ListItem)
	require.True(t, ok)
	require.Equal(t, defaultBullets[0], outer.Marker)

	inner := findItem(t, outer.Children)
	require.Equal(t, defaultBullets[1], inner.Marker)

	innermost := findItem(t, inner.Children)
	require.Equal(t, defaultBullets[2], innermost.Marker)
}

func findItem(t *testing.T, blocks []Block) *ListItem {
	t.Helper()
	for _, b := range blocks {
		if list, ok := b.(*BulletList); ok {
			item, ok := list.Children[0].(*ListItem)
			require.True(t, ok)
			return item
		}
	}
	t.Fatal("no nested list found")
	return nil
}

func TestBuild_OrderedListMarkers(t *testing.T) {
	blocks, _ := buildSource(t, "4. four\n5. five\n")

	list, ok := blocks[0].(*OrderedList)
	require.True(t, ok)
	require.Equal(t, 4, list.Start)
	require.Len(t, list.Children, 2)

	first := list.Children[0].(*ListItem)
	second := list.Children[1].(*ListItem)
	require.Equal(t, "4.", first.Marker)
	require.Equal(t, "5.", second.Marker)
}

func TestBuild_BlockquoteNesting(t *testing.T) {
	blocks, _ := buildSource(t, "> outer\n>\n> > inner\n")

	quote, ok := blocks[0].(*BlockQuoteNode)
	require.True(t, ok)

	var nested *BlockQuoteNode
	for _, child := range quote.Children {
		if q, ok := child.(*BlockQuoteNode); ok {
			nested = q
		}
	}
	require.NotNil(t, nested)
}

func TestBuild_TableStructure(t *testing.T) {
	blocks, _ := buildSource(t, "| a | b |\n|---|---|\n| c | d |\n")

	table, ok := blocks[0].(*Table)
	require.True(t, ok)
	require.Len(t, table.Children, 2)

	head, ok := table.Children[0].(*TableHead)
	require.True(t, ok)
	headRow, ok := head.Children[0].(*TableRow)
	require.True(t, ok)
	require.Len(t, headRow.Children, 2)
	_, ok = headRow.Children[0].(*TableHeaderCell)
	require.True(t, ok)

	body, ok := table.Children[1].(*TableBody)
	require.True(t, ok)
	bodyRow, ok := body.Children[0].(*TableRow)
	require.True(t, ok)
	_, ok = bodyRow.Children[0].(*TableCell)
	require.True(t, ok)
}

func TestBuild_HorizontalRule(t *testing.T) {
	blocks, _ := buildSource(t, "***\n")
	require.Len(t, blocks, 1)
	_, ok := blocks[0].(*HorizontalRule)
	require.True(t, ok)
}

func TestBuild_UnbalancedClose(t *testing.T) {
	builder := &Builder{}
	_, _, err := builder.Build([]Token{{Kind: KindParagraphClose}})
	require.ErrorIs(t, err, ErrUnbalanced)
}

func TestBuild_LeftoverOpen(t *testing.T) {
	builder := &Builder{}
	_, _, err := builder.Build([]Token{{Kind: KindBlockquoteOpen}})
	require.ErrorIs(t, err, ErrUnbalanced)
}

func TestBuild_InlineOutsideContainer(t *testing.T) {
	builder := &Builder{}
	_, _, err := builder.Build([]Token{{Kind: KindInline}})
	require.ErrorIs(t, err, ErrUnbalanced)
}

func TestBuild_UnhandledHook(t *testing.T) {
	replacement := &Fence{Code: "raw"}
	builder := &Builder{
		Unhandled: func(tok Token) Block {
			require.Equal(t, KindUnknown, tok.Kind)
			return replacement
		},
	}
	blocks, _, err := builder.Build([]Token{{Kind: KindUnknown, Content: "<div/>"}})
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.Same(t, replacement, blocks[0])
}

func TestBuild_UnhandledDroppedByDefault(t *testing.T) {
	builder := &Builder{}
	blocks, _, err := builder.Build([]Token{{Kind: KindUnknown, Content: "<div/>"}})
	require.NoError(t, err)
	require.Empty(t, blocks)
}

func TestBuild_CustomBullets(t *testing.T) {
	builder := &Builder{Bullets: []string{"*"}}
	blocks, _, err := builder.Build(NewTokenizer().Tokenize([]byte("- a\n")))
	require.NoError(t, err)

	list := blocks[0].(*BulletList)
	item := list.Children[0].(*ListItem)
	require.Equal(t, "*", item.Marker)
}
