package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenize_HeadingParagraphFence(t *testing.T) {
	src := []byte("# Title\n\nHello ![Alt](x.png) tail\n\n```go\ncode()\n```\n")
	tokens := NewTokenizer().Tokenize(src)

	require.Equal(t, []Kind{
		KindHeadingOpen, KindInline, KindHeadingClose,
		KindParagraphOpen, KindInline, KindParagraphClose,
		KindFence,
	}, kinds(tokens))

	require.Equal(t, 1, tokens[0].Level)
	require.Equal(t, "Title", tokens[1].Content)
	require.Equal(t, "go", tokens[6].Info)
	require.Equal(t, "code()\n", tokens[6].Content)
}

func TestTokenize_ImageAttributes(t *testing.T) {
	src := []byte("![Admiral](gracehopper.jpg \"Legend\")\n")
	tokens := NewTokenizer().Tokenize(src)

	require.Equal(t, []Kind{KindParagraphOpen, KindInline, KindParagraphClose}, kinds(tokens))
	children := tokens[1].Children
	require.Len(t, children, 1)
	require.Equal(t, KindImage, children[0].Kind)
	require.Equal(t, "gracehopper.jpg", children[0].Src)
	require.Equal(t, "Admiral", children[0].Alt)
	require.Equal(t, "Legend", children[0].Title)
}

func TestTokenize_InlineStyles(t *testing.T) {
	src := []byte("*em* **strong** ~~gone~~ `code` [go](https://example.com)\n")
	tokens := NewTokenizer().Tokenize(src)
	require.Len(t, tokens, 3)

	children := tokens[1].Children
	got := kinds(children)
	require.Contains(t, got, KindEmphasisOpen)
	require.Contains(t, got, KindStrongOpen)
	require.Contains(t, got, KindStrikeOpen)
	require.Contains(t, got, KindCodeInline)
	require.Contains(t, got, KindLinkOpen)

	for _, child := range children {
		if child.Kind == KindLinkOpen {
			require.Equal(t, "https://example.com", child.Href)
		}
	}
}

func TestTokenize_Table(t *testing.T) {
	src := []byte("| a | b |\n|---|---|\n| c | d |\n")
	tokens := NewTokenizer().Tokenize(src)

	require.Equal(t, []Kind{
		KindTableOpen,
		KindTHeadOpen, KindRowOpen,
		KindHeaderCellOpen, KindInline, KindHeaderCellClose,
		KindHeaderCellOpen, KindInline, KindHeaderCellClose,
		KindRowClose, KindTHeadClose,
		KindTBodyOpen, KindRowOpen,
		KindCellOpen, KindInline, KindCellClose,
		KindCellOpen, KindInline, KindCellClose,
		KindRowClose, KindTBodyClose,
		KindTableClose,
	}, kinds(tokens))
}

func TestTokenize_ListsAndQuote(t *testing.T) {
	src := []byte("> note\n\n2. two\n3. three\n")
	tokens := NewTokenizer().Tokenize(src)

	got := kinds(tokens)
	require.Equal(t, KindBlockquoteOpen, got[0])
	require.Contains(t, got, KindOrderedListOpen)

	for _, tok := range tokens {
		if tok.Kind == KindOrderedListOpen {
			require.Equal(t, 2, tok.Start)
		}
	}

	ordinals := []int{}
	for _, tok := range tokens {
		if tok.Kind == KindListItemOpen {
			ordinals = append(ordinals, tok.Ordinal)
		}
	}
	require.Equal(t, []int{2, 3}, ordinals)
}

func TestTokenize_Balanced(t *testing.T) {
	src := []byte("# H\n\n- a\n  - b\n\n> q\n>\n> | x |\n> |---|\n> | y |\n")
	tokens := NewTokenizer().Tokenize(src)

	depth := 0
	for _, tok := range tokens {
		if tok.Kind.opensContainer() {
			depth++
		}
		if tok.Kind.closesContainer() {
			depth--
			require.GreaterOrEqual(t, depth, 0)
		}
	}
	require.Zero(t, depth)
}

func TestTokenize_InlineRawHTMLKeptAsUnknown(t *testing.T) {
	src := []byte("before <b>bold</b> after\n")
	tokens := NewTokenizer().Tokenize(src)
	require.Len(t, tokens, 3)

	var raw []string
	for _, child := range tokens[1].Children {
		if child.Kind == KindUnknown {
			raw = append(raw, child.Content)
		}
	}
	require.Equal(t, []string{"<b>", "</b>"}, raw)
}

func TestTokenize_Breaks(t *testing.T) {
	src := []byte("one\ntwo  \nthree\n")
	tokens := NewTokenizer().Tokenize(src)
	require.Len(t, tokens, 3)

	got := kinds(tokens[1].Children)
	require.Contains(t, got, KindSoftBreak)
	require.Contains(t, got, KindHardBreak)
}
