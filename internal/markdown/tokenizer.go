package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	xast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// GoldmarkTokenizer flattens a Goldmark AST into the open/close token
// stream consumed by the Builder. Tables and strikethrough come from
// the GFM extensions.
type GoldmarkTokenizer struct {
	md goldmark.Markdown
}

// NewTokenizer returns the default Goldmark-backed tokenizer.
func NewTokenizer() *GoldmarkTokenizer {
	return &GoldmarkTokenizer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough),
		),
	}
}

// Tokenize parses source and returns a nesting-balanced token stream.
func (t *GoldmarkTokenizer) Tokenize(source []byte) []Token {
	root := t.md.Parser().Parse(text.NewReader(source))
	var tokens []Token
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		tokens = flattenBlock(tokens, child, source)
	}
	return tokens
}

func flattenBlock(tokens []Token, n gmast.Node, source []byte) []Token {
	switch node := n.(type) {
	case *gmast.Heading:
		tokens = append(tokens, Token{Kind: KindHeadingOpen, Level: node.Level})
		tokens = append(tokens, inlineToken(node, source))
		tokens = append(tokens, Token{Kind: KindHeadingClose, Level: node.Level})

	case *gmast.Paragraph:
		tokens = append(tokens, Token{Kind: KindParagraphOpen})
		tokens = append(tokens, inlineToken(node, source))
		tokens = append(tokens, Token{Kind: KindParagraphClose})

	case *gmast.TextBlock:
		// Tight list items carry a TextBlock instead of a Paragraph;
		// the builder treats both as a transparent paragraph.
		tokens = append(tokens, Token{Kind: KindParagraphOpen})
		tokens = append(tokens, inlineToken(node, source))
		tokens = append(tokens, Token{Kind: KindParagraphClose})

	case *gmast.Blockquote:
		tokens = append(tokens, Token{Kind: KindBlockquoteOpen})
		tokens = flattenChildren(tokens, node, source)
		tokens = append(tokens, Token{Kind: KindBlockquoteClose})

	case *gmast.List:
		tokens = flattenList(tokens, node, source)

	case *gmast.ThematicBreak:
		tokens = append(tokens, Token{Kind: KindHorizontalRule})

	case *gmast.FencedCodeBlock:
		info := ""
		if node.Info != nil {
			info = string(node.Info.Segment.Value(source))
		}
		tokens = append(tokens, Token{
			Kind:    KindFence,
			Info:    info,
			Content: linesOf(node, source),
		})

	case *gmast.CodeBlock:
		tokens = append(tokens, Token{Kind: KindCodeBlock, Content: linesOf(node, source)})

	case *xast.Table:
		tokens = flattenTable(tokens, node, source)

	default:
		tokens = append(tokens, Token{Kind: KindUnknown, Content: linesOf(n, source)})
	}
	return tokens
}

func flattenChildren(tokens []Token, n gmast.Node, source []byte) []Token {
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		tokens = flattenBlock(tokens, child, source)
	}
	return tokens
}

func flattenList(tokens []Token, list *gmast.List, source []byte) []Token {
	if list.IsOrdered() {
		tokens = append(tokens, Token{Kind: KindOrderedListOpen, Start: list.Start})
	} else {
		tokens = append(tokens, Token{Kind: KindBulletListOpen})
	}
	ordinal := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		open := Token{Kind: KindListItemOpen}
		if list.IsOrdered() {
			open.Ordinal = ordinal
			ordinal++
		}
		tokens = append(tokens, open)
		tokens = flattenChildren(tokens, item, source)
		tokens = append(tokens, Token{Kind: KindListItemClose})
	}
	if list.IsOrdered() {
		tokens = append(tokens, Token{Kind: KindOrderedListClose})
	} else {
		tokens = append(tokens, Token{Kind: KindBulletListClose})
	}
	return tokens
}

// flattenTable normalizes Goldmark's table shape (a header row followed
// by body rows) into the thead/tbody/tr/cell vocabulary.
func flattenTable(tokens []Token, table *xast.Table, source []byte) []Token {
	tokens = append(tokens, Token{Kind: KindTableOpen})
	bodyOpen := false
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		header := row.Kind() == xast.KindTableHeader
		if header {
			tokens = append(tokens, Token{Kind: KindTHeadOpen})
		} else if !bodyOpen {
			tokens = append(tokens, Token{Kind: KindTBodyOpen})
			bodyOpen = true
		}
		tokens = append(tokens, Token{Kind: KindRowOpen})
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			openKind, closeKind := KindCellOpen, KindCellClose
			if header {
				openKind, closeKind = KindHeaderCellOpen, KindHeaderCellClose
			}
			tokens = append(tokens, Token{Kind: openKind})
			tokens = append(tokens, inlineToken(cell, source))
			tokens = append(tokens, Token{Kind: closeKind})
		}
		tokens = append(tokens, Token{Kind: KindRowClose})
		if header {
			tokens = append(tokens, Token{Kind: KindTHeadClose})
		}
	}
	if bodyOpen {
		tokens = append(tokens, Token{Kind: KindTBodyClose})
	}
	tokens = append(tokens, Token{Kind: KindTableClose})
	return tokens
}

// inlineToken wraps the inline children of a container into a single
// KindInline token, with Content carrying the plain text.
func inlineToken(n gmast.Node, source []byte) Token {
	children := flattenInline(nil, n, source)
	return Token{Kind: KindInline, Content: plainText(children), Children: children}
}

func flattenInline(tokens []Token, parent gmast.Node, source []byte) []Token {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *gmast.Text:
			tokens = append(tokens, Token{Kind: KindText, Content: string(node.Segment.Value(source))})
			if node.HardLineBreak() {
				tokens = append(tokens, Token{Kind: KindHardBreak})
			} else if node.SoftLineBreak() {
				tokens = append(tokens, Token{Kind: KindSoftBreak})
			}

		case *gmast.String:
			tokens = append(tokens, Token{Kind: KindText, Content: string(node.Value)})

		case *gmast.CodeSpan:
			tokens = append(tokens, Token{Kind: KindCodeInline, Content: textOf(node, source)})

		case *gmast.Emphasis:
			openKind, closeKind := KindEmphasisOpen, KindEmphasisClose
			if node.Level >= 2 {
				openKind, closeKind = KindStrongOpen, KindStrongClose
			}
			tokens = append(tokens, Token{Kind: openKind})
			tokens = flattenInline(tokens, node, source)
			tokens = append(tokens, Token{Kind: closeKind})

		case *xast.Strikethrough:
			tokens = append(tokens, Token{Kind: KindStrikeOpen})
			tokens = flattenInline(tokens, node, source)
			tokens = append(tokens, Token{Kind: KindStrikeClose})

		case *gmast.Link:
			tokens = append(tokens, Token{
				Kind:  KindLinkOpen,
				Href:  string(node.Destination),
				Title: string(node.Title),
			})
			tokens = flattenInline(tokens, node, source)
			tokens = append(tokens, Token{Kind: KindLinkClose})

		case *gmast.AutoLink:
			url := string(node.URL(source))
			tokens = append(tokens, Token{Kind: KindLinkOpen, Href: url})
			tokens = append(tokens, Token{Kind: KindText, Content: string(node.Label(source))})
			tokens = append(tokens, Token{Kind: KindLinkClose})

		case *gmast.Image:
			tokens = append(tokens, Token{
				Kind:  KindImage,
				Src:   string(node.Destination),
				Alt:   textOf(node, source),
				Title: string(node.Title),
			})

		case *gmast.RawHTML:
			tokens = append(tokens, Token{Kind: KindUnknown, Content: segmentsOf(node.Segments, source)})

		default:
			tokens = append(tokens, Token{Kind: KindUnknown, Content: textOf(n, source)})
		}
	}
	return tokens
}

// textOf collects the literal text beneath an inline node.
func textOf(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *gmast.Text:
			buf.Write(node.Segment.Value(source))
		case *gmast.String:
			buf.Write(node.Value)
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}

// linesOf concatenates the raw source lines owned by a block node.
func linesOf(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

func segmentsOf(segments *text.Segments, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// plainText renders an inline token sequence as unstyled text; the
// builder uses it to capture heading text for the table of contents.
func plainText(tokens []Token) string {
	var buf bytes.Buffer
	for _, tok := range tokens {
		switch tok.Kind {
		case KindText, KindCodeInline, KindUnknown:
			buf.WriteString(tok.Content)
		case KindSoftBreak:
			buf.WriteByte(' ')
		case KindHardBreak:
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}
