package markdown

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrUnbalanced reports a token stream whose container open/close
// tokens do not pair up. This is a tokenizer contract violation, not a
// document problem, so building fails rather than recovering locally.
var ErrUnbalanced = errors.New("unbalanced token stream")

var defaultBullets = []string{"●", "■", "▶"}

// Builder assembles a block tree and table of contents from a token
// stream in a single pass.
type Builder struct {
	// Resolver and Support are handed to every image block the inline
	// span builder creates.
	Resolver Resolver
	Support  *Support

	// Bullets overrides the glyphs cycled through for nested
	// unordered list items.
	Bullets []string

	// Unhandled is consulted for token kinds the builder does not
	// recognize; a non-nil result is appended like a fence. When nil,
	// unhandled tokens are dropped.
	Unhandled func(Token) Block
}

// openBlock is a container still on the nesting stack; it is converted
// to its finished Block form exactly once, at container close.
type openBlock struct {
	tok         Token
	id          string
	marker      string
	headingText strings.Builder
	children    []Block
}

func (ob *openBlock) finish() Block {
	switch ob.tok.Kind {
	case KindHeadingOpen:
		return &Heading{Level: ob.tok.Level, Text: ob.headingText.String(), ID: ob.id}
	case KindBlockquoteOpen:
		return &BlockQuoteNode{Children: ob.children}
	case KindBulletListOpen:
		return &BulletList{Children: ob.children}
	case KindOrderedListOpen:
		return &OrderedList{Start: ob.tok.Start, Children: ob.children}
	case KindListItemOpen:
		return &ListItem{Marker: ob.marker, Children: ob.children}
	case KindTableOpen:
		return &Table{Children: ob.children}
	case KindTHeadOpen:
		return &TableHead{Children: ob.children}
	case KindTBodyOpen:
		return &TableBody{Children: ob.children}
	case KindRowOpen:
		return &TableRow{Children: ob.children}
	case KindHeaderCellOpen:
		return &TableHeaderCell{Children: ob.children}
	case KindCellOpen:
		return &TableCell{Children: ob.children}
	}
	return &Unhandled{Token: ob.tok}
}

// Build consumes the full token stream and returns the top-level block
// sequence with the table of contents, as one atomic unit.
func (b *Builder) Build(tokens []Token) ([]Block, []TOCEntry, error) {
	var (
		output  []Block
		stack   []*openBlock
		toc     []TOCEntry
		blockID int
	)

	bullets := b.Bullets
	if len(bullets) == 0 {
		bullets = defaultBullets
	}

	appendBlock := func(block Block) {
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			top.children = append(top.children, block)
			return
		}
		output = append(output, block)
	}

	for _, tok := range tokens {
		switch {
		case tok.Kind == KindHeadingOpen:
			blockID++
			stack = append(stack, &openBlock{tok: tok, id: fmt.Sprintf("block%d", blockID)})

		case tok.Kind == KindListItemOpen:
			open := &openBlock{tok: tok}
			if tok.Ordinal > 0 {
				open.marker = fmt.Sprintf("%d.", tok.Ordinal)
			} else {
				count := 0
				for _, ob := range stack {
					if ob.tok.Kind == KindListItemOpen && ob.tok.Ordinal == 0 {
						count++
					}
				}
				open.marker = bullets[count%len(bullets)]
			}
			stack = append(stack, open)

		case tok.Kind.opensContainer():
			stack = append(stack, &openBlock{tok: tok})

		case tok.Kind.closesContainer():
			if len(stack) == 0 {
				return nil, nil, fmt.Errorf("%w: %s without an open container", ErrUnbalanced, tok.Kind)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if top.tok.Kind == KindParagraphOpen {
				// Paragraphs are a transparent grouping construct:
				// splice their children into the parent.
				for _, child := range top.children {
					appendBlock(child)
				}
				continue
			}
			if top.tok.Kind == KindHeadingOpen {
				toc = append(toc, TOCEntry{
					Level: top.tok.Level,
					Text:  top.headingText.String(),
					ID:    top.id,
				})
			}
			appendBlock(top.finish())

		case tok.Kind == KindInline:
			if len(stack) == 0 {
				return nil, nil, fmt.Errorf("%w: inline token outside any container", ErrUnbalanced)
			}
			top := stack[len(stack)-1]
			if top.tok.Kind == KindHeadingOpen {
				// Headings keep their raw text for the table of
				// contents instead of rich inline styling.
				top.headingText.WriteString(tok.Content)
				continue
			}
			top.children = append(top.children, b.buildInline(tok.Children)...)

		case tok.Kind == KindFence:
			appendBlock(&Fence{Code: strings.TrimRight(tok.Content, " \t\r\n"), Info: strings.TrimSpace(tok.Info)})

		case tok.Kind == KindCodeBlock:
			appendBlock(&Fence{Code: strings.TrimRight(tok.Content, " \t\r\n")})

		case tok.Kind == KindHorizontalRule:
			appendBlock(&HorizontalRule{})

		default:
			if b.Unhandled != nil {
				if block := b.Unhandled(tok); block != nil {
					appendBlock(block)
					continue
				}
			}
			slog.Debug("Dropping unhandled markdown token", "kind", tok.Kind.String())
		}
	}

	if len(stack) != 0 {
		return nil, nil, fmt.Errorf("%w: %d container(s) left open at end of stream", ErrUnbalanced, len(stack))
	}
	return output, toc, nil
}
