package markdown

// BlockKind discriminates the finished block variants.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockHorizontalRule
	BlockQuote
	BlockBulletList
	BlockOrderedList
	BlockListItem
	BlockTable
	BlockTableHead
	BlockTableBody
	BlockTableRow
	BlockTableHeaderCell
	BlockTableCell
	BlockFence
	BlockTextRun
	BlockImage
	BlockUnhandled
)

// Block is a node in the rendered document tree. Children are ordered
// exactly as received from the token stream; each block owns its
// children outright.
type Block interface {
	BlockKind() BlockKind
}

// Heading carries the plain text of a heading and the stable id
// recorded in the table of contents.
type Heading struct {
	Level int
	Text  string
	ID    string
}

func (*Heading) BlockKind() BlockKind { return BlockHeading }

// HorizontalRule is a thematic break.
type HorizontalRule struct{}

func (*HorizontalRule) BlockKind() BlockKind { return BlockHorizontalRule }

// BlockQuoteNode wraps nested blocks.
type BlockQuoteNode struct {
	Children []Block
}

func (*BlockQuoteNode) BlockKind() BlockKind { return BlockQuote }

// BulletList holds ListItem children.
type BulletList struct {
	Children []Block
}

func (*BulletList) BlockKind() BlockKind { return BlockBulletList }

// OrderedList holds ListItem children, numbered from Start.
type OrderedList struct {
	Start    int
	Children []Block
}

func (*OrderedList) BlockKind() BlockKind { return BlockOrderedList }

// ListItem is one list entry; Marker is the bullet glyph or the
// rendered ordinal ("3.").
type ListItem struct {
	Marker   string
	Children []Block
}

func (*ListItem) BlockKind() BlockKind { return BlockListItem }

// Table and its sub-elements mirror the thead/tbody/tr/cell nesting of
// the token stream.
type Table struct {
	Children []Block
}

func (*Table) BlockKind() BlockKind { return BlockTable }

type TableHead struct {
	Children []Block
}

func (*TableHead) BlockKind() BlockKind { return BlockTableHead }

type TableBody struct {
	Children []Block
}

func (*TableBody) BlockKind() BlockKind { return BlockTableBody }

type TableRow struct {
	Children []Block
}

func (*TableRow) BlockKind() BlockKind { return BlockTableRow }

type TableHeaderCell struct {
	Children []Block
}

func (*TableHeaderCell) BlockKind() BlockKind { return BlockTableHeaderCell }

type TableCell struct {
	Children []Block
}

func (*TableCell) BlockKind() BlockKind { return BlockTableCell }

// Fence is a literal code block; the body is never parsed further.
type Fence struct {
	Code string
	Info string
}

func (*Fence) BlockKind() BlockKind { return BlockFence }

// TextRun is a sequence of styled text segments produced by the inline
// span builder.
type TextRun struct {
	Segments []Segment
}

func (*TextRun) BlockKind() BlockKind { return BlockTextRun }

// Text returns the run's unstyled text.
func (r *TextRun) Text() string {
	total := 0
	for _, seg := range r.Segments {
		total += len(seg.Text)
	}
	buf := make([]byte, 0, total)
	for _, seg := range r.Segments {
		buf = append(buf, seg.Text...)
	}
	return string(buf)
}

// Unhandled wraps a token the builder does not understand; the
// extension hook may replace it with something renderable.
type Unhandled struct {
	Token Token
}

func (*Unhandled) BlockKind() BlockKind { return BlockUnhandled }

// Segment is a chunk of text with its effective style.
type Segment struct {
	Text  string
	Style Style
}

// Style is an immutable composition of inline style fragments. The
// zero value is the unstyled base.
type Style struct {
	Emphasis bool
	Strong   bool
	Strike   bool
	Code     bool

	// Link is the click-action target carried by the style, if any.
	Link string
}

// merge returns the composition of s with an overlay fragment; set
// flags accumulate and an overlay link replaces the current one.
func (s Style) merge(overlay Style) Style {
	out := Style{
		Emphasis: s.Emphasis || overlay.Emphasis,
		Strong:   s.Strong || overlay.Strong,
		Strike:   s.Strike || overlay.Strike,
		Code:     s.Code || overlay.Code,
		Link:     s.Link,
	}
	if overlay.Link != "" {
		out.Link = overlay.Link
	}
	return out
}

// TOCEntry is one table-of-contents row, collected in document order.
type TOCEntry struct {
	Level int
	Text  string
	ID    string
}

// children returns the child slice of a container block, or nil for
// leaves.
func children(b Block) []Block {
	switch node := b.(type) {
	case *BlockQuoteNode:
		return node.Children
	case *BulletList:
		return node.Children
	case *OrderedList:
		return node.Children
	case *ListItem:
		return node.Children
	case *Table:
		return node.Children
	case *TableHead:
		return node.Children
	case *TableBody:
		return node.Children
	case *TableRow:
		return node.Children
	case *TableHeaderCell:
		return node.Children
	case *TableCell:
		return node.Children
	}
	return nil
}

// Images returns every image block in the tree, in rendering order.
func Images(blocks []Block) []*ImageBlock {
	var out []*ImageBlock
	var walk func([]Block)
	walk = func(bs []Block) {
		for _, b := range bs {
			if img, ok := b.(*ImageBlock); ok {
				out = append(out, img)
				continue
			}
			walk(children(b))
		}
	}
	walk(blocks)
	return out
}
