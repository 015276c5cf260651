// Package markdown turns a Markdown token stream into a tree of typed
// presentation blocks with a table of contents, and owns the inline
// image block lifecycle.
package markdown

// Kind identifies a token in the tokenizer's output stream. The set is
// closed: anything a tokenizer emits outside this enumeration must be
// mapped to KindUnknown.
type Kind int

const (
	KindUnknown Kind = iota

	// Container open/close pairs.
	KindHeadingOpen
	KindHeadingClose
	KindParagraphOpen
	KindParagraphClose
	KindBlockquoteOpen
	KindBlockquoteClose
	KindBulletListOpen
	KindBulletListClose
	KindOrderedListOpen
	KindOrderedListClose
	KindListItemOpen
	KindListItemClose
	KindTableOpen
	KindTableClose
	KindTHeadOpen
	KindTHeadClose
	KindTBodyOpen
	KindTBodyClose
	KindRowOpen
	KindRowClose
	KindHeaderCellOpen
	KindHeaderCellClose
	KindCellOpen
	KindCellClose

	// Block leaves.
	KindInline
	KindFence
	KindCodeBlock
	KindHorizontalRule

	// Inline tokens; these appear only in the Children of a KindInline
	// token.
	KindText
	KindSoftBreak
	KindHardBreak
	KindCodeInline
	KindEmphasisOpen
	KindEmphasisClose
	KindStrongOpen
	KindStrongClose
	KindStrikeOpen
	KindStrikeClose
	KindLinkOpen
	KindLinkClose
	KindImage
)

var kindNames = map[Kind]string{
	KindUnknown:          "unknown",
	KindHeadingOpen:      "heading_open",
	KindHeadingClose:     "heading_close",
	KindParagraphOpen:    "paragraph_open",
	KindParagraphClose:   "paragraph_close",
	KindBlockquoteOpen:   "blockquote_open",
	KindBlockquoteClose:  "blockquote_close",
	KindBulletListOpen:   "bullet_list_open",
	KindBulletListClose:  "bullet_list_close",
	KindOrderedListOpen:  "ordered_list_open",
	KindOrderedListClose: "ordered_list_close",
	KindListItemOpen:     "list_item_open",
	KindListItemClose:    "list_item_close",
	KindTableOpen:        "table_open",
	KindTableClose:       "table_close",
	KindTHeadOpen:        "thead_open",
	KindTHeadClose:       "thead_close",
	KindTBodyOpen:        "tbody_open",
	KindTBodyClose:       "tbody_close",
	KindRowOpen:          "tr_open",
	KindRowClose:         "tr_close",
	KindHeaderCellOpen:   "th_open",
	KindHeaderCellClose:  "th_close",
	KindCellOpen:         "td_open",
	KindCellClose:        "td_close",
	KindInline:           "inline",
	KindFence:            "fence",
	KindCodeBlock:        "code_block",
	KindHorizontalRule:   "hr",
	KindText:             "text",
	KindSoftBreak:        "softbreak",
	KindHardBreak:        "hardbreak",
	KindCodeInline:       "code_inline",
	KindEmphasisOpen:     "em_open",
	KindEmphasisClose:    "em_close",
	KindStrongOpen:       "strong_open",
	KindStrongClose:      "strong_close",
	KindStrikeOpen:       "s_open",
	KindStrikeClose:      "s_close",
	KindLinkOpen:         "link_open",
	KindLinkClose:        "link_close",
	KindImage:            "image",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// opensContainer reports whether the token pushes a new block onto the
// builder's nesting stack.
func (k Kind) opensContainer() bool {
	switch k {
	case KindHeadingOpen, KindParagraphOpen, KindBlockquoteOpen,
		KindBulletListOpen, KindOrderedListOpen, KindListItemOpen,
		KindTableOpen, KindTHeadOpen, KindTBodyOpen, KindRowOpen,
		KindHeaderCellOpen, KindCellOpen:
		return true
	}
	return false
}

// closesContainer reports whether the token pops the builder's nesting
// stack.
func (k Kind) closesContainer() bool {
	switch k {
	case KindHeadingClose, KindParagraphClose, KindBlockquoteClose,
		KindBulletListClose, KindOrderedListClose, KindListItemClose,
		KindTableClose, KindTHeadClose, KindTBodyClose, KindRowClose,
		KindHeaderCellClose, KindCellClose:
		return true
	}
	return false
}

// Token is one unit of the tokenizer's output: the start or end of a
// structural element, or a leaf of content.
type Token struct {
	Kind    Kind
	Level   int    // heading level, 1..6
	Start   int    // explicit start index of an ordered list
	Ordinal int    // item number within an ordered list, 0 for bullets
	Info    string // fence info string
	Content string // literal content of leaf tokens
	Href    string // link destination
	Src     string // image source, as written in the document
	Alt     string // image alt text
	Title   string // image or link title

	// Children holds the inline tokens of a KindInline token.
	Children []Token
}

// Tokenizer produces a nesting-balanced token stream from raw Markdown
// text. The block builder is agnostic to the implementation.
type Tokenizer interface {
	Tokenize(source []byte) []Token
}
