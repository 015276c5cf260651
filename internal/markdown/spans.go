package markdown

// buildInline converts one inline token sequence into blocks: at most
// one styled text run plus any image blocks encountered, in order.
func (b *Builder) buildInline(tokens []Token) []Block {
	styles := []Style{{}}
	links := []string{""}
	var segments []Segment
	var images []*ImageBlock
	hasText := false

	appendText := func(text string, style Style) {
		if text == "" {
			return
		}
		segments = append(segments, Segment{Text: text, Style: style})
		hasText = true
	}

	for _, tok := range tokens {
		top := styles[len(styles)-1]
		switch tok.Kind {
		case KindText:
			appendText(tok.Content, top)
		case KindHardBreak:
			appendText("\n", top)
		case KindSoftBreak:
			appendText(" ", top)
		case KindCodeInline:
			appendText(tok.Content, top.merge(Style{Code: true}))
		case KindEmphasisOpen:
			styles = append(styles, top.merge(Style{Emphasis: true}))
		case KindStrongOpen:
			styles = append(styles, top.merge(Style{Strong: true}))
		case KindStrikeOpen:
			styles = append(styles, top.merge(Style{Strike: true}))
		case KindLinkOpen:
			styles = append(styles, top.merge(Style{Link: tok.Href}))
			links = append(links, tok.Href)
		case KindLinkClose:
			if len(styles) > 1 {
				styles = styles[:len(styles)-1]
			}
			if len(links) > 1 {
				links = links[:len(links)-1]
			}
		case KindEmphasisClose, KindStrongClose, KindStrikeClose:
			if len(styles) > 1 {
				styles = styles[:len(styles)-1]
			}
		case KindImage:
			img := newImageBlock(tok, top, links[len(links)-1], b.Resolver, b.Support)
			images = append(images, img)
			if hasText {
				// Give plain-text readers an inline placeholder next
				// to the surrounding run.
				caption := tok.Alt
				if caption == "" {
					caption = tok.Src
				}
				if caption == "" {
					caption = "image"
				}
				segments = append(segments, Segment{Text: " [" + caption + "]", Style: top})
			}
		default:
			// Inline kinds not enumerated above keep any literal
			// content as plain text.
			appendText(tok.Content, top)
		}
	}

	// A paragraph of nothing but images gets no text run at all, so an
	// empty run never competes with the images for layout.
	if !hasText && len(images) > 0 {
		segments = nil
	}

	var out []Block
	if len(segments) > 0 {
		out = append(out, &TextRun{Segments: segments})
	}
	for _, img := range images {
		out = append(out, img)
	}
	return out
}
