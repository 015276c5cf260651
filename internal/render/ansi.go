package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"git.home.luguber.info/inful/docview/internal/markdown"
)

// Renderer writes a block tree as styled terminal text.
type Renderer struct {
	// Width is the target line width for rules and table layout.
	Width int

	// Color enables SGR styling.
	Color bool

	// InlineImages emits graphics escape sequences for resolved image
	// blocks instead of their captions.
	InlineImages bool
}

// Render writes the rendered document to w.
func (r *Renderer) Render(w io.Writer, blocks []markdown.Block) error {
	for _, line := range r.Lines(blocks) {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Lines renders the block tree to terminal lines.
func (r *Renderer) Lines(blocks []markdown.Block) []string {
	var out []string
	for i, block := range blocks {
		lines := r.blockLines(block)
		if i > 0 && len(lines) > 0 && len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, lines...)
	}
	return out
}

func (r *Renderer) width() int {
	if r.Width > 0 {
		return r.Width
	}
	return 80
}

func (r *Renderer) blockLines(block markdown.Block) []string {
	switch node := block.(type) {
	case *markdown.Heading:
		return []string{r.styled(node.Text, markdown.Style{Strong: true}) + " " + strings.Repeat("#", node.Level)}

	case *markdown.HorizontalRule:
		return []string{strings.Repeat("─", r.width())}

	case *markdown.TextRun:
		return r.runLines(node)

	case *markdown.ImageBlock:
		return r.imageLines(node)

	case *markdown.Fence:
		var lines []string
		for _, line := range strings.Split(node.Code, "\n") {
			lines = append(lines, "    "+line)
		}
		return lines

	case *markdown.BlockQuoteNode:
		return prefixLines(r.Lines(node.Children), "│ ")

	case *markdown.BulletList:
		return r.listLines(node.Children)

	case *markdown.OrderedList:
		return r.listLines(node.Children)

	case *markdown.Table:
		return r.tableLines(node)

	case *markdown.Unhandled:
		if node.Token.Content == "" {
			return nil
		}
		return strings.Split(strings.TrimRight(node.Token.Content, "\n"), "\n")
	}

	// Bare table sub-elements and list items only appear under their
	// containers, which render them directly.
	return nil
}

func (r *Renderer) listLines(items []markdown.Block) []string {
	var out []string
	for _, item := range items {
		li, ok := item.(*markdown.ListItem)
		if !ok {
			out = append(out, r.blockLines(item)...)
			continue
		}
		// Items render tight: no blank separators between their children.
		lines := r.tightLines(li.Children)
		marker := li.Marker + " "
		indent := strings.Repeat(" ", runewidth.StringWidth(marker))
		for i, line := range lines {
			if i == 0 {
				out = append(out, marker+line)
			} else {
				out = append(out, indent+line)
			}
		}
		if len(lines) == 0 {
			out = append(out, li.Marker)
		}
	}
	return out
}

func (r *Renderer) tightLines(blocks []markdown.Block) []string {
	var out []string
	for _, block := range blocks {
		out = append(out, r.blockLines(block)...)
	}
	return out
}

func (r *Renderer) runLines(run *markdown.TextRun) []string {
	var buf strings.Builder
	for _, seg := range run.Segments {
		buf.WriteString(r.styled(seg.Text, seg.Style))
	}
	return strings.Split(buf.String(), "\n")
}

func (r *Renderer) imageLines(img *markdown.ImageBlock) []string {
	if img.Phase() == markdown.PhaseResolved {
		if wt, ok := img.Renderer().(io.WriterTo); ok && r.InlineImages {
			var buf strings.Builder
			if _, err := wt.WriteTo(&buf); err == nil {
				return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			}
		}
		caption := img.Alt
		if caption == "" {
			caption = img.Tooltip()
		}
		return []string{r.styled("["+caption+"]", img.Style)}
	}
	return []string{r.styled(img.Caption(), img.Style)}
}

// tableLines lays the table out with display-width-padded columns.
func (r *Renderer) tableLines(table *markdown.Table) []string {
	var headers []string
	var rows [][]string
	for _, section := range table.Children {
		switch sec := section.(type) {
		case *markdown.TableHead:
			for _, row := range sec.Children {
				headers = rowCells(row)
			}
		case *markdown.TableBody:
			for _, row := range sec.Children {
				rows = append(rows, rowCells(row))
			}
		}
	}

	widths := make([]int, len(headers))
	measure := func(cells []string) {
		for i, cell := range cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	formatRow := func(cells []string) string {
		padded := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			padded[i] = runewidth.FillRight(cell, widths[i])
		}
		return strings.TrimRight(strings.Join(padded, "  "), " ")
	}

	var out []string
	if len(headers) > 0 {
		out = append(out, r.styled(formatRow(headers), markdown.Style{Strong: true}))
		total := 0
		for _, w := range widths {
			total += w + 2
		}
		if total > 2 {
			out = append(out, strings.Repeat("─", total-2))
		}
	}
	for _, row := range rows {
		out = append(out, formatRow(row))
	}
	return out
}

func rowCells(block markdown.Block) []string {
	row, ok := block.(*markdown.TableRow)
	if !ok {
		return nil
	}
	var cells []string
	for _, cell := range row.Children {
		cells = append(cells, cellText(cell))
	}
	return cells
}

func cellText(block markdown.Block) string {
	var buf strings.Builder
	var walk func(markdown.Block)
	walk = func(b markdown.Block) {
		switch node := b.(type) {
		case *markdown.TextRun:
			buf.WriteString(node.Text())
		case *markdown.ImageBlock:
			buf.WriteString(node.Caption())
		case *markdown.TableHeaderCell:
			for _, child := range node.Children {
				walk(child)
			}
		case *markdown.TableCell:
			for _, child := range node.Children {
				walk(child)
			}
		}
	}
	walk(block)
	return buf.String()
}

func prefixLines(lines []string, prefix string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = prefix + line
	}
	return out
}

func (r *Renderer) styled(text string, style markdown.Style) string {
	if !r.Color {
		return text
	}
	var codes []string
	if style.Strong {
		codes = append(codes, "1")
	}
	if style.Emphasis {
		codes = append(codes, "3")
	}
	if style.Strike {
		codes = append(codes, "9")
	}
	if style.Code {
		codes = append(codes, "7")
	}
	if style.Link != "" {
		codes = append(codes, "4", "34")
	}
	if len(codes) == 0 {
		return text
	}
	return fmt.Sprintf("\x1b[%sm%s\x1b[0m", strings.Join(codes, ";"), text)
}
