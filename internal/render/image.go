package render

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"git.home.luguber.info/inful/docview/internal/imageload"
)

// The image payload is transmitted to the terminal as-is; both the
// kitty and iTerm2 protocols accept encoded image files directly, so
// no decoding happens here.

const (
	imageRows       = 12
	kittyChunkBytes = 4096
)

type inlineImage struct {
	mode    string
	outcome imageload.Outcome
}

func newInlineImage(mode string, outcome imageload.Outcome) (*inlineImage, error) {
	if len(outcome.Bytes) == 0 && outcome.Path == "" {
		return nil, fmt.Errorf("unsupported image payload")
	}
	return &inlineImage{mode: mode, outcome: outcome}, nil
}

// Size reports the block's footprint in terminal cells. The cell
// height is fixed; the terminal scales the image to fit.
func (img *inlineImage) Size() (cols, rows int) {
	return 0, imageRows
}

// WriteTo emits the protocol escape sequence for the image.
func (img *inlineImage) WriteTo(w io.Writer) (int64, error) {
	payload, err := img.payload()
	if err != nil {
		return 0, err
	}
	encoded := base64.StdEncoding.EncodeToString(payload)

	var buf strings.Builder
	switch img.mode {
	case "kitty":
		writeKitty(&buf, encoded)
	default:
		fmt.Fprintf(&buf, "\x1b]1337;File=inline=1;size=%d;height=%d:%s\x07", len(payload), imageRows, encoded)
	}
	buf.WriteByte('\n')

	n, err := io.WriteString(w, buf.String())
	return int64(n), err
}

func (img *inlineImage) payload() ([]byte, error) {
	if len(img.outcome.Bytes) > 0 {
		return img.outcome.Bytes, nil
	}
	data, err := os.ReadFile(img.outcome.Path)
	if err != nil {
		return nil, fmt.Errorf("read image payload: %w", err)
	}
	return data, nil
}

// writeKitty emits a chunked kitty graphics command transmitting the
// encoded file data (f=100: format detected from the payload).
func writeKitty(buf *strings.Builder, encoded string) {
	first := true
	for len(encoded) > 0 {
		chunk := encoded
		if len(chunk) > kittyChunkBytes {
			chunk = chunk[:kittyChunkBytes]
		}
		encoded = encoded[len(chunk):]

		more := 0
		if len(encoded) > 0 {
			more = 1
		}
		if first {
			fmt.Fprintf(buf, "\x1b_Gf=100,a=T,r=%d,m=%d;%s\x1b\\", imageRows, more, chunk)
			first = false
		} else {
			fmt.Fprintf(buf, "\x1b_Gm=%d;%s\x1b\\", more, chunk)
		}
	}
}
