package markdown

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/docview/internal/imageload"
)

// Resolver is the image block's view of the shared image resolver.
type Resolver interface {
	Resolve(ctx context.Context, source string) imageload.Outcome
}

// ImageRenderer is a mounted visual for a resolved image, with a
// measurable size in terminal cells.
type ImageRenderer interface {
	Size() (cols, rows int)
}

// Support describes the host's inline-image rendering capability. A
// nil *Support means the capability is unavailable and image blocks
// fail immediately instead of resolving.
type Support struct {
	// Mode names the rendering backend ("kitty", "iterm", ...).
	Mode string

	// New builds a renderer from a resolved payload.
	New func(outcome imageload.Outcome) (ImageRenderer, error)
}

// ErrNoImageSupport is the fixed message an image block fails with
// when the rendering capability is absent.
const ErrNoImageSupport = "inline images require terminal graphics support"

// Phase is an image block's lifecycle state.
type Phase int

const (
	PhaseUnstarted Phase = iota
	PhaseLoading
	PhaseResolved
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseUnstarted:
		return "unstarted"
	case PhaseLoading:
		return "loading"
	case PhaseResolved:
		return "resolved"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// ImageBlock is a block dedicated to one inline image. It is created
// by the inline span builder and drives the shared resolver
// asynchronously once mounted; every state change is local to the
// block and never re-enters the builder.
type ImageBlock struct {
	Source string
	Alt    string
	Title  string
	Style  Style

	// LinkHref is the innermost enclosing link at the point of
	// occurrence; clicking the block activates it instead of any
	// image-specific behavior.
	LinkHref string

	resolver Resolver
	support  *Support

	mu        sync.Mutex
	phase     Phase
	lastErr   string
	renderer  ImageRenderer
	tooltip   string
	cancel    context.CancelFunc
	cancelled bool
	done      chan struct{}
}

func (*ImageBlock) BlockKind() BlockKind { return BlockImage }

func newImageBlock(tok Token, style Style, linkHref string, resolver Resolver, support *Support) *ImageBlock {
	return &ImageBlock{
		Source:   tok.Src,
		Alt:      tok.Alt,
		Title:    tok.Title,
		Style:    style,
		LinkHref: linkHref,
		resolver: resolver,
		support:  support,
		done:     make(chan struct{}),
	}
}

// SupportAvailable reports whether the host can render this image
// inline.
func (ib *ImageBlock) SupportAvailable() bool { return ib.support != nil }

// Phase returns the current lifecycle state.
func (ib *ImageBlock) Phase() Phase {
	ib.mu.Lock()
	defer ib.mu.Unlock()
	return ib.phase
}

// Err returns the last error message, if any.
func (ib *ImageBlock) Err() string {
	ib.mu.Lock()
	defer ib.mu.Unlock()
	return ib.lastErr
}

// Renderer returns the mounted renderer once the block is resolved.
func (ib *ImageBlock) Renderer() ImageRenderer {
	ib.mu.Lock()
	defer ib.mu.Unlock()
	return ib.renderer
}

// Tooltip returns the resolved location string once the block is
// resolved.
func (ib *ImageBlock) Tooltip() string {
	ib.mu.Lock()
	defer ib.mu.Unlock()
	return ib.tooltip
}

// Done is closed once the block reaches a terminal state or is
// unmounted while loading.
func (ib *ImageBlock) Done() <-chan struct{} { return ib.done }

// Caption returns the single-line caption shown while the block is
// pending or failed; it is empty once the image is resolved.
func (ib *ImageBlock) Caption() string {
	ib.mu.Lock()
	defer ib.mu.Unlock()
	if ib.phase == PhaseResolved {
		return ""
	}
	caption := ib.initialCaption()
	if ib.lastErr == "" {
		return caption
	}
	if caption == "" {
		return ib.lastErr
	}
	return fmt.Sprintf("%s (%s)", caption, ib.lastErr)
}

func (ib *ImageBlock) initialCaption() string {
	if ib.Alt != "" {
		return ib.Alt
	}
	if ib.Title != "" {
		return ib.Title
	}
	return ib.Source
}

// Click reports whether the block consumed a click by activating its
// enclosing link. The link always wins; there is no image-specific
// click behavior.
func (ib *ImageBlock) Click(activate func(href string)) bool {
	if ib.LinkHref == "" {
		return false
	}
	if activate != nil {
		activate(ib.LinkHref)
	}
	return true
}

// Mount starts the block's resolution. Without rendering support the
// block fails immediately and never attempts to resolve.
func (ib *ImageBlock) Mount(ctx context.Context) {
	ib.mu.Lock()
	if ib.phase != PhaseUnstarted {
		ib.mu.Unlock()
		return
	}
	if ib.support == nil {
		ib.phase = PhaseFailed
		ib.lastErr = ErrNoImageSupport
		ib.mu.Unlock()
		close(ib.done)
		return
	}
	loadCtx, cancel := context.WithCancel(ctx)
	ib.phase = PhaseLoading
	ib.cancel = cancel
	ib.mu.Unlock()

	go ib.load(loadCtx)
}

// Unmount cancels any in-flight resolution. The block exclusively
// owns the load handle; after cancellation is observed no further
// state transition happens.
func (ib *ImageBlock) Unmount() {
	ib.mu.Lock()
	cancel := ib.cancel
	ib.cancel = nil
	closeDone := false
	if cancel != nil && !ib.cancelled {
		ib.cancelled = true
		closeDone = true
	}
	ib.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if closeDone {
		close(ib.done)
	}
}

func (ib *ImageBlock) load(ctx context.Context) {
	defer func() {
		// Anything unexpected during the load becomes a failed state
		// on this block; it never propagates to the builder or the
		// host's main loop.
		if r := recover(); r != nil {
			slog.Error("Image load panicked", "source", ib.Source, "panic", r)
			ib.commit(func() {
				ib.phase = PhaseFailed
				ib.lastErr = fmt.Sprintf("%v", r)
			})
		}
	}()

	outcome := ib.resolver.Resolve(ctx, ib.Source)

	if ctx.Err() != nil {
		return
	}

	if outcome.Failed() {
		ib.commit(func() {
			ib.phase = PhaseFailed
			ib.lastErr = outcome.Err
		})
		return
	}

	renderer, err := ib.support.New(outcome)
	if err != nil {
		ib.commit(func() {
			ib.phase = PhaseFailed
			ib.lastErr = err.Error()
		})
		return
	}

	ib.commit(func() {
		ib.phase = PhaseResolved
		ib.lastErr = ""
		ib.renderer = renderer
		ib.tooltip = outcome.Location
	})
}

// commit applies a state transition unless the block was unmounted
// first; a cancelled load never mutates the block.
func (ib *ImageBlock) commit(apply func()) {
	ib.mu.Lock()
	if ib.cancelled {
		ib.mu.Unlock()
		return
	}
	apply()
	ib.cancel = nil
	ib.mu.Unlock()
	close(ib.done)
}
