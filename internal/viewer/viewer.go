// Package viewer glues the pieces into a document session: open a
// location, build the block tree, and drive image loading.
package viewer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/docview/internal/config"
	"git.home.luguber.info/inful/docview/internal/forge"
	"git.home.luguber.info/inful/docview/internal/history"
	"git.home.luguber.info/inful/docview/internal/imageload"
	"git.home.luguber.info/inful/docview/internal/markdown"
)

// Document is one built document: the top-level block sequence and the
// table of contents, handed over as a unit.
type Document struct {
	Location string
	Blocks   []markdown.Block
	TOC      []markdown.TOCEntry
}

// Images returns the document's image blocks in rendering order.
func (d *Document) Images() []*markdown.ImageBlock {
	return markdown.Images(d.Blocks)
}

// Wait blocks until every mounted image block reached a terminal
// state, or the context ends.
func (d *Document) Wait(ctx context.Context) error {
	for _, img := range d.Images() {
		select {
		case <-img.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Session owns the shared resolver and configuration for a sequence of
// viewed documents.
type Session struct {
	cfg       *config.Config
	tokenizer markdown.Tokenizer
	resolver  *imageload.Resolver
	support   *markdown.Support
	history   *history.History
	client    *http.Client

	location string
}

// NewSession builds a session. support may be nil when the terminal
// cannot render inline images; image blocks then fail with a fixed
// message instead of loading.
func NewSession(cfg *config.Config, support *markdown.Support) *Session {
	factory := func() *http.Client {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		return &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= cfg.MaxRedirects {
					return fmt.Errorf("stopped after %d redirects", cfg.MaxRedirects)
				}
				return nil
			},
		}
	}
	resolver := imageload.New(factory)
	resolver.SetUserAgent(cfg.UserAgent)
	return &Session{
		cfg:       cfg,
		tokenizer: markdown.NewTokenizer(),
		resolver:  resolver,
		support:   support,
		history:   history.New(cfg.HistoryLimit),
		client:    factory(),
	}
}

// History returns the session's visit history.
func (s *Session) History() *history.History { return s.history }

// Open loads, tokenizes, and builds the document at location (a
// filesystem path or an http(s) URL), mounts its image blocks, and
// records the visit.
func (s *Session) Open(ctx context.Context, location string) (*Document, error) {
	start := time.Now()

	var body []byte
	var resolved string
	if isURL(location) {
		target := location
		if raw, ok := forge.RawURL(location); ok {
			slog.Debug("Rewrote forge URL", "url", location, "raw", raw)
			target = raw
		}
		fetched, finalURL, err := s.fetch(ctx, target)
		if err != nil {
			return nil, err
		}
		body = fetched
		resolved = finalURL
	} else {
		abs, err := filepath.Abs(location)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", location, err)
		}
		data, err := os.ReadFile(abs)
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		body = data
		resolved = abs
	}

	s.resolver.UpdateLocation(resolved)
	s.location = resolved

	builder := &markdown.Builder{
		Resolver: s.resolver,
		Support:  s.support,
		Bullets:  s.cfg.Bullets,
	}
	blocks, toc, err := builder.Build(s.tokenizer.Tokenize(body))
	if err != nil {
		return nil, fmt.Errorf("build document: %w", err)
	}

	doc := &Document{Location: resolved, Blocks: blocks, TOC: toc}
	for _, img := range doc.Images() {
		img.Mount(ctx)
	}

	s.history.Add(resolved)
	slog.Debug("Opened document",
		"location", resolved,
		"blocks", len(blocks),
		"headings", len(toc),
		"images", len(doc.Images()),
		"elapsed", time.Since(start))
	return doc, nil
}

// Reload rebuilds the most recently opened document.
func (s *Session) Reload(ctx context.Context) (*Document, error) {
	if s.location == "" {
		return nil, fmt.Errorf("no document open")
	}
	return s.Open(ctx, s.location)
}

// Close releases the session's network resources.
func (s *Session) Close() {
	s.resolver.Close()
	s.client.CloseIdleConnections()
}

func (s *Session) fetch(ctx context.Context, target string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, "", fmt.Errorf("fetch %s: HTTP %d: %s", target, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", target, err)
	}

	finalURL := target
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return body, finalURL, nil
}

func isURL(location string) bool {
	if !strings.Contains(location, "://") {
		return false
	}
	u, err := url.Parse(location)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
