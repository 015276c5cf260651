package imageload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const defaultUserAgent = "docview/1.0"

// ClientFactory builds the HTTP client used for remote fetches. Tests
// inject factories whose clients carry a fake RoundTripper.
type ClientFactory func() *http.Client

// Resolver resolves image references against the current document
// location. It is shared by many concurrently loading image blocks;
// all methods are safe for concurrent use.
type Resolver struct {
	mu      sync.Mutex
	baseDir string
	baseURL *url.URL
	client  *http.Client
	factory ClientFactory
	agent   string

	cacheMu sync.RWMutex
	cache   map[string][]byte
}

// New returns a Resolver. A nil factory uses the default client with a
// request timeout and bounded redirect following.
func New(factory ClientFactory) *Resolver {
	if factory == nil {
		factory = defaultClientFactory
	}
	return &Resolver{
		factory: factory,
		agent:   defaultUserAgent,
		cache:   make(map[string][]byte),
	}
}

// SetUserAgent overrides the User-Agent header sent with remote
// fetches. An empty agent keeps the default.
func (r *Resolver) SetUserAgent(agent string) {
	if agent == "" {
		return
	}
	r.mu.Lock()
	r.agent = agent
	r.mu.Unlock()
}

func defaultClientFactory() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &http.Client{
		Timeout:   10 * time.Second,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("stopped after %d redirects", 10)
			}
			return nil
		},
	}
}

// UpdateLocation records the location of the currently viewed
// document. An http(s) URL sets the base URL; a filesystem location
// sets the base directory (the parent, when the location names a
// file); an empty location clears both. Safe to call while
// resolutions are in flight: each resolution reads the base exactly
// once, before any I/O.
func (r *Resolver) UpdateLocation(location string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if location == "" {
		r.baseDir = ""
		r.baseURL = nil
		slog.Debug("Cleared image resolver base location")
		return
	}

	if u, err := url.Parse(location); err == nil && isHTTP(u.Scheme) && u.Host != "" {
		r.baseURL = u
		r.baseDir = ""
		slog.Debug("Set image resolver base URL", "url", u.String())
		return
	}

	dir := location
	if info, err := os.Stat(location); (err == nil && !info.IsDir()) || (err != nil && filepath.Ext(location) != "") {
		dir = filepath.Dir(location)
	}
	r.baseDir = dir
	r.baseURL = nil
	slog.Debug("Set image resolver base path", "dir", dir)
}

// Resolve resolves one image reference. It never returns an error;
// every failure is delivered as a terminal Outcome.
func (r *Resolver) Resolve(ctx context.Context, source string) Outcome {
	if source == "" {
		return failure("", "Empty image source")
	}

	// Capture the base atomically before any suspension point so a
	// concurrent UpdateLocation cannot tear this resolution.
	r.mu.Lock()
	baseDir, baseURL, agent := r.baseDir, r.baseURL, r.agent
	r.mu.Unlock()

	if u := remoteURL(source, baseURL); u != nil {
		return r.resolveRemote(ctx, u, agent)
	}
	return resolveLocal(source, baseDir)
}

func resolveLocal(source, baseDir string) Outcome {
	path := localPath(source, baseDir)
	slog.Debug("Resolving local image", "path", path)
	if _, err := os.Stat(path); err == nil {
		return Outcome{Location: path, Path: path}
	}
	return failure(path, "Image file not found")
}

func (r *Resolver) resolveRemote(ctx context.Context, u *url.URL, agent string) Outcome {
	key := u.String()

	r.cacheMu.RLock()
	cached, hit := r.cache[key]
	r.cacheMu.RUnlock()
	if hit {
		slog.Debug("Using cached remote image", "url", key)
		return Outcome{Location: key, Bytes: cached}
	}

	client := r.ensureClient()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		return failure(key, err.Error())
	}
	req.Header.Set("User-Agent", agent)

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("Failed to fetch remote image", "url", key, "error", err)
		return failure(key, err.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		slog.Warn("Remote image returned error status", "url", key, "status", resp.StatusCode)
		return failure(key, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(key, err.Error())
	}

	// A concurrent fetch of the same uncached URL may also write this
	// key; last write wins and the values are content-identical.
	r.cacheMu.Lock()
	r.cache[key] = content
	r.cacheMu.Unlock()

	slog.Debug("Fetched remote image", "url", key, "bytes", len(content))
	return Outcome{Location: key, Bytes: content}
}

// ensureClient lazily constructs the shared HTTP client; the first
// caller builds it, concurrent callers wait and reuse it.
func (r *Resolver) ensureClient() *http.Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		r.client = r.factory()
	}
	return r.client
}

// Close releases the HTTP client if one was created. Idempotent.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		r.client.CloseIdleConnections()
		r.client = nil
	}
}
