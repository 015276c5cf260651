package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"git.home.luguber.info/inful/docview/internal/bookmarks"
	"git.home.luguber.info/inful/docview/internal/config"
	"git.home.luguber.info/inful/docview/internal/docfiles"
	"git.home.luguber.info/inful/docview/internal/render"
	"git.home.luguber.info/inful/docview/internal/viewer"
	"git.home.luguber.info/inful/docview/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path (defaults to the user config directory)"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	View struct {
		Location string `arg:"" help:"Markdown file, directory, or URL to view"`
		Watch    bool   `short:"w" help:"Re-render when the document changes on disk"`
		NoImages bool   `help:"Skip inline image rendering even when supported"`
		Timeout  string `help:"Maximum time to wait for image loads" default:"15s"`
	} `cmd:"" default:"withargs" help:"Render a Markdown document to the terminal"`

	Toc struct {
		Location string `arg:"" help:"Markdown file or URL"`
	} `cmd:"" help:"Print the document's table of contents"`

	Bookmark struct {
		Add   string `help:"Location to bookmark"`
		Title string `help:"Title for the new bookmark"`
		List  bool   `help:"List saved bookmarks"`
	} `cmd:"" help:"Manage bookmarks"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelWarn
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := loadConfig()
	if err != nil {
		fatal(err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch ctx.Command() {
	case "view <location>":
		err = runView(runCtx, cfg)
	case "toc <location>":
		err = runTOC(runCtx, cfg)
	case "bookmark":
		err = runBookmark()
	default:
		err = fmt.Errorf("unknown command %q", ctx.Command())
	}
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "docview: %v\n", err)
	os.Exit(1)
}

func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		dir, err := config.DataDir()
		if err != nil {
			return config.Default(), nil
		}
		path = filepath.Join(dir, "config.yaml")
	}
	return config.Load(path)
}

func runView(ctx context.Context, cfg *config.Config) error {
	if info, err := os.Stat(CLI.View.Location); err == nil && info.IsDir() {
		return listDirectory(CLI.View.Location, cfg)
	}

	support := render.LoadSupport()
	if CLI.View.NoImages {
		support = nil
	}

	session := viewer.NewSession(cfg, support)
	defer session.Close()

	renderer := &render.Renderer{
		Width:        termWidth(),
		Color:        term.IsTerminal(int(os.Stdout.Fd())),
		InlineImages: support != nil,
	}

	show := func() error {
		doc, err := session.Open(ctx, CLI.View.Location)
		if err != nil {
			return err
		}
		waitCtx, cancel := context.WithTimeout(ctx, waitTimeout())
		defer cancel()
		_ = doc.Wait(waitCtx)
		return renderer.Render(os.Stdout, doc.Blocks)
	}

	if err := show(); err != nil {
		return err
	}
	if !CLI.View.Watch {
		return nil
	}

	watcher, err := watch.New(CLI.View.Location, func() {
		if err := show(); err != nil {
			slog.Warn("Reload failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	<-ctx.Done()
	return nil
}

// listDirectory prints the navigable entries of a directory:
// subdirectories and Markdown documents.
func listDirectory(dir string, cfg *config.Config) error {
	entries, err := docfiles.ListDir(dir, cfg.MarkdownExtensions)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := entry.Name
		if entry.Dir {
			name += "/"
		}
		fmt.Println(name)
	}
	return nil
}

func runTOC(ctx context.Context, cfg *config.Config) error {
	session := viewer.NewSession(cfg, nil)
	defer session.Close()

	doc, err := session.Open(ctx, CLI.Toc.Location)
	if err != nil {
		return err
	}
	for _, entry := range doc.TOC {
		fmt.Printf("%s%s\n", indentFor(entry.Level), entry.Text)
	}
	return nil
}

func indentFor(level int) string {
	if level <= 1 {
		return ""
	}
	out := ""
	for i := 1; i < level; i++ {
		out += "  "
	}
	return out
}

func runBookmark() error {
	dir, err := config.DataDir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, "bookmarks.json")

	list, err := bookmarks.Load(path)
	if err != nil {
		return err
	}

	if CLI.Bookmark.Add != "" {
		title := CLI.Bookmark.Title
		if title == "" {
			title = filepath.Base(CLI.Bookmark.Add)
		}
		list = append(list, bookmarks.Bookmark{Title: title, Location: CLI.Bookmark.Add})
		return bookmarks.Save(path, list)
	}

	for _, bm := range list {
		fmt.Printf("%s\t%s\n", bm.Title, bm.Location)
	}
	return nil
}

func termWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func waitTimeout() time.Duration {
	d, err := time.ParseDuration(CLI.View.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}
