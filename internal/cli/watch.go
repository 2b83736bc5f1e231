package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/cnftree/internal/presentation/tui"
	"github.com/aretw0/cnftree/pkg/adapters/file"
	"github.com/aretw0/cnftree/pkg/codec"
	"github.com/aretw0/cnftree/pkg/domain"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 100 * time.Millisecond

// WatchOptions configures RunWatch.
type WatchOptions struct {
	Input string
	// Format is tree or sexpr. Empty picks tree on a terminal.
	Format   string
	Debounce time.Duration
}

// RunWatch converts Input, then converts it again whenever the problem or
// anything under the base directory changes, until ctx is cancelled.
// Failures are printed and the watch goes on.
func RunWatch(ctx context.Context, app *App, opts WatchOptions, out io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range watchDirs(opts.Input, app.Converter.BaseDir()) {
		if err := watchRecursive(watcher, dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	format := opts.Format
	if format == "" {
		format = string(codec.FormatSExpr)
		if isTerminal(out) {
			format = FormatTree
		}
	}

	render := func() {
		tree, err := watchTransform(ctx, app, opts.Input)
		if err != nil {
			app.Logger.Warn("conversion failed", "path", opts.Input, "kind", domain.Kind(err), "error", err)
			fmt.Fprintf(out, "error (%s): %v\n", domain.Kind(err), err)
			return
		}
		if format == FormatTree {
			_ = tui.NewTreePrinter(colorProfile(out)).Print(out, tree)
			return
		}
		fmt.Fprintln(out, tree)
	}

	printSystemMessage(out, "Watching '%s'.", opts.Input)
	render()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				// New subdirectories are watched too; plain files are ignored here.
				_ = watchRecursive(watcher, event.Name)
			}
			app.Logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			app.Logger.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			printSystemMessage(out, "Change detected, converting '%s' again.", opts.Input)
			render()
		}
	}
}

// watchTransform reads the problem afresh and skips the cache, whose keys do
// not cover included files.
func watchTransform(ctx context.Context, app *App, path string) (*domain.Node, error) {
	text, err := file.ReadText(path)
	if err != nil {
		return nil, &domain.IOError{Path: path, Err: err}
	}
	doc, err := app.Converter.Parse(path, text)
	if err != nil {
		return nil, err
	}
	return app.Converter.TransformDocument(ctx, doc, app.Converter.BaseDir())
}

// watchDirs returns the base directory, plus the problem's directory when it
// lies outside of it.
func watchDirs(input, baseDir string) []string {
	dirs := []string{baseDir}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return dirs
	}
	dir, err := filepath.Abs(filepath.Dir(input))
	if err != nil {
		return dirs
	}
	if rel, err := filepath.Rel(base, dir); err != nil || !filepath.IsLocal(rel) {
		dirs = append(dirs, filepath.Dir(input))
	}
	return dirs
}

// watchRecursive adds root and its subdirectories, skipping hidden ones.
func watchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func relevant(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}
