package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNoCache is returned by the cache commands when caching is disabled.
var ErrNoCache = errors.New("no cache configured")

type keyLister interface {
	List(ctx context.Context) ([]string, error)
}

func (a *App) cacheKeys(ctx context.Context) ([]string, error) {
	if a.Cache == nil {
		return nil, ErrNoCache
	}
	lister, ok := a.Cache.(keyLister)
	if !ok {
		return nil, fmt.Errorf("cache backend %q cannot be listed", a.Config.Cache.Backend)
	}
	return lister.List(ctx)
}

// RunCacheList prints the keys of the cached trees, one per line.
func RunCacheList(ctx context.Context, app *App, out io.Writer) error {
	keys, err := app.cacheKeys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		fmt.Fprintln(out, key)
	}
	return nil
}

// RunCacheClear deletes every cached tree and reports how many were removed.
func RunCacheClear(ctx context.Context, app *App, out io.Writer) error {
	keys, err := app.cacheKeys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := app.Cache.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	app.Logger.Info("cache cleared", "backend", app.Config.Cache.Backend, "trees", len(keys))
	printSystemMessage(out, "Removed %d cached trees.", len(keys))
	return nil
}
