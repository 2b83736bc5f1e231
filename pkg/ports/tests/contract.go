package tests

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/aretw0/cnftree/pkg/ports"
)

// SourceLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.SourceLoader.
// setupData maps include paths (relative to baseDir) to their expected content.
func SourceLoaderContractTest(t *testing.T, loader ports.SourceLoader, baseDir string, setupData map[string][]byte) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_Success", func(t *testing.T) {
		for path, expectedContent := range setupData {
			src, err := loader.Load(ctx, baseDir, path)
			if err != nil {
				t.Fatalf("unexpected error loading %s: %v", path, err)
			}
			if string(src.Content) != string(expectedContent) {
				t.Errorf("content mismatch for %s. got %q, want %q", path, src.Content, expectedContent)
			}
			if src.Path == "" {
				t.Errorf("resolved path for %s is empty", path)
			}
		}
	})

	t.Run("Load_StablePath", func(t *testing.T) {
		for path := range setupData {
			a, errA := loader.Load(ctx, baseDir, path)
			b, errB := loader.Load(ctx, baseDir, path)
			if errA != nil || errB != nil {
				t.Fatalf("unexpected errors loading %s: %v, %v", path, errA, errB)
			}
			if a.Path != b.Path {
				t.Errorf("resolved path for %s is not stable: %q vs %q", path, a.Path, b.Path)
			}
		}
	})

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := loader.Load(ctx, baseDir, "non-existent.p")
		if err == nil {
			t.Fatal("expected error for non-existent file, got nil")
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected fs.ErrNotExist, got %v", err)
		}
	})
}
