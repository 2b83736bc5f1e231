package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTPTPRoot creates a temporary TPTP root holding files, keyed by
// slash-separated paths relative to the root. It returns the absolute path to
// the root and fails the test immediately on error.
func SetupTPTPRoot(t *testing.T, files map[string]string) string {
	t.Helper()

	root, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, content := range files {
		WriteFile(t, filepath.Join(root, filepath.FromSlash(name)), []byte(content))
	}
	return root
}

// WriteFile writes content at path, creating parent directories as needed.
func WriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, content, 0644))
}
