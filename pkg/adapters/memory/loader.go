package memory

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/aretw0/cnftree/pkg/ports"
)

// Loader implements ports.SourceLoader using an in-memory map of
// slash-separated paths to file contents.
type Loader struct {
	files map[string][]byte
}

// NewLoader creates a new Loader with the provided problem files.
// Keys are cleaned, so "./Axioms/A.ax" and "Axioms/A.ax" name the same file.
func NewLoader(files map[string]string) *Loader {
	data := make(map[string][]byte, len(files))
	for k, v := range files {
		data[path.Clean(k)] = []byte(v)
	}
	return &Loader{files: data}
}

// Load returns the file at baseDir/name.
func (l *Loader) Load(ctx context.Context, baseDir, name string) (ports.Source, error) {
	if err := ctx.Err(); err != nil {
		return ports.Source{}, err
	}
	p, _ := l.Resolve(baseDir, name)
	content, ok := l.files[p]
	if !ok {
		return ports.Source{}, fmt.Errorf("%s: %w", p, fs.ErrNotExist)
	}
	return ports.Source{Path: p, Content: content}, nil
}

// Resolve returns the key Load looks up for name.
func (l *Loader) Resolve(baseDir, name string) (string, error) {
	if path.IsAbs(name) || baseDir == "" {
		return path.Clean(name), nil
	}
	return path.Join(baseDir, name), nil
}

// List returns all file paths in deterministic order.
func (l *Loader) List() []string {
	keys := make([]string, 0, len(l.files))
	for k := range l.files {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys
}
