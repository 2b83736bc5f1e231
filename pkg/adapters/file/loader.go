package file

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aretw0/cnftree/pkg/ports"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Loader implements ports.SourceLoader on the local filesystem.
// A leading UTF-8 or UTF-16 byte order mark is honoured and stripped.
type Loader struct {
	confined bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithConfinement rejects include paths that are absolute or climb out of
// the base directory. Services enable it for untrusted input.
func WithConfinement() LoaderOption {
	return func(l *Loader) {
		l.confined = true
	}
}

// NewLoader creates a filesystem loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads baseDir/name. The returned Path is absolute so that the same file
// reached through different relative spellings is recognised as one.
func (l *Loader) Load(ctx context.Context, baseDir, name string) (ports.Source, error) {
	if err := ctx.Err(); err != nil {
		return ports.Source{}, err
	}
	if l.confined && !filepath.IsLocal(name) {
		return ports.Source{}, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}

	abs, err := l.Resolve(baseDir, name)
	if err != nil {
		return ports.Source{}, err
	}

	content, err := ReadText(abs)
	if err != nil {
		return ports.Source{}, err
	}
	return ports.Source{Path: abs, Content: content}, nil
}

// Resolve returns the absolute path Load would read for name.
func (l *Loader) Resolve(baseDir, name string) (string, error) {
	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(baseDir, name)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	return abs, nil
}

// ReadText reads a problem file, decoding it to UTF-8 according to its BOM.
func ReadText(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeText(f)
}

// DecodeText reads r to the end, honouring and dropping a leading BOM.
func DecodeText(r io.Reader) ([]byte, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return io.ReadAll(transform.NewReader(r, decoder))
}
