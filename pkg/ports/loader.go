package ports

import "context"

// Source is the raw content of a problem file together with the path it was
// resolved to. Path is canonical for the loader: two includes of the same
// file yield the same Path, which is what include cycle detection relies on.
type Source struct {
	Path    string
	Content []byte
}

// SourceLoader defines how the transformer opens included files.
// This allows the storage layer (FS, Memory) to be decoupled.
type SourceLoader interface {
	// Load resolves path relative to baseDir and returns its content.
	// A missing file must yield an error matching fs.ErrNotExist.
	Load(ctx context.Context, baseDir, path string) (Source, error)
}

// PathResolver is implemented by loaders that can name a path the way Load
// would report it without reading the file. The engine uses it to seed the
// include chain with the root document.
type PathResolver interface {
	Resolve(baseDir, path string) (string, error)
}
