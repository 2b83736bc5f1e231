/*
Package ports defines the driven ports (interfaces) for the cnftree transformer.

These interfaces decouple the core logic from external implementations, allowing
the transformer to read problems from various sources and cache its output in
various backends.

# Key Interfaces

  - SourceLoader: resolves include paths and reads problem files (e.g., from the filesystem or memory).
  - DocumentParser: turns raw TPTP CNF text into an AST.
  - TreeStore: caches transformed trees (Memory, Redis, SQLite, files).
*/
package ports
