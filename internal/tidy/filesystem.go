package tidy

// FilesystemManager abstracts the filesystem operations the engine needs, so
// the move machinery can be exercised against temp directories in tests.
type FilesystemManager interface {
	// FindFiles returns the absolute paths of all regular files under root,
	// recursively, in a deterministic order. Directories, non-regular files,
	// and ignored paths are skipped silently.
	FindFiles(root string) ([]string, error)

	// Exists reports whether a path exists (without following symlinks).
	Exists(path string) (bool, error)

	// MkdirAll creates a directory tree if it does not already exist.
	MkdirAll(path string) error

	// Move relocates a file. Renames within a volume; falls back to
	// copy+remove across volumes without ever leaving the source
	// half-moved.
	Move(src, dest string) error
}
