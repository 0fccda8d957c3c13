// Package resolve implements the Module Resolver and Symbol Resolver: it
// turns a parser.CallSite into a resolved callgraph.FunctionId, and
// composes a parser.Parser with both resolvers into the concrete
// callgraph.SourceIndex the Builder traverses.
package resolve

import (
	"os"
	"path/filepath"
)

// FileSystem is every disk operation the resolvers and the parsed-file
// store need, kept behind an interface so tests can substitute an
// in-memory fake instead of touching a real filesystem.
type FileSystem interface {
	// ReadFile returns the contents of the file at path.
	ReadFile(path string) ([]byte, error)

	// FileExists reports whether path names a regular file.
	FileExists(path string) bool

	// EvalSymlinks resolves every symlink in path, as filepath.EvalSymlinks.
	// Used only by the workspace-symlink admission rule; a path with no
	// symlinks resolves to itself.
	EvalSymlinks(path string) (string, error)
}

// osFileSystem is the real, disk-backed FileSystem.
type osFileSystem struct{}

// NewOSFileSystem returns the FileSystem backed by the real filesystem.
func NewOSFileSystem() FileSystem {
	return osFileSystem{}
}

func (osFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (osFileSystem) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (osFileSystem) EvalSymlinks(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}
