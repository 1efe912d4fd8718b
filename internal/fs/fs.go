// Package fs provides a read-only filesystem abstraction rooted at a directory.
package fs

import (
	"io"
	"time"
)

// FileInfo holds file metadata.
type FileInfo struct {
	Name    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// DirEntry represents a single directory entry.
type DirEntry struct {
	Name  string
	IsDir bool
}

// File is an open file that can be read from any offset.
type File interface {
	io.ReadSeeker
	io.Closer
}

// FileSystem abstracts the read operations the server performs so handlers
// and scanners can be tested against any directory.
type FileSystem interface {
	Open(path string) (File, error)
	ReadFile(path string) ([]byte, error)
	Stat(path string) (FileInfo, error)
	ReadDir(path string) ([]DirEntry, error)
}
