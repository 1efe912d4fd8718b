// Package audio scans the audio directory and describes the files it finds.
package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/abstractedfox/gameengine/internal/config"
	mfs "github.com/abstractedfox/gameengine/internal/fs"
)

// Separator is written before every filename in the pipe encoding.
const Separator = "|"

// ListError is returned when the audio directory cannot be listed.
type ListError struct {
	Dir string
	Err error
}

func (e *ListError) Error() string {
	return fmt.Sprintf("list audio directory %s: %v", e.Dir, e.Err)
}

func (e *ListError) Unwrap() error {
	return e.Err
}

// Lister lists audio files in a single directory. It holds no state
// between calls; every call rescans.
type Lister struct {
	cfg *config.Config
	fs  mfs.FileSystem
}

// NewLister creates a Lister over fsys, which must be rooted at the audio directory.
func NewLister(cfg *config.Config, fsys mfs.FileSystem) *Lister {
	return &Lister{cfg: cfg, fs: fsys}
}

// List returns the names of all directory entries that carry a recognized
// audio extension, in the order the directory listing yields them.
func (l *Lister) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := l.fs.ReadDir("")
	if err != nil {
		return nil, &ListError{Dir: l.cfg.Audio.Dir, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if l.cfg.IsAudioFile(e.Name) {
			names = append(names, e.Name)
		}
	}
	return names, nil
}

// FormatPipe encodes names as a single string with Separator before each
// name. An empty list encodes to the empty string.
func FormatPipe(names []string) string {
	var b strings.Builder
	for _, name := range names {
		b.WriteString(Separator)
		b.WriteString(name)
	}
	return b.String()
}

// ContentType returns the MIME type for an audio file name.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	case ".m4a":
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}
