package audio

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/sirupsen/logrus"
)

// Track describes one audio file together with whatever tag metadata it carries.
type Track struct {
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	Format      string    `json:"format"`
	ContentType string    `json:"contentType"`
	Metadata    *Metadata `json:"metadata,omitempty"`
}

// Metadata holds the tag fields exposed to clients.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Artist      string `json:"artist,omitempty"`
	Album       string `json:"album,omitempty"`
	TrackNumber int    `json:"trackNumber,omitempty"`
}

// Tracks lists the audio files like List and reads size and tag metadata
// for each of them. Files that disappear between the listing and the stat
// are skipped.
func (l *Lister) Tracks(ctx context.Context) ([]Track, error) {
	names, err := l.List(ctx)
	if err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := l.fs.Stat(name)
		if err != nil {
			logrus.WithError(err).WithField("file", name).Debug("skipping vanished audio file")
			continue
		}

		tracks = append(tracks, Track{
			Filename:    name,
			Size:        info.Size,
			Format:      strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."),
			ContentType: ContentType(name),
			Metadata:    l.readMetadata(name),
		})
	}
	return tracks, nil
}

// readMetadata reads tags from the file and fills gaps from the file name.
func (l *Lister) readMetadata(name string) *Metadata {
	fallback := &Metadata{Title: strings.TrimSuffix(name, filepath.Ext(name))}

	f, err := l.fs.Open(name)
	if err != nil {
		return fallback
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// WAV and untagged files end up here
		logrus.WithError(err).WithField("file", name).Debug("no readable tags")
		return fallback
	}

	meta := &Metadata{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
	}
	meta.TrackNumber, _ = m.Track()
	if meta.Title == "" {
		meta.Title = fallback.Title
	}
	return meta
}
