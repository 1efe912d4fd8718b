package audio

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abstractedfox/gameengine/internal/config"
	mfs "github.com/abstractedfox/gameengine/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLister(t *testing.T, files ...string) (*Lister, string) {
	t.Helper()

	dir := t.TempDir()
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644))
	}
	cfg := config.DefaultConfig()
	cfg.Audio.Dir = dir
	return NewLister(cfg, mfs.NewLocalFS(dir)), dir
}

func TestList(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  []string
	}{
		{
			name:  "only recognized extensions",
			files: []string{"a.mp3", "b.wav", "c.mp3"},
			want:  []string{"a.mp3", "b.wav", "c.mp3"},
		},
		{
			name:  "only unrecognized extensions",
			files: []string{"notes.txt", "song.flac", "readme"},
			want:  []string{},
		},
		{
			name:  "mixed",
			files: []string{"intro.mp3", "loop.wav", "notes.txt"},
			want:  []string{"intro.mp3", "loop.wav"},
		},
		{
			name:  "case sensitive",
			files: []string{"a.MP3", "b.Wav", "ab.wav"},
			want:  []string{"ab.wav"},
		},
		{
			name:  "empty directory",
			files: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLister(t, tt.files...)

			got, err := l.List(context.Background())
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestListIncludesMatchingSubdirectories(t *testing.T) {
	l, dir := newTestLister(t, "a.mp3")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "odd.wav"), 0o755))

	got, err := l.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.mp3", "odd.wav"}, got)
}

func TestListIdempotent(t *testing.T) {
	l, _ := newTestLister(t, "intro.mp3", "loop.wav", "notes.txt")

	first, err := l.List(context.Background())
	require.NoError(t, err)
	second, err := l.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, first, second)
}

func TestListSeesNewFiles(t *testing.T) {
	l, dir := newTestLister(t, "intro.mp3")

	first, err := l.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"intro.mp3"}, first)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "late.wav"), nil, 0o644))
	second, err := l.List(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"intro.mp3", "late.wav"}, second)
}

func TestListMissingDirectory(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Audio.Dir = filepath.Join(t.TempDir(), "missing")
	l := NewLister(cfg, mfs.NewLocalFS(cfg.Audio.Dir))

	_, err := l.List(context.Background())
	require.Error(t, err)

	var listErr *ListError
	require.True(t, errors.As(err, &listErr))
	assert.Equal(t, cfg.Audio.Dir, listErr.Dir)
	assert.True(t, errors.Is(err, iofs.ErrNotExist))
	assert.Contains(t, err.Error(), "missing")
}

func TestListCanceled(t *testing.T) {
	l, _ := newTestLister(t, "a.mp3")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListCustomExtensions(t *testing.T) {
	l, _ := newTestLister(t, "a.mp3", "b.ogg", "c.wav")
	l.cfg.Audio.Extensions = []string{".ogg"}

	got, err := l.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b.ogg"}, got)
}

func TestFormatPipe(t *testing.T) {
	assert.Equal(t, "", FormatPipe(nil))
	assert.Equal(t, "", FormatPipe([]string{}))
	assert.Equal(t, "|intro.mp3", FormatPipe([]string{"intro.mp3"}))
	assert.Equal(t, "|intro.mp3|loop.wav", FormatPipe([]string{"intro.mp3", "loop.wav"}))
}

func TestFormatPipeRoundTrip(t *testing.T) {
	l, _ := newTestLister(t, "intro.mp3", "loop.wav", "notes.txt", "x.MP3")

	names, err := l.List(context.Background())
	require.NoError(t, err)

	body := FormatPipe(names)
	require.True(t, strings.HasPrefix(body, Separator))
	assert.ElementsMatch(t, []string{"intro.mp3", "loop.wav"}, strings.Split(body, Separator)[1:])
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.mp3", "audio/mpeg"},
		{"a.wav", "audio/wav"},
		{"a.ogg", "audio/ogg"},
		{"a.bin", "application/octet-stream"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ContentType(tt.name), tt.name)
	}
}
