// Package watcher monitors the audio directory and reports changes to audio files via callbacks.
package watcher

import (
	"path/filepath"
	"sync"

	"github.com/abstractedfox/gameengine/internal/config"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// EventType represents the type of file system event
type EventType int

// File system event types.
const (
	EventCreate EventType = iota
	EventWrite
	EventRemove
	EventRename
)

// String returns the name used for the event on the wire.
func (t EventType) String() string {
	switch t {
	case EventCreate:
		return "create"
	case EventWrite:
		return "update"
	case EventRemove:
		return "remove"
	case EventRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Event represents a change to one audio file. Name is the base name
// inside the audio directory.
type Event struct {
	Type EventType
	Name string
}

// Callback is a function called when file changes occur
type Callback func(Event)

// Watcher monitors the audio directory. Subdirectories are not watched
// because listings never descend into them.
type Watcher struct {
	watcher   *fsnotify.Watcher
	cfg       *config.Config
	log       logrus.FieldLogger
	callbacks []Callback
	mu        sync.RWMutex
	done      chan struct{}
	stopOnce  sync.Once
}

// New creates a new file system watcher
func New(cfg *config.Config, log logrus.FieldLogger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher: w,
		cfg:     cfg,
		log:     log,
		done:    make(chan struct{}),
	}, nil
}

// OnChange registers a callback for file change events
func (w *Watcher) OnChange(cb Callback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Start begins watching the audio directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.cfg.Audio.Dir); err != nil {
		return err
	}

	go w.eventLoop()
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if !w.cfg.IsAudioFile(name) {
		return
	}

	var eventType EventType
	switch {
	case event.Has(fsnotify.Create):
		eventType = EventCreate
	case event.Has(fsnotify.Write):
		eventType = EventWrite
	case event.Has(fsnotify.Remove):
		eventType = EventRemove
	case event.Has(fsnotify.Rename):
		eventType = EventRename
	default:
		return
	}

	e := Event{
		Type: eventType,
		Name: name,
	}
	w.log.WithFields(logrus.Fields{"event": eventType.String(), "file": name}).Debug("audio directory changed")

	w.mu.RLock()
	callbacks := make([]Callback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, cb := range callbacks {
		cb(e)
	}
}
