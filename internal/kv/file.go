package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"charm.land/log/v2"
	"github.com/adrg/xdg"
	"github.com/fsnotify/fsnotify"
)

const fileExt = ".json"

// DefaultDir returns the directory used by the desktop for persisted state.
func DefaultDir() string {
	return filepath.Join(xdg.StateHome, "navi", "store")
}

// FileStore keeps one JSON file per key inside a directory.
type FileStore struct {
	dir string

	mu       sync.Mutex
	watchers []*fsnotify.Watcher
	wg       sync.WaitGroup
}

// NewFileStore opens (and creates if needed) a store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("kv: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Open opens the store in DefaultDir.
func Open() (*FileStore, error) {
	return NewFileStore(DefaultDir())
}

// Dir returns the directory backing the store.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file that holds key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

// Load decodes the file stored under key into v.
func (s *FileStore) Load(key string, v any) error {
	if err := validKey(key); err != nil {
		return err
	}
	raw, err := os.ReadFile(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("kv: read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("kv: decode %s: %w", key, err)
	}
	return nil
}

// Save writes v under key. The document is written to a temporary file and
// renamed into place so readers never observe a partial write.
func (s *FileStore) Save(key string, v any) error {
	if err := validKey(key); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("kv: create temp for %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("kv: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("kv: write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		return fmt.Errorf("kv: replace %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *FileStore) Delete(key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("kv: delete %s: %w", key, err)
	}
	return nil
}

// Watch calls fn with the key of every document written to the store
// directory, including writes made by other processes. It returns once the
// watcher is registered; events are delivered on a background goroutine
// until ctx is done or Close is called.
func (s *FileStore) Watch(ctx context.Context, fn func(key string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("kv: create watcher: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return fmt.Errorf("kv: watch %s: %w", s.dir, err)
	}

	s.mu.Lock()
	s.watchers = append(s.watchers, w)
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if key, ok := keyFromPath(ev.Name); ok {
					fn(key)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Debug("kv watcher error", "dir", s.dir, "err", err)
			}
		}
	}()
	return nil
}

func keyFromPath(path string) (string, bool) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
		return "", false
	}
	return strings.TrimSuffix(name, fileExt), true
}

// Close stops every watcher started by Watch and waits for their goroutines.
func (s *FileStore) Close() error {
	s.mu.Lock()
	watchers := s.watchers
	s.watchers = nil
	s.mu.Unlock()

	var errs []error
	for _, w := range watchers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.wg.Wait()
	return errors.Join(errs...)
}
