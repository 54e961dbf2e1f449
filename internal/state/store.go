package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// Store keeps named snapshots as files under a directory.
// Safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	fs  afero.Fs
	dir string
}

func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

func (s *Store) pathFor(name string) string {
	if strings.HasSuffix(name, ".mp") || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name+".mp")
}

// Put writes snap under name, replacing any previous file atomically.
func (s *Store) Put(name string, snap *Snapshot) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pathFor(name)
	if err := s.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := afero.TempFile(s.fs, filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	renamed := false
	defer func() {
		if renamed {
			return
		}
		if rmErr := s.fs.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := Encode(f, snap); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", p, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := s.fs.Rename(f.Name(), p); err != nil {
		return err
	}
	renamed = true
	return nil
}

// Get reads the snapshot saved under name; ok is false when there is none.
func (s *Store) Get(name string) (snap *Snapshot, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.fs.Open(s.pathFor(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	snap, err = Decode(f)
	if err != nil {
		return nil, false, err
	}
	return snap, true, nil
}

// Drop removes the snapshot saved under name.
func (s *Store) Drop(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.fs.Remove(s.pathFor(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
