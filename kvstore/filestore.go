package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const (
	fileDirMode  = 0o700
	fileDataMode = 0o600
)

type fileStore struct {
	root string
	mu   sync.RWMutex
}

// NewFileStore creates a Store that keeps one file per key directly under
// root. The directory is created on first Save.
func NewFileStore(root string) Store {
	return &fileStore{root: filepath.Clean(root)}
}

func (s *fileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	var keys []string
	for _, d := range dirEntries {
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			continue
		}
		keys = append(keys, d.Name())
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *fileStore) Load(ctx context.Context, keys ...string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		if err := ValidateKey(key); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(s.root, key))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, key, err)
		}
		entries = append(entries, Entry{Key: key, Value: data})
	}
	return entries, nil
}

// Save writes each value to a temporary file and renames it into place, so a
// reader never observes a partially written value.
func (s *fileStore) Save(ctx context.Context, entries ...Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.root, fileDirMode); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	for _, e := range entries {
		if err := ValidateKey(e.Key); err != nil {
			return err
		}
		if err := s.writeAtomic(e); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrSaveFailed, e.Key, err)
		}
	}
	return nil
}

func (s *fileStore) writeAtomic(e Entry) error {
	tmp, err := os.CreateTemp(s.root, ".tmp-"+e.Key+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(e.Value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(fileDataMode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, filepath.Join(s.root, e.Key)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (s *fileStore) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		if err := ValidateKey(key); err != nil {
			return err
		}
		err := os.Remove(filepath.Join(s.root, key))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}
