// Package local persists records to a JSON file on disk. It is the single-device
// backend: subscribers only see changes made through the same process.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/infra/store/memory"
)

type Store struct {
	path string
	mem  *memory.Store
}

// Open loads path if it exists. A missing file starts an empty store.
func Open(path string) (*Store, error) {
	data := map[string]entity.RawCollection{}

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read local store: %w", err)
	case len(b) > 0:
		if err := json.Unmarshal(b, &data); err != nil {
			return nil, fmt.Errorf("decode local store %s: %w", path, err)
		}
	}

	s := &Store{path: path, mem: memory.NewStoreFrom(data)}
	// the file is written before memory changes, so a failed write is never observed
	s.mem.SetPersister(s.persist)
	return s, nil
}

func (s *Store) Subscribe(ctx context.Context, path string, onSnapshot func(entity.RawCollection), onError func(error)) (entity.Unsubscribe, error) {
	return s.mem.Subscribe(ctx, path, onSnapshot, onError)
}

func (s *Store) Get(ctx context.Context, path, id string) (entity.Fields, error) {
	return s.mem.Get(ctx, path, id)
}

func (s *Store) Load(ctx context.Context, path string) (entity.RawCollection, error) {
	return s.mem.Load(ctx, path)
}

func (s *Store) Push(ctx context.Context, path string, fields entity.Fields) (string, error) {
	return s.mem.Push(ctx, path, fields)
}

func (s *Store) Update(ctx context.Context, path, id string, fields entity.Fields) error {
	return s.mem.Update(ctx, path, id, fields)
}

func (s *Store) Remove(ctx context.Context, path, id string) error {
	return s.mem.Remove(ctx, path, id)
}

// persist writes to a temp file and renames it so a crash never leaves half a file.
func (s *Store) persist(data map[string]entity.RawCollection) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create local store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".clients-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write local store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace local store: %w", err)
	}
	return nil
}
