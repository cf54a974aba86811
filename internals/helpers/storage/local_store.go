package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore writes blobs under Dir; refs are bare file names.
type LocalStore struct {
	Dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{Dir: dir}, nil
}

func (s *LocalStore) Driver() string { return DriverLocal }

func (s *LocalStore) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	n, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.Dir, n), data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", n, err)
	}
	return n, nil
}

func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	n, err := cleanName(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.Dir, n)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) Locate(ctx context.Context, ref string) (Location, error) {
	n, err := cleanName(ref)
	if err != nil {
		return Location{}, err
	}
	p := filepath.Join(s.Dir, n)
	if _, err := os.Stat(p); err != nil {
		return Location{}, err
	}
	return Location{LocalPath: p}, nil
}

func (s *LocalStore) List(ctx context.Context) ([]Object, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, err
	}
	out := make([]Object, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Object{Ref: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return out, nil
}
