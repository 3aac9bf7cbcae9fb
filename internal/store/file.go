// Package store persists standardized graphs per project.
// Graphs are written as the pretty-printed standard-dependencies.json file.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/depscope/core/internal/models"
)

// FileStore keeps one directory per project under Dir.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) Save(ctx context.Context, project string, graph *models.Graph) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.path(project)
	if err != nil {
		return err
	}

	data, err := encode(graph)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create project dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, project string) (*models.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.path(project)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	return decode(data)
}

func (s *FileStore) path(project string) (string, error) {
	key, err := ProjectKey(project)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, key, FileName), nil
}
