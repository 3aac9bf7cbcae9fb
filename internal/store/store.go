// Package store persists standardized graphs per project.
// Graphs are written as the pretty-printed standard-dependencies.json file.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/depscope/core/internal/config"
	"github.com/depscope/core/internal/models"
)

const FileName = "standard-dependencies.json"

var (
	ErrNotFound       = errors.New("graph not found")
	ErrInvalidProject = errors.New("invalid project name")
)

type Store interface {
	Save(ctx context.Context, project string, graph *models.Graph) error
	Load(ctx context.Context, project string) (*models.Graph, error)
}

// New returns the backend selected by cfg. The "none" backend returns a nil
// Store, which callers treat as saving disabled.
func New(cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.StoreFile, "":
		return NewFileStore(cfg.Dir), nil
	case config.StoreS3:
		s, err := NewS3Store(cfg.S3)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown graph store backend %q", cfg.Backend)
	}
}

// ProjectKey reduces a project name to a single safe path segment.
func ProjectKey(project string) (string, error) {
	project = strings.TrimSpace(project)

	var b strings.Builder
	for _, r := range project {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	key := b.String()
	if key == "" || strings.Trim(key, ".") == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidProject, project)
	}
	return key, nil
}

func encode(graph *models.Graph) ([]byte, error) {
	data, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}
	return data, nil
}

func decode(data []byte) (*models.Graph, error) {
	var graph models.Graph
	if err := json.Unmarshal(data, &graph); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	return &graph, nil
}
