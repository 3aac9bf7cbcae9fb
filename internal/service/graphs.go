// Package service ties conversion, caching and persistence together for the
// HTTP and websocket front ends.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/depscope/core/internal/cache"
	"github.com/depscope/core/internal/converter"
	"github.com/depscope/core/internal/models"
	"github.com/depscope/core/internal/store"
)

var ErrStoreDisabled = errors.New("graph store is disabled")

type GraphService struct {
	converter *converter.Converter
	cache     *cache.GraphCache
	store     store.Store
	log       *slog.Logger
}

// New builds a GraphService. graphCache and graphStore may be nil.
func New(conv *converter.Converter, graphCache *cache.GraphCache, graphStore store.Store, log *slog.Logger) *GraphService {
	if log == nil {
		log = slog.Default()
	}
	return &GraphService{
		converter: conv,
		cache:     graphCache,
		store:     graphStore,
		log:       log,
	}
}

// Convert converts document, detecting its format unless format names one.
// The returned graph may be shared with other callers and must not be
// modified.
func (s *GraphService) Convert(ctx context.Context, format string, document []byte) (*models.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := cache.Key(format, document)
	if graph, ok := s.cache.Get(key); ok {
		s.log.Debug("graph cache hit", slog.String("key", key[:12]))
		return graph, nil
	}

	var (
		graph *models.Graph
		err   error
	)
	if format == "" {
		graph, err = s.converter.Convert(document)
	} else {
		t, ok := converter.ParseDependencyType(format)
		if !ok {
			return nil, &converter.UnsupportedFormatError{Type: converter.DependencyType(format)}
		}
		graph, err = s.converter.ConvertAs(t, document)
	}
	if err != nil {
		return nil, err
	}

	s.cache.Add(key, graph)
	return graph, nil
}

func (s *GraphService) Detect(document []byte) converter.DependencyType {
	return converter.DetectDependencyType(document)
}

func (s *GraphService) Save(ctx context.Context, project string, graph *models.Graph) error {
	if s.store == nil {
		return ErrStoreDisabled
	}
	if err := s.store.Save(ctx, project, graph); err != nil {
		return err
	}
	s.log.Info("saved graph",
		slog.String("project", project),
		slog.Int("nodes", len(graph.Nodes)),
		slog.Int("edges", len(graph.Edges)))
	return nil
}

func (s *GraphService) Load(ctx context.Context, project string) (*models.Graph, error) {
	if s.store == nil {
		return nil, ErrStoreDisabled
	}
	return s.store.Load(ctx, project)
}

// WithStats returns a copy of graph carrying its statistics.
func WithStats(graph *models.Graph) *models.Graph {
	out := *graph
	out.Stats = graph.ComputeStats()
	return &out
}
