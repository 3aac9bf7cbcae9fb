// Package converter normalizes language-specific analyzer output into the
// canonical dependency graph defined in package models.
package converter

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tidwall/gjson"

	"github.com/depscope/core/internal/models"
)

var (
	ErrEmptyDocument     = errors.New("empty dependency document")
	ErrMalformedDocument = errors.New("malformed dependency document")
)

// UnsupportedFormatError is returned when a document is classified as a type
// that has no converter, including Unknown.
type UnsupportedFormatError struct {
	Type DependencyType
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported dependency format: %s", e.Type)
}

type convertFunc func(c *Converter, root gjson.Result, data []byte) (*models.Graph, error)

var converters = map[DependencyType]convertFunc{
	TypeScript: convertTypeScript,
	Java:       convertJava,
	Python:     convertPython,
}

type Option func(*Converter)

func WithLogger(log *slog.Logger) Option {
	return func(c *Converter) {
		if log != nil {
			c.log = log
		}
	}
}

// WithClock sets the source of the convertedAt timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.now = now
		}
	}
}

// Converter turns analyzer documents into graphs. It keeps no state between
// calls and is safe for concurrent use.
type Converter struct {
	log *slog.Logger
	now func() time.Time
}

func New(opts ...Option) *Converter {
	c := &Converter{
		log: slog.Default(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ConvertDependencies detects the format of data and converts it with a
// default Converter.
func ConvertDependencies(data []byte) (*models.Graph, error) {
	return New().Convert(data)
}

// Convert detects the format of data and converts it. Either a complete graph
// or an error is returned.
func (c *Converter) Convert(data []byte) (*models.Graph, error) {
	root, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	return c.convert(detect(root), root, data)
}

// ConvertAs converts data with the converter registered for t, skipping
// detection.
func (c *Converter) ConvertAs(t DependencyType, data []byte) (*models.Graph, error) {
	root, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	return c.convert(t, root, data)
}

func (c *Converter) convert(t DependencyType, root gjson.Result, data []byte) (*models.Graph, error) {
	fn, ok := converters[t]
	if !ok {
		return nil, &UnsupportedFormatError{Type: t}
	}

	graph, err := fn(c, root, data)
	if err != nil {
		return nil, err
	}

	c.log.Debug("converted dependency document",
		slog.String("type", string(t)),
		slog.Int("nodes", len(graph.Nodes)),
		slog.Int("edges", len(graph.Edges)))

	return graph, nil
}

func (c *Converter) newBuilder(format string) *graphBuilder {
	return newGraphBuilder(format, c.log)
}

func parseDocument(data []byte) (gjson.Result, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return gjson.Result{}, ErrEmptyDocument
	}
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%w: invalid JSON", ErrMalformedDocument)
	}
	return gjson.ParseBytes(data), nil
}

func decodeError(format string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformedDocument, format, err)
}
