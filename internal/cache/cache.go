// Package cache keeps recently converted graphs keyed by document content.
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/depscope/core/internal/models"
)

// GraphCache is safe for concurrent use. Cached graphs are shared between
// callers and must not be modified.
type GraphCache struct {
	entries *lru.Cache[string, *models.Graph]
}

func New(size int) (*GraphCache, error) {
	entries, err := lru.New[string, *models.Graph](size)
	if err != nil {
		return nil, err
	}
	return &GraphCache{entries: entries}, nil
}

// Key identifies a document by its forced type and its compacted JSON, so
// whitespace differences map to the same entry.
func Key(forcedType string, document []byte) string {
	h := sha256.New()
	h.Write([]byte(forcedType))
	h.Write([]byte{0})

	var compact bytes.Buffer
	if err := json.Compact(&compact, document); err == nil {
		h.Write(compact.Bytes())
	} else {
		h.Write(document)
	}

	return hex.EncodeToString(h.Sum(nil))
}

func (c *GraphCache) Get(key string) (*models.Graph, bool) {
	if c == nil {
		return nil, false
	}
	return c.entries.Get(key)
}

func (c *GraphCache) Add(key string, graph *models.Graph) {
	if c == nil || graph == nil {
		return
	}
	c.entries.Add(key, graph)
}

func (c *GraphCache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
