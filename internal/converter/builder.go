// Package converter normalizes language-specific analyzer output into the
// canonical dependency graph defined in package models.
package converter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/depscope/core/internal/models"
)

// Lookup namespaces. A reference only resolves against nodes registered in
// the namespace it names.
const (
	nsClass     = "class"
	nsComponent = "component"
	nsFile      = "file"
	nsModule    = "module"
	nsModel     = "model"
	nsApp       = "app"
	nsView      = "view"
)

const convertedAtLayout = "2006-01-02T15:04:05.000Z07:00"

type edgeKey struct {
	source    string
	target    string
	kind      models.EdgeType
	direction string
}

// graphBuilder holds the state of a single conversion call. Nodes are always
// registered before any edge refers to them, and link refuses endpoints that
// are not registered.
type graphBuilder struct {
	format string
	log    *slog.Logger

	nodeIDs *idSpace
	partIDs *idSpace

	nodes   []models.Node
	known   map[string]struct{}
	lookup  map[string]map[string]string
	edges   []models.Edge
	emitted map[edgeKey]struct{}
}

func newGraphBuilder(format string, log *slog.Logger) *graphBuilder {
	return &graphBuilder{
		format:  format,
		log:     log.With(slog.String("format", format)),
		nodeIDs: newIDSpace(),
		partIDs: newIDSpace(),
		nodes:   []models.Node{},
		known:   make(map[string]struct{}),
		lookup:  make(map[string]map[string]string),
		edges:   []models.Edge{},
		emitted: make(map[edgeKey]struct{}),
	}
}

// claimNode reserves the node id for (prefix, key). It returns false when the
// key was already claimed in this run; the caller must then skip the record.
func (b *graphBuilder) claimNode(prefix, key string) (string, bool) {
	id, fresh := b.nodeIDs.claim(prefix, key)
	if !fresh {
		b.log.Warn("skipping duplicate node", slog.String("key", key), slog.String("id", id))
		return id, false
	}
	if id != GenerateID(prefix, key) {
		b.log.Debug("node id collision resolved", slog.String("key", key), slog.String("id", id))
	}
	return id, true
}

func (b *graphBuilder) addNode(node models.Node) {
	if node.Sections == nil {
		node.Sections = []models.Section{}
	}
	b.nodes = append(b.nodes, node)
	b.known[node.ID] = struct{}{}
}

// alias makes id resolvable by name within namespace. The first alias wins.
func (b *graphBuilder) alias(namespace, name, id string) {
	names, ok := b.lookup[namespace]
	if !ok {
		names = make(map[string]string)
		b.lookup[namespace] = names
	}
	if _, exists := names[name]; exists {
		return
	}
	names[name] = id
}

func (b *graphBuilder) resolve(namespace, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	id, ok := b.lookup[namespace][name]
	return id, ok
}

// link appends an edge between two registered nodes. Repeats of the same
// (source, target, type) within the run are ignored; the direction only tells
// apart the incoming and outgoing copies of a file dependency.
func (b *graphBuilder) link(source, target string, kind models.EdgeType, meta models.EdgeMetadata) {
	_, okSource := b.known[source]
	_, okTarget := b.known[target]
	if !okSource || !okTarget {
		b.log.Error("refusing dangling edge",
			slog.String("source", source),
			slog.String("target", target),
			slog.String("type", string(kind)))
		return
	}

	key := edgeKey{
		source:    source,
		target:    target,
		kind:      kind,
		direction: meta.Direction,
	}
	if _, seen := b.emitted[key]; seen {
		return
	}
	b.emitted[key] = struct{}{}

	b.edges = append(b.edges, models.Edge{
		Source:   source,
		Target:   target,
		Type:     kind,
		Metadata: meta,
	})
}

func (b *graphBuilder) item(prefix, key, value string, icon models.Icon, meta map[string]any) models.Item {
	return models.Item{
		ID:       b.partIDs.next(prefix, key),
		Value:    value,
		Icon:     icon,
		Metadata: meta,
	}
}

// section appends a named section to sections unless items is empty.
func (b *graphBuilder) section(sections []models.Section, nodeID, kind, name string, items []models.Item) []models.Section {
	if len(items) == 0 {
		return sections
	}
	return append(sections, models.Section{
		ID:    b.partIDs.next("sec", nodeID+"_"+kind),
		Name:  name,
		Items: items,
	})
}

// rejected logs list elements that could not be decoded.
func (b *graphBuilder) rejected(owner, list string, errs []models.ItemError) {
	for _, err := range errs {
		b.log.Warn("skipping malformed entry",
			slog.String("owner", owner),
			slog.String("list", list),
			slog.String("error", err.Error()))
	}
}

// degraded logs list elements that were kept without some of their fields.
func (b *graphBuilder) degraded(list string, errs []models.ItemError) {
	for _, err := range errs {
		b.log.Warn("keeping entry without malformed fields",
			slog.String("list", list),
			slog.String("error", err.Error()))
	}
}

func (b *graphBuilder) ignored(owner string, err *models.IgnoredFieldsError) {
	if err == nil {
		return
	}
	b.log.Warn("ignoring malformed fields",
		slog.String("owner", owner),
		slog.Any("fields", err.Fields))
}

func (b *graphBuilder) graph(projectType, projectName string, original json.RawMessage, now time.Time) *models.Graph {
	if len(original) == 0 || string(original) == "null" {
		original = json.RawMessage("{}")
	}

	return &models.Graph{
		Nodes: b.nodes,
		Edges: b.edges,
		Metadata: models.GraphMetadata{
			ProjectType:    projectType,
			ProjectName:    projectName,
			ConvertedAt:    now.UTC().Format(convertedAtLayout),
			OriginalFormat: original,
		},
	}
}

// buildItems formats every decoded element of list into an item. A panic
// while formatting one element drops that element only.
func buildItems[T any](b *graphBuilder, owner, name string, list models.List[T], format func(T) models.Item) []models.Item {
	b.rejected(owner, name, list.Invalid)
	b.degraded(owner+"."+name, list.Partial)

	items := make([]models.Item, 0, list.Len())
	for i, v := range list.Items {
		item, ok := guard(b, owner, name, i, func() models.Item { return format(v) })
		if ok {
			items = append(items, item)
		}
	}
	return items
}

func guard[T any](b *graphBuilder, owner, name string, index int, fn func() T) (out T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn("skipping entry that failed to format",
				slog.String("owner", owner),
				slog.String("list", name),
				slog.Int("index", index),
				slog.String("error", fmt.Sprint(r)))
			ok = false
		}
	}()
	return fn(), true
}

func boolPtr(v bool) *bool {
	return &v
}
