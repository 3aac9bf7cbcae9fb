// Package models defines the core data structures shared by converters and consumers.
// It includes the canonical dependency graph and the analyzer input documents.
package models

import "encoding/json"

type Graph struct {
	Nodes    []Node        `json:"nodes"`
	Edges    []Edge        `json:"edges"`
	Metadata GraphMetadata `json:"metadata"`
	Stats    *Stats        `json:"stats,omitempty"`
}

type GraphMetadata struct {
	ProjectType    string          `json:"projectType"`
	ProjectName    string          `json:"projectName"`
	ConvertedAt    string          `json:"convertedAt"`
	OriginalFormat json.RawMessage `json:"originalFormat"`
}

type Node struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Type     NodeType     `json:"type"`
	Sections []Section    `json:"sections"`
	Metadata NodeMetadata `json:"metadata"`
}

type Edge struct {
	Source   string       `json:"source"`
	Target   string       `json:"target"`
	Type     EdgeType     `json:"type"`
	Metadata EdgeMetadata `json:"metadata"`
}

type Section struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Items    []Item         `json:"items"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type Item struct {
	ID       string         `json:"id"`
	Value    string         `json:"value"`
	Icon     Icon           `json:"icon"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NodeMetadata enumerates the metadata keys each converter may set. Absent
// keys are unknown, never an error.
type NodeMetadata struct {
	// Java
	FullName             string   `json:"fullName,omitempty"`
	PackageName          string   `json:"packageName,omitempty"`
	SourceFile           string   `json:"sourceFile,omitempty"`
	IsAbstract           *bool    `json:"isAbstract,omitempty"`
	IsFinal              *bool    `json:"isFinal,omitempty"`
	SuperClassName       string   `json:"superClassName,omitempty"`
	Interfaces           []string `json:"interfaces,omitempty"`
	OutGoingDependencies []string `json:"outGoingDependencies,omitempty"`

	// TypeScript
	Name                 string   `json:"name,omitempty"`
	FilePath             string   `json:"filePath,omitempty"`
	FileName             string   `json:"fileName,omitempty"`
	OutgoingDependencies []string `json:"outgoingDependencies,omitempty"`

	// shared by Java and legacy TypeScript files
	IncomingDependencies []string `json:"incomingDependencies,omitempty"`

	// Python and Django
	Path         string          `json:"path,omitempty"`
	IsPackage    *bool           `json:"is_package,omitempty"`
	Module       string          `json:"module,omitempty"`
	PyFilePath   string          `json:"file_path,omitempty"`
	Meta         json.RawMessage `json:"meta,omitempty"`
	Bases        []string        `json:"bases,omitempty"`
	App          string          `json:"app,omitempty"`
	IsProjectApp *bool           `json:"is_project_app,omitempty"`
	Note         string          `json:"note,omitempty"`
	ViewType     string          `json:"type,omitempty"`
	HTTPMethods  []string        `json:"http_methods,omitempty"`
	Template     string          `json:"template,omitempty"`
}

type EdgeMetadata struct {
	Direction    string  `json:"direction,omitempty"`
	Relationship string  `json:"relationship,omitempty"`
	Path         string  `json:"path,omitempty"`
	IsExternal   *bool   `json:"isExternal,omitempty"`
	FieldName    string  `json:"field_name,omitempty"`
	RelatedName  *string `json:"related_name,omitempty"`
}

type Stats struct {
	TotalNodes  int            `json:"total_nodes"`
	TotalEdges  int            `json:"total_edges"`
	NodesByType map[string]int `json:"nodes_by_type,omitempty"`
	EdgesByType map[string]int `json:"edges_by_type,omitempty"`
}

func (g *Graph) NodeByID(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// DanglingEdges returns the edges whose source or target is not a node of g.
func (g *Graph) DanglingEdges() []Edge {
	ids := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = struct{}{}
	}

	var dangling []Edge
	for _, e := range g.Edges {
		_, okSource := ids[e.Source]
		_, okTarget := ids[e.Target]
		if !okSource || !okTarget {
			dangling = append(dangling, e)
		}
	}
	return dangling
}

func (g *Graph) ComputeStats() *Stats {
	stats := &Stats{
		TotalNodes:  len(g.Nodes),
		TotalEdges:  len(g.Edges),
		NodesByType: make(map[string]int),
		EdgesByType: make(map[string]int),
	}

	for _, n := range g.Nodes {
		stats.NodesByType[string(n.Type)]++
	}

	for _, e := range g.Edges {
		stats.EdgesByType[string(e.Type)]++
	}

	return stats
}

func (n Node) Section(name string) (Section, bool) {
	for _, s := range n.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}
