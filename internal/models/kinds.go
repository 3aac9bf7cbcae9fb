// Package models defines the core data structures shared by converters and consumers.
// It includes the canonical dependency graph and the analyzer input documents.
package models

// NodeType is the semantic kind of a node. The set is open: analyzers may
// introduce kinds this package does not list, and they pass through as-is.
type NodeType string

const (
	NodeClass     NodeType = "class"
	NodeInterface NodeType = "interface"
	NodeComponent NodeType = "component"
	NodeModule    NodeType = "module"
	NodePackage   NodeType = "package"
	NodeFile      NodeType = "file"
	NodeModel     NodeType = "model"
	NodeView      NodeType = "view"
	NodeApp       NodeType = "app"
)

func (t NodeType) Known() bool {
	switch t {
	case NodeClass, NodeInterface, NodeComponent, NodeModule, NodePackage,
		NodeFile, NodeModel, NodeView, NodeApp:
		return true
	}
	return false
}

// EdgeType is the relationship kind of an edge. Python relationship edges
// carry the lowercased relationship type from the analyzer, so unknown values
// are expected.
type EdgeType string

const (
	EdgeInheritance    EdgeType = "inheritance"
	EdgeImplementation EdgeType = "implementation"
	EdgeDependency     EdgeType = "dependency"
	EdgeContains       EdgeType = "contains"
	EdgeRenders        EdgeType = "renders"
	EdgeUses           EdgeType = "uses"
)

func (t EdgeType) Known() bool {
	switch t {
	case EdgeInheritance, EdgeImplementation, EdgeDependency, EdgeContains,
		EdgeRenders, EdgeUses:
		return true
	}
	return false
}

// Icon tags an item for display.
type Icon string

const (
	IconField        Icon = "field"
	IconMethod       Icon = "method"
	IconConstructor  Icon = "constructor"
	IconProp         Icon = "prop"
	IconState        Icon = "state"
	IconHook         Icon = "hook"
	IconDependency   Icon = "dependency"
	IconImport       Icon = "import"
	IconInheritance  Icon = "inheritance"
	IconInterface    Icon = "interface"
	IconRelationship Icon = "relationship"
	IconExport       Icon = "export"
	IconPackage      Icon = "package"
	IconComponent    Icon = "component"
	IconFunction     Icon = "function"
	IconPath         Icon = "path"
	IconInfo         Icon = "info"
	IconTemplate     Icon = "template"
	IconModel        Icon = "model"
)
