// Package converter normalizes language-specific analyzer output into the
// canonical dependency graph defined in package models.
package converter

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/depscope/core/internal/models"
)

func convertTypeScript(c *Converter, root gjson.Result, data []byte) (*models.Graph, error) {
	if root.IsObject() && root.Get("components").Exists() {
		return convertComponents(c, data)
	}
	return convertSourceFiles(c, root, data)
}

type componentNode struct {
	id        string
	component *models.ComponentInfo
}

func convertComponents(c *Converter, data []byte) (*models.Graph, error) {
	doc, ignored, err := models.DecodeRecord[models.ComponentDocument](data)
	if err != nil {
		return nil, decodeError("typescript", err)
	}

	b := c.newBuilder("typescript")
	b.ignored("document", ignored)
	b.rejected("components", "components", doc.Components.Invalid)
	b.degraded("components", doc.Components.Partial)

	var registered []componentNode
	for i := range doc.Components.Items {
		comp := &doc.Components.Items[i]

		id, ok := b.claimNode("comp", comp.Name)
		if !ok {
			continue
		}
		b.alias(nsComponent, comp.Name, id)
		b.addNode(buildComponentNode(b, id, comp))
		registered = append(registered, componentNode{id: id, component: comp})
	}

	for _, n := range registered {
		for _, dep := range n.component.Dependencies.Items {
			if target, ok := b.resolve(nsComponent, dep.Name); ok {
				b.link(n.id, target, models.EdgeDependency, models.EdgeMetadata{
					Path:       dep.Path,
					IsExternal: boolPtr(dep.IsExternal),
				})
			}
		}

		for _, child := range n.component.Children.Items {
			if target, ok := b.resolve(nsComponent, child); ok {
				b.link(n.id, target, models.EdgeRenders, models.EdgeMetadata{Relationship: "parent-child"})
			}
		}
	}

	return b.graph("typescript", "React TypeScript Project", nil, c.now()), nil
}

func buildComponentNode(b *graphBuilder, id string, comp *models.ComponentInfo) models.Node {
	var sections []models.Section
	owner := comp.Name

	props := buildItems(b, owner, "props", comp.Props, func(p models.ComponentProp) models.Item {
		value := p.Name
		if p.Type != "" {
			value += ": " + p.Type
		}
		if p.Required {
			value += " (required)"
		}
		return b.item("prop", owner+"_"+p.Name, value, models.IconProp, nil)
	})
	sections = b.section(sections, id, "props", "Props", props)

	state := buildItems(b, owner, "state", comp.State, func(s models.ComponentState) models.Item {
		value := s.Name
		if s.Type != "" {
			value += ": " + s.Type
		}
		if initial := displayValue(s.InitialValue); initial != "" {
			value += " = " + initial
		}
		return b.item("state", owner+"_"+s.Name, value, models.IconState, nil)
	})
	sections = b.section(sections, id, "state", "State", state)

	hooks := buildItems(b, owner, "hooks", comp.Hooks, func(h models.ComponentHook) models.Item {
		value := h.Type
		if h.CustomHook {
			value += " (custom)"
		}
		return b.item("hook", owner+"_"+h.Type, value, models.IconHook, nil)
	})
	sections = b.section(sections, id, "hooks", "Hooks", hooks)

	deps := buildItems(b, owner, "dependencies", comp.Dependencies, func(d models.ComponentDependency) models.Item {
		value := d.Name + " from '" + d.Path + "'"
		if d.IsExternal {
			value += " (external)"
		}
		return b.item("dep", owner+"_"+d.Name, value, models.IconDependency, nil)
	})
	sections = b.section(sections, id, "dependencies", "Dependencies", deps)

	children := buildItems(b, owner, "children", comp.Children, func(child string) models.Item {
		return b.item("child", owner+"_"+child, child, models.IconComponent, nil)
	})
	sections = b.section(sections, id, "children", "Children", children)

	return models.Node{
		ID:       id,
		Title:    comp.Name,
		Type:     models.NodeComponent,
		Sections: sections,
		Metadata: models.NodeMetadata{
			FilePath: comp.FilePath,
			Name:     comp.Name,
		},
	}
}

// displayValue renders a JSON scalar for display. Strings are shown without
// quotes; null, false, 0 and "" render as nothing.
func displayValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	v := gjson.ParseBytes(raw)
	if !truthy(v) {
		return ""
	}
	if v.Type == gjson.String {
		return v.Str
	}
	return v.Raw
}

type fileNode struct {
	id   string
	file *models.SourceFile
}

func convertSourceFiles(c *Converter, root gjson.Result, data []byte) (*models.Graph, error) {
	if !root.IsArray() {
		return nil, decodeError("typescript", errors.New("expected a components object or an array of files"))
	}

	var files models.List[models.SourceFile]
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, decodeError("typescript", err)
	}

	b := c.newBuilder("typescript")
	b.rejected("files", "files", files.Invalid)
	b.degraded("files", files.Partial)

	var registered []fileNode
	for i := range files.Items {
		file := &files.Items[i]

		id, ok := b.claimNode("ts", file.FilePath)
		if !ok {
			continue
		}
		b.alias(nsFile, file.FilePath, id)
		b.addNode(buildFileNode(b, id, file))
		registered = append(registered, fileNode{id: id, file: file})
	}

	for _, n := range registered {
		for _, path := range n.file.OutgoingDependencies.Items {
			if target, ok := b.resolve(nsFile, path); ok {
				b.link(n.id, target, models.EdgeDependency, models.EdgeMetadata{Direction: "outgoing"})
			}
		}

		for _, path := range n.file.IncomingDependencies.Items {
			if source, ok := b.resolve(nsFile, path); ok {
				b.link(source, n.id, models.EdgeDependency, models.EdgeMetadata{Direction: "incoming"})
			}
		}
	}

	return b.graph("typescript", "TypeScript Project", nil, c.now()), nil
}

func buildFileNode(b *graphBuilder, id string, file *models.SourceFile) models.Node {
	var sections []models.Section
	owner := file.FilePath

	imports := buildItems(b, owner, "imports", file.Imports, func(imp models.FileImport) models.Item {
		return b.item("imp", owner+"_"+imp.Path, formatImport(imp), models.IconImport, map[string]any{
			"path":             imp.Path,
			"isTypeOnly":       imp.IsTypeOnly,
			"resolvedFilePath": imp.ResolvedFilePath,
		})
	})
	sections = b.section(sections, id, "imports", "Imports", imports)

	exported := map[string]any{"isExported": true}
	var exports []models.Item

	exports = append(exports, buildItems(b, owner, "exports.functions", exportedOnly(file.Exports.Functions), func(fn models.ExportedFunction) models.Item {
		returnType := fn.ReturnType
		if returnType == "" {
			returnType = "void"
		}
		return b.item("func", owner+"_"+fn.Name, fn.Name+formatParams(fn.Params)+": "+returnType,
			models.IconFunction, exported)
	})...)

	exports = append(exports, buildItems(b, owner, "exports.components", file.Exports.Components, func(comp models.ExportedComponent) models.Item {
		kind := comp.Type
		if kind == "" {
			kind = "Component"
		}
		return b.item("comp", owner+"_"+comp.Name, comp.Name+": "+kind, models.IconComponent, exported)
	})...)

	exports = append(exports, buildItems(b, owner, "exports.interfaces", file.Exports.Interfaces, func(intf models.ExportedInterface) models.Item {
		return b.item("intf", owner+"_"+intf.Name, intf.Name, models.IconInterface, exported)
	})...)

	sections = b.section(sections, id, "exports", "Exports", exports)

	b.rejected(owner, "outgoingDependencies", file.OutgoingDependencies.Invalid)
	b.rejected(owner, "incomingDependencies", file.IncomingDependencies.Invalid)

	return models.Node{
		ID:       id,
		Title:    file.FileName,
		Type:     models.NodeFile,
		Sections: sections,
		Metadata: models.NodeMetadata{
			FilePath:             file.FilePath,
			FileName:             file.FileName,
			OutgoingDependencies: file.OutgoingDependencies.Items,
			IncomingDependencies: file.IncomingDependencies.Items,
		},
	}
}

// exportedOnly drops functions the analyzer saw but did not flag as exported.
func exportedOnly(functions models.List[models.ExportedFunction]) models.List[models.ExportedFunction] {
	out := models.List[models.ExportedFunction]{Invalid: functions.Invalid}
	for _, fn := range functions.Items {
		if fn.IsExported {
			out.Items = append(out.Items, fn)
		}
	}
	return out
}

func formatImport(imp models.FileImport) string {
	switch {
	case imp.NamedImports.Len() > 0:
		return "{ " + strings.Join(imp.NamedImports.Items, ", ") + " } from '" + imp.Path + "'"
	case imp.DefaultImport != "":
		return imp.DefaultImport + " from '" + imp.Path + "'"
	default:
		return "import '" + imp.Path + "'"
	}
}

func formatParams(params models.List[models.FunctionParam]) string {
	names := make([]string, 0, params.Len())
	for _, p := range params.Items {
		names = append(names, p.Name)
	}
	return "(" + strings.Join(names, ", ") + ")"
}
