// Package converter normalizes language-specific analyzer output into the
// canonical dependency graph defined in package models.
package converter

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/depscope/core/internal/models"
)

func convertPython(c *Converter, root gjson.Result, data []byte) (*models.Graph, error) {
	if isDjangoDocument(root) {
		return convertDjango(c, root, data)
	}

	doc, ignored, err := models.DecodeRecord[models.PythonDocument](data)
	if err != nil {
		return nil, decodeError("python", err)
	}

	b := c.newBuilder("python")
	b.ignored("document", ignored)
	b.rejected("modules", "modules", doc.Modules.Invalid)
	b.rejected("models", "models", doc.Models.Invalid)
	b.degraded("modules", doc.Modules.Partial)
	b.degraded("models", doc.Models.Partial)

	for i := range doc.Modules.Items {
		mod := &doc.Modules.Items[i]

		id, ok := b.claimNode("python_module", mod.Name)
		if !ok {
			continue
		}
		b.alias(nsModule, mod.Name, id)
		b.addNode(buildPythonModuleNode(b, id, mod))
	}

	type modelNode struct {
		id    string
		model *models.PythonModel
	}

	var registered []modelNode
	for i := range doc.Models.Items {
		model := &doc.Models.Items[i]

		id, ok := b.claimNode("python_model", model.Name)
		if !ok {
			continue
		}
		b.alias(nsModel, model.Name, id)
		b.addNode(buildPythonModelNode(b, id, model))
		registered = append(registered, modelNode{id: id, model: model})
	}

	for _, n := range registered {
		if moduleID, ok := b.resolve(nsModule, n.model.Module); ok {
			b.link(moduleID, n.id, models.EdgeContains, models.EdgeMetadata{Relationship: "module_class"})
		}
	}

	for _, n := range registered {
		for _, base := range n.model.Bases.Items {
			if target, ok := b.resolve(nsModel, base); ok {
				b.link(n.id, target, models.EdgeInheritance, models.EdgeMetadata{Relationship: "extends"})
			}
		}
	}

	for _, n := range registered {
		linkRelationships(b, n.id, n.model.Relationships)
	}

	return b.graph("python", projectName(root, "Python Project"), doc.Metadata, c.now()), nil
}

func isDjangoDocument(root gjson.Result) bool {
	return root.Get("apps").IsArray() && root.Get("models").IsArray() && root.Get("views").IsArray()
}

func projectName(root gjson.Result, fallback string) string {
	if name := root.Get("metadata.projectName").String(); name != "" {
		return name
	}
	return fallback
}

func buildPythonModuleNode(b *graphBuilder, id string, mod *models.PythonModule) models.Node {
	var sections []models.Section
	owner := mod.Name

	imports := buildItems(b, owner, "imports", mod.Imports, func(imp models.PythonImport) models.Item {
		value := "from " + imp.Module + " import " + strings.Join(imp.Names.Items, ", ")
		return b.item("import", owner+"_"+imp.Module, value, models.IconImport, nil)
	})
	sections = b.section(sections, id, "imports", "Imports", imports)

	exports := buildItems(b, owner, "exports", mod.Exports, func(name string) models.Item {
		return b.item("export", owner+"_"+name, name, models.IconExport, nil)
	})
	sections = b.section(sections, id, "exports", "Exports", exports)

	nodeType := models.NodeModule
	if mod.IsPackage {
		nodeType = models.NodePackage
	}

	return models.Node{
		ID:       id,
		Title:    mod.Name,
		Type:     nodeType,
		Sections: sections,
		Metadata: models.NodeMetadata{
			Path:      mod.Path,
			IsPackage: boolPtr(mod.IsPackage),
		},
	}
}

func buildPythonModelNode(b *graphBuilder, id string, model *models.PythonModel) models.Node {
	var sections []models.Section
	owner := model.Name

	bases := buildItems(b, owner, "bases", model.Bases, func(base string) models.Item {
		return b.item("base", owner+"_"+base, base, models.IconInheritance, nil)
	})
	sections = b.section(sections, id, "bases", "Inheritance", bases)

	sections = b.section(sections, id, "fields", "Fields", pythonFieldItems(b, owner, model.Fields))

	methods := buildItems(b, owner, "methods", model.Methods, func(m models.PythonMethod) models.Item {
		return b.item("method", owner+"_"+m.Name, formatPythonMethod(m), models.IconMethod, nil)
	})
	sections = b.section(sections, id, "methods", "Methods", methods)

	sections = b.section(sections, id, "relationships", "Relationships",
		pythonRelationshipItems(b, owner, model.Relationships))

	return models.Node{
		ID:       id,
		Title:    model.Name,
		Type:     models.NodeClass,
		Sections: sections,
		Metadata: models.NodeMetadata{
			Module:     model.Module,
			PyFilePath: model.FilePath,
			Meta:       nonNull(model.Meta),
			Bases:      model.Bases.Items,
		},
	}
}

func pythonFieldItems(b *graphBuilder, owner string, fields models.List[models.PythonField]) []models.Item {
	return buildItems(b, owner, "fields", fields, func(f models.PythonField) models.Item {
		return b.item("field", owner+"_"+f.Name, formatPythonField(f), models.IconField, f.Attributes.Map())
	})
}

func pythonRelationshipItems(b *graphBuilder, owner string, rels models.List[models.PythonRelationship]) []models.Item {
	return buildItems(b, owner, "relationships", rels, func(rel models.PythonRelationship) models.Item {
		var relatedName any
		if rel.RelatedName != nil {
			relatedName = *rel.RelatedName
		}
		return b.item("rel", owner+"_"+rel.FieldName, formatRelationship(rel), models.IconRelationship, map[string]any{
			"type":          rel.Type,
			"related_model": rel.RelatedModel,
			"related_name":  relatedName,
		})
	})
}

// linkRelationships adds one edge per relationship whose related model is a
// node of this graph, typed by the lowercased relationship type.
func linkRelationships(b *graphBuilder, source string, rels models.List[models.PythonRelationship]) {
	for _, rel := range rels.Items {
		target, ok := b.resolve(nsModel, rel.RelatedModel)
		if !ok {
			continue
		}
		b.link(source, target, relationshipEdgeType(rel.Type), models.EdgeMetadata{
			FieldName:   rel.FieldName,
			RelatedName: rel.RelatedName,
		})
	}
}

func relationshipEdgeType(kind string) models.EdgeType {
	if kind == "" {
		return "relationship"
	}
	return models.EdgeType(strings.ToLower(kind))
}

// formatPythonField renders "{name}: {type} (attr=value, ...)" with values as
// compact JSON.
func formatPythonField(f models.PythonField) string {
	value := f.Name + ": " + f.Type
	if len(f.Attributes) == 0 {
		return value
	}

	attrs := make([]string, 0, len(f.Attributes))
	for _, attr := range f.Attributes {
		attrs = append(attrs, attr.Key+"="+attr.CompactValue())
	}
	return value + " (" + strings.Join(attrs, ", ") + ")"
}

func formatPythonMethod(m models.PythonMethod) string {
	var decorators []string
	if m.IsStatic {
		decorators = append(decorators, "@staticmethod")
	}
	if m.IsClassmethod {
		decorators = append(decorators, "@classmethod")
	}
	if m.IsAbstract {
		decorators = append(decorators, "@abstractmethod")
	}

	value := m.Name + "(" + strings.Join(m.Parameters.Items, ", ") + ")"
	if m.Returns != "" {
		value += " -> " + m.Returns
	}
	if len(decorators) > 0 {
		value = strings.Join(decorators, " ") + " " + value
	}
	return value
}

func formatRelationship(rel models.PythonRelationship) string {
	value := rel.FieldName + " → " + rel.RelatedModel
	if rel.RelatedName != nil && *rel.RelatedName != "" {
		value += " (as " + *rel.RelatedName + ")"
	}
	return value + " (" + rel.Type + ")"
}

func nonNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}
