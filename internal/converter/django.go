// Package converter normalizes language-specific analyzer output into the
// canonical dependency graph defined in package models.
package converter

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/depscope/core/internal/models"
)

type djangoModelNode struct {
	id    string
	model *models.DjangoModel
}

type djangoViewNode struct {
	id   string
	view *models.DjangoView
}

// convertDjango handles Python documents carrying apps, models and views.
// App ids are keyed by name, model and view ids by "{app}_{name}"; models and
// views are referenced by bare name.
func convertDjango(c *Converter, root gjson.Result, data []byte) (*models.Graph, error) {
	doc, ignored, err := models.DecodeRecord[models.DjangoDocument](data)
	if err != nil {
		return nil, decodeError("django", err)
	}

	b := c.newBuilder("django")
	b.ignored("document", ignored)
	b.rejected("apps", "apps", doc.Apps.Invalid)
	b.rejected("models", "models", doc.Models.Invalid)
	b.rejected("views", "views", doc.Views.Invalid)
	b.degraded("apps", doc.Apps.Partial)
	b.degraded("models", doc.Models.Partial)
	b.degraded("views", doc.Views.Partial)

	for i := range doc.Apps.Items {
		app := &doc.Apps.Items[i]

		id, ok := b.claimNode("django_app", app.Name)
		if !ok {
			continue
		}
		b.alias(nsApp, app.Name, id)
		b.addNode(buildDjangoAppNode(b, id, app))
	}

	var modelNodes []djangoModelNode
	for i := range doc.Models.Items {
		model := &doc.Models.Items[i]

		id, ok := b.claimNode("django_model", model.App+"_"+model.Name)
		if !ok {
			continue
		}
		b.alias(nsModel, model.Name, id)
		b.addNode(buildDjangoModelNode(b, id, model))
		modelNodes = append(modelNodes, djangoModelNode{id: id, model: model})
	}

	var viewNodes []djangoViewNode
	for i := range doc.Views.Items {
		view := &doc.Views.Items[i]

		id, ok := b.claimNode("django_view", view.App+"_"+view.Name)
		if !ok {
			continue
		}
		b.alias(nsView, view.Name, id)
		b.addNode(buildDjangoViewNode(b, id, view))
		viewNodes = append(viewNodes, djangoViewNode{id: id, view: view})
	}

	for _, n := range modelNodes {
		if appID, ok := b.resolve(nsApp, n.model.App); ok {
			b.link(appID, n.id, models.EdgeContains, models.EdgeMetadata{Relationship: "app_model"})
		}
	}

	for _, n := range viewNodes {
		if appID, ok := b.resolve(nsApp, n.view.App); ok {
			b.link(appID, n.id, models.EdgeContains, models.EdgeMetadata{Relationship: "app_view"})
		}
		for _, name := range n.view.UsesModels.Items {
			if modelID, ok := b.resolve(nsModel, name); ok {
				b.link(n.id, modelID, models.EdgeUses, models.EdgeMetadata{Relationship: "view_model"})
			}
		}
	}

	for _, n := range modelNodes {
		linkRelationships(b, n.id, n.model.Relationships)
	}

	return b.graph("django", projectName(root, "Django Project"), doc.Metadata, c.now()), nil
}

func buildDjangoAppNode(b *graphBuilder, id string, app *models.DjangoApp) models.Node {
	info := []models.Item{
		b.item("path", app.Name+"_path", "Path: "+app.Path, models.IconPath, nil),
		b.item("project_app", app.Name+"_project_app",
			"Project app: "+strconv.FormatBool(app.IsProjectApp), models.IconInfo, nil),
	}

	return models.Node{
		ID:       id,
		Title:    app.Name,
		Type:     models.NodeApp,
		Sections: b.section(nil, id, "info", "App Info", info),
		Metadata: models.NodeMetadata{
			Path:         app.Path,
			IsProjectApp: boolPtr(app.IsProjectApp),
			Note:         app.Note,
		},
	}
}

func buildDjangoModelNode(b *graphBuilder, id string, model *models.DjangoModel) models.Node {
	var sections []models.Section
	owner := model.Name

	sections = b.section(sections, id, "fields", "Fields", pythonFieldItems(b, owner, model.Fields))

	methods := buildItems(b, owner, "methods", model.Methods, func(m models.PythonMethod) models.Item {
		value := m.Name + "(" + strings.Join(m.Parameters.Items, ", ") + ")"
		return b.item("method", owner+"_"+m.Name, value, models.IconMethod, nil)
	})
	sections = b.section(sections, id, "methods", "Methods", methods)

	sections = b.section(sections, id, "relationships", "Relationships",
		pythonRelationshipItems(b, owner, model.Relationships))

	return models.Node{
		ID:       id,
		Title:    model.Name,
		Type:     models.NodeModel,
		Sections: sections,
		Metadata: models.NodeMetadata{
			App:  model.App,
			Meta: nonNull(model.Meta),
		},
	}
}

func buildDjangoViewNode(b *graphBuilder, id string, view *models.DjangoView) models.Node {
	owner := view.Name

	info := []models.Item{
		b.item("type", owner+"_type", "Type: "+view.Type, models.IconInfo, nil),
	}
	if view.Path != "" {
		info = append(info, b.item("path", owner+"_path", "Path: "+view.Path, models.IconPath, nil))
	}
	b.rejected(owner, "http_methods", view.HTTPMethods.Invalid)
	if view.HTTPMethods.Len() > 0 {
		info = append(info, b.item("methods", owner+"_http_methods",
			"HTTP Methods: "+strings.Join(view.HTTPMethods.Items, ", "), models.IconMethod, nil))
	}
	if view.Template != "" {
		info = append(info, b.item("template", owner+"_template", "Template: "+view.Template, models.IconTemplate, nil))
	}

	sections := b.section(nil, id, "info", "View Info", info)

	uses := buildItems(b, owner, "uses_models", view.UsesModels, func(name string) models.Item {
		return b.item("uses", owner+"_uses_"+name, name, models.IconModel, nil)
	})
	sections = b.section(sections, id, "models", "Uses Models", uses)

	return models.Node{
		ID:       id,
		Title:    view.Name,
		Type:     models.NodeView,
		Sections: sections,
		Metadata: models.NodeMetadata{
			App:         view.App,
			ViewType:    view.Type,
			Path:        view.Path,
			HTTPMethods: view.HTTPMethods.Items,
			Template:    view.Template,
		},
	}
}
