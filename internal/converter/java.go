// Package converter normalizes language-specific analyzer output into the
// canonical dependency graph defined in package models.
package converter

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/depscope/core/internal/models"
)

// javaRootClass never produces an inheritance edge.
const javaRootClass = "java.lang.Object"

type javaNode struct {
	id    string
	class *models.JavaElement
}

func convertJava(c *Converter, _ gjson.Result, data []byte) (*models.Graph, error) {
	root, ignored, err := models.DecodeRecord[models.JavaElement](data)
	if err != nil {
		return nil, decodeError("java", err)
	}

	b := c.newBuilder("java")
	b.ignored("document", ignored)

	var registered []javaNode
	for _, class := range collectJavaClasses(b, &root) {
		id, ok := b.claimNode("java", class.Name)
		if !ok {
			continue
		}
		b.alias(nsClass, class.Name, id)
		b.addNode(buildJavaClassNode(b, id, class))
		registered = append(registered, javaNode{id: id, class: class})
	}

	for _, n := range registered {
		linkJavaClass(b, n)
	}

	projectName := root.Name
	if projectName == "" {
		projectName = "Java Project"
	}

	return b.graph("java", projectName, nil, c.now()), nil
}

// collectJavaClasses walks the package tree depth first, in document order,
// with an explicit stack.
func collectJavaClasses(b *graphBuilder, root *models.JavaElement) []*models.JavaElement {
	var classes []*models.JavaElement

	b.rejected(root.Name, "elements", root.Elements.Invalid)
	b.degraded(root.Name, root.Elements.Partial)
	stack := pushReversed(nil, root.Elements.Items)

	for len(stack) > 0 {
		el := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case el.Class && el.Name == "":
			b.log.Warn("skipping class without a name")
		case el.Class:
			classes = append(classes, el)
		case el.Package:
			b.rejected(el.Name, "elements", el.Elements.Invalid)
			b.degraded(el.Name, el.Elements.Partial)
			stack = pushReversed(stack, el.Elements.Items)
		default:
			b.log.Debug("ignoring element without class or package marker")
		}
	}

	return classes
}

func pushReversed(stack []*models.JavaElement, elements []models.JavaElement) []*models.JavaElement {
	for i := len(elements) - 1; i >= 0; i-- {
		stack = append(stack, &elements[i])
	}
	return stack
}

func buildJavaClassNode(b *graphBuilder, id string, class *models.JavaElement) models.Node {
	var sections []models.Section

	sections = b.section(sections, id, "info", "Class Info", javaClassInfo(b, class))

	fields := buildItems(b, class.Name, "fields", class.Fields, func(f models.JavaField) models.Item {
		return b.item("field", class.Name+"_"+f.Name, formatJavaField(f), models.IconField,
			map[string]any{"type": f.Type})
	})
	sections = b.section(sections, id, "fields", "Fields", fields)

	methods := buildItems(b, class.Name, "methods", class.Methods, func(m models.JavaMethod) models.Item {
		isConstructor := m.Name == "<init>"
		icon := models.IconMethod
		if isConstructor {
			icon = models.IconConstructor
		}
		return b.item("method", class.Name+"_"+m.Name, formatJavaMethod(class.Name, m), icon,
			map[string]any{"returnType": m.ReturnType, "isConstructor": isConstructor})
	})
	sections = b.section(sections, id, "methods", "Methods", methods)

	imports := buildItems(b, class.Name, "importedPackages", class.ImportedPackages, func(p models.JavaImport) models.Item {
		return b.item("import", class.Name+"_"+p.Name, p.Name, models.IconPackage, nil)
	})
	sections = b.section(sections, id, "imports", "Imports", imports)

	b.rejected(class.Name, "interfaces", class.Interfaces.Invalid)
	b.rejected(class.Name, "outGoingDependencies", class.OutGoingDependencies.Invalid)
	b.rejected(class.Name, "incomingDependencies", class.IncomingDependencies.Invalid)

	nodeType := models.NodeClass
	if class.Interface {
		nodeType = models.NodeInterface
	}

	return models.Node{
		ID:       id,
		Title:    SimpleName(class.Name),
		Type:     nodeType,
		Sections: sections,
		Metadata: models.NodeMetadata{
			FullName:             class.Name,
			PackageName:          class.PackageName,
			SourceFile:           class.SourceFile,
			IsAbstract:           boolPtr(class.Abstract),
			IsFinal:              boolPtr(class.Final),
			SuperClassName:       class.SuperClassName,
			Interfaces:           class.Interfaces.Items,
			OutGoingDependencies: class.OutGoingDependencies.Items,
			IncomingDependencies: class.IncomingDependencies.Items,
		},
	}
}

func javaClassInfo(b *graphBuilder, class *models.JavaElement) []models.Item {
	var items []models.Item

	if extendsClass(class.SuperClassName) {
		items = append(items, b.item("extends", class.Name+"_extends",
			"extends "+SimpleName(class.SuperClassName), models.IconInheritance, nil))
	}

	if class.Interfaces.Len() > 0 {
		names := make([]string, 0, class.Interfaces.Len())
		for _, iface := range class.Interfaces.Items {
			names = append(names, SimpleName(iface))
		}
		items = append(items, b.item("implements", class.Name+"_implements",
			"implements "+strings.Join(names, ", "), models.IconInterface, nil))
	}

	return items
}

func extendsClass(superClassName string) bool {
	return superClassName != "" && superClassName != javaRootClass
}

// formatJavaField renders "{modifiers} {SimpleType} {name}".
func formatJavaField(f models.JavaField) string {
	parts := javaModifiers(f.Modifier, f.Static, f.Final, false)
	parts = append(parts, SimpleName(f.Type), f.Name)
	return joinNonEmpty(parts, " ")
}

// formatJavaMethod renders "{modifiers} {name}({SimpleParams}): {SimpleReturn}".
// Constructors show the class simple name and no return type.
func formatJavaMethod(className string, m models.JavaMethod) string {
	isConstructor := m.Name == "<init>"

	name := m.Name
	if isConstructor {
		name = SimpleName(className)
	}

	params := make([]string, 0, m.Parameters.Len())
	for _, p := range m.Parameters.Items {
		params = append(params, SimpleName(p))
	}

	signature := name + "(" + strings.Join(params, ", ") + ")"
	if !isConstructor && m.ReturnType != "" {
		signature += ": " + SimpleName(m.ReturnType)
	}

	parts := javaModifiers(m.AccessModifier, m.Static, m.Final, m.Abstract)
	parts = append(parts, signature)
	return joinNonEmpty(parts, " ")
}

func javaModifiers(access string, isStatic, isFinal, isAbstract bool) []string {
	var mods []string
	if access != "" {
		mods = append(mods, strings.ToLower(access))
	}
	if isStatic {
		mods = append(mods, "static")
	}
	if isFinal {
		mods = append(mods, "final")
	}
	if isAbstract {
		mods = append(mods, "abstract")
	}
	return mods
}

func linkJavaClass(b *graphBuilder, n javaNode) {
	class := n.class

	if extendsClass(class.SuperClassName) {
		if target, ok := b.resolve(nsClass, class.SuperClassName); ok {
			b.link(n.id, target, models.EdgeInheritance, models.EdgeMetadata{Relationship: "extends"})
		}
	}

	for _, iface := range class.Interfaces.Items {
		if target, ok := b.resolve(nsClass, iface); ok {
			b.link(n.id, target, models.EdgeImplementation, models.EdgeMetadata{Relationship: "implements"})
		}
	}

	for _, dep := range class.OutGoingDependencies.Items {
		if target, ok := b.resolve(nsClass, dep); ok {
			b.link(n.id, target, models.EdgeDependency, models.EdgeMetadata{Direction: "outgoing"})
		}
	}
}

func joinNonEmpty(parts []string, sep string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
