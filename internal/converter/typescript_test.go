// Package converter normalizes language-specific analyzer output into the
// canonical dependency graph defined in package models.
package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depscope/core/internal/models"
)

func TestConvertComponents(t *testing.T) {
	c := newTestConverter()

	t.Run("nodes and sections", func(t *testing.T) {
		graph, err := c.Convert([]byte(componentFixture))
		require.NoError(t, err)

		assert.Equal(t, []string{"comp_App", "comp_Header"}, nodeIDs(graph))

		app := graph.Nodes[0]
		assert.Equal(t, "App", app.Title)
		assert.Equal(t, models.NodeComponent, app.Type)
		assert.Equal(t, "src/App.tsx", app.Metadata.FilePath)
		assert.Equal(t, "App", app.Metadata.Name)

		_, hasProps := app.Section("Props")
		assert.False(t, hasProps)
		assert.Equal(t, []string{"count: number = 0"}, itemValues(t, app, "State"))
		assert.Equal(t, []string{"useState", "useAuth (custom)"}, itemValues(t, app, "Hooks"))
		assert.Equal(t, []string{"Header from './Header'", "React from 'react' (external)"}, itemValues(t, app, "Dependencies"))
		assert.Equal(t, []string{"Header", "Footer"}, itemValues(t, app, "Children"))

		header := graph.Nodes[1]
		assert.Equal(t, []string{"title: string (required)", "subtitle"}, itemValues(t, header, "Props"))
		assert.Len(t, header.Sections, 1)
	})

	t.Run("edges only reach known components", func(t *testing.T) {
		graph, err := c.Convert([]byte(componentFixture))
		require.NoError(t, err)

		isExternal := false
		assert.Equal(t, []models.Edge{
			{
				Source:   "comp_App",
				Target:   "comp_Header",
				Type:     models.EdgeDependency,
				Metadata: models.EdgeMetadata{Path: "./Header", IsExternal: &isExternal},
			},
			{
				Source:   "comp_App",
				Target:   "comp_Header",
				Type:     models.EdgeRenders,
				Metadata: models.EdgeMetadata{Relationship: "parent-child"},
			},
		}, graph.Edges)
	})

	t.Run("graph metadata", func(t *testing.T) {
		graph, err := c.Convert([]byte(componentFixture))
		require.NoError(t, err)

		assert.Equal(t, "typescript", graph.Metadata.ProjectType)
		assert.Equal(t, "React TypeScript Project", graph.Metadata.ProjectName)
		assert.JSONEq(t, `{}`, string(graph.Metadata.OriginalFormat))
	})

	t.Run("components keep document order", func(t *testing.T) {
		input := `{"components": {"Zeta": {"name": "Zeta"}, "Alpha": {"name": "Alpha"}, "Mid": {"name": "Mid"}}}`

		graph, err := c.Convert([]byte(input))
		require.NoError(t, err)

		assert.Equal(t, []string{"comp_Zeta", "comp_Alpha", "comp_Mid"}, nodeIDs(graph))
	})

	t.Run("component array is accepted", func(t *testing.T) {
		input := `{"components": [{"name": "A", "children": ["B"]}, {"name": "B"}]}`

		graph, err := c.Convert([]byte(input))
		require.NoError(t, err)

		assert.Len(t, graph.Nodes, 2)
		require.Len(t, graph.Edges, 1)
		assert.Equal(t, models.EdgeRenders, graph.Edges[0].Type)
	})

	t.Run("unresolved dependency keeps its item but adds no edge", func(t *testing.T) {
		input := `{"components": {"Solo": {"name": "Solo", "dependencies": [{"name": "Ghost", "path": "./Ghost"}]}}}`

		graph, err := c.Convert([]byte(input))
		require.NoError(t, err)

		assert.Empty(t, graph.Edges)
		assert.Equal(t, []string{"Ghost from './Ghost'"}, itemValues(t, graph.Nodes[0], "Dependencies"))
	})

	t.Run("empty component set", func(t *testing.T) {
		graph, err := c.Convert([]byte(`{"components": {}}`))
		require.NoError(t, err)

		assert.Empty(t, graph.Nodes)
		assert.Empty(t, graph.Edges)
		assert.NotNil(t, graph.Nodes)
		assert.NotNil(t, graph.Edges)
	})
}

func TestDisplayValue(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{``, ""},
		{`null`, ""},
		{`false`, ""},
		{`0`, ""},
		{`""`, ""},
		{`"idle"`, "idle"},
		{`42`, "42"},
		{`true`, "true"},
		{`[]`, "[]"},
		{`{"a":1}`, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, displayValue([]byte(tt.raw)))
		})
	}
}

func TestConvertSourceFiles(t *testing.T) {
	c := newTestConverter()

	t.Run("nodes and sections", func(t *testing.T) {
		graph, err := c.Convert([]byte(sourceFileFixture))
		require.NoError(t, err)

		assert.Equal(t, []string{"ts_src_a_ts", "ts_src_b_ts"}, nodeIDs(graph))

		a := graph.Nodes[0]
		assert.Equal(t, "a.ts", a.Title)
		assert.Equal(t, models.NodeFile, a.Type)
		assert.Equal(t, []string{
			"{ b, c } from './b'",
			"React from 'react'",
			"import './styles.css'",
		}, itemValues(t, a, "Imports"))
		assert.Equal(t, []string{"run(x, y): number", "Widget: Component", "Props"}, itemValues(t, a, "Exports"))
		assert.Equal(t, []string{"src/b.ts", "lodash"}, a.Metadata.OutgoingDependencies)

		imports, _ := a.Section("Imports")
		assert.Equal(t, "./b", imports.Items[0].Metadata["path"])

		b := graph.Nodes[1]
		assert.Empty(t, b.Sections)
	})

	t.Run("incoming and outgoing edges are both kept", func(t *testing.T) {
		graph, err := c.Convert([]byte(sourceFileFixture))
		require.NoError(t, err)

		assert.Equal(t, []models.Edge{
			{
				Source:   "ts_src_a_ts",
				Target:   "ts_src_b_ts",
				Type:     models.EdgeDependency,
				Metadata: models.EdgeMetadata{Direction: "outgoing"},
			},
			{
				Source:   "ts_src_a_ts",
				Target:   "ts_src_b_ts",
				Type:     models.EdgeDependency,
				Metadata: models.EdgeMetadata{Direction: "incoming"},
			},
		}, graph.Edges)
		assert.Equal(t, "TypeScript Project", graph.Metadata.ProjectName)
	})

	t.Run("functions not flagged as exported are dropped", func(t *testing.T) {
		input := `[{"filePath": "x.ts", "fileName": "x.ts", "exports": {"functions": [{"name": "inner", "isExported": false}]}}]`

		graph, err := c.Convert([]byte(input))
		require.NoError(t, err)

		_, hasExports := graph.Nodes[0].Section("Exports")
		assert.False(t, hasExports)
	})

	t.Run("missing return type renders void", func(t *testing.T) {
		input := `[{"filePath": "x.ts", "fileName": "x.ts", "exports": {"functions": [{"name": "go", "isExported": true}]}}]`

		graph, err := c.Convert([]byte(input))
		require.NoError(t, err)

		assert.Equal(t, []string{"go(): void"}, itemValues(t, graph.Nodes[0], "Exports"))
	})

	t.Run("malformed exports keep the file and its edges", func(t *testing.T) {
		input := `[
			{"filePath": "src/a.ts", "fileName": "a.ts", "exports": ["x"], "outgoingDependencies": ["src/b.ts"]},
			{"filePath": "src/b.ts", "fileName": 7}
		]`

		graph, err := c.Convert([]byte(input))
		require.NoError(t, err)

		assert.Equal(t, []string{"ts_src_a_ts", "ts_src_b_ts"}, nodeIDs(graph))
		require.Len(t, graph.Edges, 1)
		assert.Equal(t, "ts_src_a_ts", graph.Edges[0].Source)
		assert.Equal(t, "ts_src_b_ts", graph.Edges[0].Target)

		_, hasExports := graph.Nodes[0].Section("Exports")
		assert.False(t, hasExports)
		assert.Empty(t, graph.Nodes[1].Title)
	})

	t.Run("self dependency", func(t *testing.T) {
		input := `[{"filePath": "x.ts", "fileName": "x.ts", "exports": {}, "outgoingDependencies": ["x.ts"]}]`

		graph, err := c.Convert([]byte(input))
		require.NoError(t, err)

		require.Len(t, graph.Edges, 1)
		assert.Equal(t, graph.Edges[0].Source, graph.Edges[0].Target)
	})
}
