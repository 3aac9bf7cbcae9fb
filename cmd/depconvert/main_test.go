// Package main converts a single dependency analyzer document into a
// standardized graph from the command line.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depscope/core/internal/converter"
	"github.com/depscope/core/internal/models"
	"github.com/depscope/core/internal/store"
)

const javaDocument = `{
	"name": "library",
	"elements": [{
		"name": "com.example",
		"package": true,
		"elements": [{
			"name": "com.example.Book",
			"class": true,
			"superClassName": "java.lang.Object",
			"fields": [{"name": "title", "type": "java.lang.String"}]
		}]
	}]
}`

const djangoDocument = `{
	"metadata": {"projectName": "site"},
	"apps": [{"name": "blog", "path": "blog", "is_project_app": true}],
	"models": [{"name": "Post", "app": "blog"}],
	"views": [{"name": "PostList", "app": "blog", "type": "class", "uses_models": ["Post"]}]
}`

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deps.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun(t *testing.T) {
	t.Run("writes the graph to stdout", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		err := run(context.Background(), []string{"-in", writeInput(t, javaDocument)}, &stdout, &stderr)
		require.NoError(t, err)

		var graph models.Graph
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &graph))
		_, ok := graph.NodeByID("java_com_example_Book")
		assert.True(t, ok)
		assert.Equal(t, "library", graph.Metadata.ProjectName)
	})

	t.Run("pretty output is indented", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		err := run(context.Background(), []string{"-in", writeInput(t, javaDocument), "-pretty"}, &stdout, &stderr)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(stdout.String(), "{\n  "))
	})

	t.Run("writes to -out and saves to -store", func(t *testing.T) {
		dir := t.TempDir()
		out := filepath.Join(dir, "graph.json")
		storeDir := filepath.Join(dir, "graphs")
		var stdout, stderr bytes.Buffer

		err := run(context.Background(), []string{
			"-in", writeInput(t, javaDocument),
			"-out", out,
			"-project", "library",
			"-store", storeDir,
		}, &stdout, &stderr)
		require.NoError(t, err)
		assert.Empty(t, stdout.String())

		written, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(written), "java_com_example_Book")

		saved, err := store.NewFileStore(storeDir).Load(context.Background(), "library")
		require.NoError(t, err)
		_, ok := saved.NodeByID("java_com_example_Book")
		assert.True(t, ok)
	})

	t.Run("unknown forced format", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		err := run(context.Background(), []string{"-in", writeInput(t, javaDocument), "-type", "ruby"}, &stdout, &stderr)

		var unsupported *converter.UnsupportedFormatError
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, converter.DependencyType("ruby"), unsupported.Type)
	})

	t.Run("django is read through the python format", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		err := run(context.Background(), []string{"-in", writeInput(t, djangoDocument), "-type", "django"}, &stdout, &stderr)
		var unsupported *converter.UnsupportedFormatError
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, converter.DependencyType("django"), unsupported.Type)

		stdout.Reset()
		err = run(context.Background(), []string{"-in", writeInput(t, djangoDocument), "-type", "python"}, &stdout, &stderr)
		require.NoError(t, err)

		var graph models.Graph
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &graph))
		assert.Equal(t, "django", graph.Metadata.ProjectType)
		_, ok := graph.NodeByID("django_app_blog")
		assert.True(t, ok)
	})

	t.Run("unknown document shape", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		err := run(context.Background(), []string{"-in", writeInput(t, `{"gems": []}`)}, &stdout, &stderr)

		var unsupported *converter.UnsupportedFormatError
		assert.True(t, errors.As(err, &unsupported))
	})

	t.Run("missing input file", func(t *testing.T) {
		var stdout, stderr bytes.Buffer

		err := run(context.Background(), []string{"-in", filepath.Join(t.TempDir(), "nope.json")}, &stdout, &stderr)

		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestParseFlags(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing -in", []string{}, "-in is required"},
		{"store without project", []string{"-in", "x.json", "-store", "dir"}, "-project is required with -store"},
		{"unknown flag", []string{"-in", "x.json", "-bogus"}, "flag provided but not defined"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var stderr bytes.Buffer

			_, err := parseFlags(tc.args, &stderr)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	t.Run("all flags", func(t *testing.T) {
		var stderr bytes.Buffer

		opts, err := parseFlags([]string{"-in", "x.json", "-type", "python", "-out", "g.json", "-project", "p", "-store", "d", "-pretty"}, &stderr)

		require.NoError(t, err)
		assert.Equal(t, &options{in: "x.json", format: "python", out: "g.json", project: "p", store: "d", pretty: true}, opts)
	})
}
