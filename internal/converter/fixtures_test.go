// Package converter normalizes language-specific analyzer output into the
// canonical dependency graph defined in package models.
package converter

import (
	"bytes"
	"io"
	"log/slog"
	"time"
)

var fixedTime = time.Date(2024, time.January, 2, 3, 4, 5, 6_000_000, time.UTC)

func newTestConverter() *Converter {
	return New(
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return fixedTime }),
	)
}

func newLoggingConverter(buf *bytes.Buffer) *Converter {
	return New(
		WithLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))),
		WithClock(func() time.Time { return fixedTime }),
	)
}

const javaInterfaceFixture = `{
	"name": "sample",
	"elements": [
		{
			"name": "com.sample",
			"package": true,
			"elements": [
				{
					"name": "com.sample.A",
					"class": true,
					"superClassName": "java.lang.Object",
					"interfaces": ["com.sample.I"],
					"fields": [],
					"methods": []
				},
				{
					"name": "com.sample.I",
					"class": true,
					"interface": true
				}
			]
		}
	]
}`

const javaBookFixture = `{
	"name": "library",
	"elements": [
		{
			"name": "com.sample.book",
			"package": true,
			"elements": [
				{
					"name": "com.sample.book.Base",
					"class": true,
					"abstract": true,
					"superClassName": "java.lang.Object",
					"methods": [
						{"name": "run", "returnType": "void", "parameters": [], "accessModifier": "PROTECTED", "abstract": true}
					]
				},
				{
					"name": "com.sample.book.Book",
					"class": true,
					"final": true,
					"packageName": "com.sample.book",
					"sourceFile": "Book.java",
					"superClassName": "com.sample.book.Base",
					"interfaces": ["java.io.Serializable"],
					"fields": [
						{"name": "title", "type": "java.lang.String", "modifier": "PRIVATE", "final": true},
						{"name": "count", "type": "int", "static": true}
					],
					"methods": [
						{"name": "<init>", "parameters": ["java.lang.String"], "accessModifier": "PUBLIC"},
						{"name": "getTitle", "returnType": "java.lang.String", "parameters": [], "accessModifier": "PUBLIC"}
					],
					"importedPackages": [{"name": "java.util"}],
					"outGoingDependencies": ["com.sample.book.Base", "org.external.Lib"]
				}
			]
		},
		{
			"name": "java.lang.Object",
			"class": true
		},
		{
			"name": "com.sample.Plain",
			"class": true,
			"superClassName": "java.lang.Object"
		}
	]
}`

const componentFixture = `{
	"components": {
		"App": {
			"name": "App",
			"filePath": "src/App.tsx",
			"props": [],
			"state": [{"name": "count", "type": "number", "initialValue": "0"}],
			"hooks": [{"type": "useState"}, {"type": "useAuth", "customHook": true}],
			"dependencies": [
				{"name": "Header", "path": "./Header", "isExternal": false},
				{"name": "React", "path": "react", "isExternal": true}
			],
			"children": ["Header", "Footer"]
		},
		"Header": {
			"name": "Header",
			"filePath": "src/Header.tsx",
			"props": [{"name": "title", "type": "string", "required": true}, {"name": "subtitle"}],
			"children": []
		}
	}
}`

const sourceFileFixture = `[
	{
		"filePath": "src/a.ts",
		"fileName": "a.ts",
		"imports": [
			{"namedImports": ["b", "c"], "path": "./b"},
			{"defaultImport": "React", "path": "react"},
			{"path": "./styles.css"}
		],
		"exports": {
			"functions": [
				{"name": "run", "params": [{"name": "x"}, {"name": "y"}], "returnType": "number", "isExported": true},
				{"name": "hidden", "isExported": false}
			],
			"components": [{"name": "Widget"}],
			"interfaces": [{"name": "Props"}]
		},
		"outgoingDependencies": ["src/b.ts", "lodash"],
		"incomingDependencies": []
	},
	{
		"filePath": "src/b.ts",
		"fileName": "b.ts",
		"imports": [],
		"exports": {},
		"outgoingDependencies": [],
		"incomingDependencies": ["src/a.ts"]
	}
]`

const pythonFixture = `{
	"metadata": {"projectName": "shop"},
	"modules": [
		{
			"name": "shop.models",
			"path": "shop/models.py",
			"is_package": false,
			"exports": ["Product"],
			"imports": [{"module": "django.db", "names": ["models"]}]
		},
		{"name": "shop", "path": "shop", "is_package": true}
	],
	"models": [
		{"name": "Base", "module": "shop.models", "fields": [], "methods": [], "relationships": [], "bases": []},
		{
			"name": "Product",
			"module": "shop.models",
			"file_path": "shop/models.py",
			"bases": ["Base", "object"],
			"fields": [
				{"name": "title", "type": "CharField", "attributes": {"max_length": 100, "null": true}},
				{"name": "sku", "type": "CharField"}
			],
			"methods": [
				{"name": "create", "parameters": ["cls", "title"], "returns": "Product", "is_classmethod": true},
				{"name": "price", "parameters": ["self"]}
			],
			"relationships": [
				{"field_name": "category", "type": "ForeignKey", "related_model": "Category", "related_name": "products"},
				{"field_name": "parent", "type": "ForeignKey", "related_model": "Base", "related_name": null}
			]
		}
	]
}`

const djangoFixture = `{
	"metadata": {"projectName": "blog-site"},
	"apps": [{"name": "blog", "path": "blog", "is_project_app": true}],
	"models": [{"name": "Post", "app": "blog", "fields": [], "methods": [], "relationships": []}],
	"views": [{"name": "PostList", "app": "blog", "type": "ListView", "uses_models": ["Post"]}]
}`
