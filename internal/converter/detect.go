// Package converter normalizes language-specific analyzer output into the
// canonical dependency graph defined in package models.
package converter

import "github.com/tidwall/gjson"

type DependencyType string

const (
	TypeScript DependencyType = "typescript"
	Java       DependencyType = "java"
	Python     DependencyType = "python"
	Unknown    DependencyType = "unknown"
)

func ParseDependencyType(s string) (DependencyType, bool) {
	switch t := DependencyType(s); t {
	case TypeScript, Java, Python:
		return t, true
	}
	return Unknown, false
}

type detectionRule struct {
	format  DependencyType
	matches func(root gjson.Result) bool
}

// detectionRules is evaluated in order; the first match wins.
var detectionRules = []detectionRule{
	{format: TypeScript, matches: isComponentDocument},
	{format: TypeScript, matches: isFileListDocument},
	{format: Java, matches: isJavaPackageDocument},
	{format: Python, matches: isPythonProjectDocument},
}

// DetectDependencyType classifies an analyzer document by its shape alone.
// Invalid JSON is Unknown.
func DetectDependencyType(data []byte) DependencyType {
	if !gjson.ValidBytes(data) {
		return Unknown
	}
	return detect(gjson.ParseBytes(data))
}

func detect(root gjson.Result) DependencyType {
	for _, rule := range detectionRules {
		if rule.matches(root) {
			return rule.format
		}
	}
	return Unknown
}

func isComponentDocument(root gjson.Result) bool {
	if !root.IsObject() {
		return false
	}
	components := root.Get("components")
	return truthy(components) && components.Type == gjson.JSON
}

func isFileListDocument(root gjson.Result) bool {
	if !root.IsArray() {
		return false
	}
	first := root.Get("0")
	return first.IsObject() && truthy(first.Get("fileName")) && truthy(first.Get("exports"))
}

func isJavaPackageDocument(root gjson.Result) bool {
	return root.IsObject() && truthy(root.Get("name")) && truthy(root.Get("elements"))
}

func isPythonProjectDocument(root gjson.Result) bool {
	return root.IsObject() &&
		truthy(root.Get("metadata")) &&
		truthy(root.Get("apps")) &&
		truthy(root.Get("models"))
}

// truthy reports whether a JSON value counts as present: not missing, null,
// false, zero or the empty string.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	default:
		return true
	}
}
