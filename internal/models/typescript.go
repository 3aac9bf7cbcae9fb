// Package models defines the core data structures shared by converters and consumers.
// It includes the canonical dependency graph and the analyzer input documents.
package models

import "encoding/json"

// ComponentDocument is the component-based TypeScript/React analyzer output.
// Components is a JSON object keyed by component name.
type ComponentDocument struct {
	Components List[ComponentInfo] `json:"components"`
}

type ComponentInfo struct {
	Name         string                    `json:"name"`
	FilePath     string                    `json:"filePath"`
	Props        List[ComponentProp]       `json:"props"`
	State        List[ComponentState]      `json:"state"`
	Hooks        List[ComponentHook]       `json:"hooks"`
	Dependencies List[ComponentDependency] `json:"dependencies"`
	Children     List[string]              `json:"children"`
}

type ComponentProp struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Required bool   `json:"required,omitempty"`
}

type ComponentState struct {
	Name         string          `json:"name"`
	Type         string          `json:"type,omitempty"`
	InitialValue json.RawMessage `json:"initialValue,omitempty"`
}

type ComponentHook struct {
	Type       string `json:"type"`
	CustomHook bool   `json:"customHook,omitempty"`
}

type ComponentDependency struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	IsExternal bool   `json:"isExternal"`
}

// SourceFile is one record of the legacy file-based TypeScript analyzer
// output, which is a JSON array of these.
type SourceFile struct {
	FilePath             string           `json:"filePath"`
	FileName             string           `json:"fileName"`
	Imports              List[FileImport] `json:"imports"`
	Exports              FileExports      `json:"exports"`
	OutgoingDependencies List[string]     `json:"outgoingDependencies"`
	IncomingDependencies List[string]     `json:"incomingDependencies"`
}

type FileImport struct {
	NamedImports     List[string] `json:"namedImports"`
	DefaultImport    string       `json:"defaultImport,omitempty"`
	Path             string       `json:"path"`
	IsTypeOnly       bool         `json:"isTypeOnly,omitempty"`
	ResolvedFilePath string       `json:"resolvedFilePath,omitempty"`
}

type FileExports struct {
	Functions  List[ExportedFunction]  `json:"functions"`
	Components List[ExportedComponent] `json:"components"`
	Interfaces List[ExportedInterface] `json:"interfaces"`
}

type ExportedFunction struct {
	Name       string              `json:"name"`
	Params     List[FunctionParam] `json:"params"`
	ReturnType string              `json:"returnType,omitempty"`
	IsExported bool                `json:"isExported"`
}

type FunctionParam struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type ExportedComponent struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type ExportedInterface struct {
	Name string `json:"name"`
}

func (ComponentInfo) RequiredFields() []string { return []string{"name"} }
func (SourceFile) RequiredFields() []string    { return []string{"filePath"} }
