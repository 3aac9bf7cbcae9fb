// Package models defines the core data structures shared by converters and consumers.
// It includes the canonical dependency graph and the analyzer input documents.
package models

// JavaElement is one entry of a Java analyzer package tree. The document root
// is itself a package element; nested entries set either Class or Package.
type JavaElement struct {
	Name     string            `json:"name"`
	Class    bool              `json:"class"`
	Package  bool              `json:"package"`
	Elements List[JavaElement] `json:"elements"`

	SuperClassName       string           `json:"superClassName,omitempty"`
	Interfaces           List[string]     `json:"interfaces"`
	Fields               List[JavaField]  `json:"fields"`
	Methods              List[JavaMethod] `json:"methods"`
	ImportedPackages     List[JavaImport] `json:"importedPackages"`
	Abstract             bool             `json:"abstract,omitempty"`
	Final                bool             `json:"final,omitempty"`
	Interface            bool             `json:"interface,omitempty"`
	SourceFile           string           `json:"sourceFile,omitempty"`
	PackageName          string           `json:"packageName,omitempty"`
	OutGoingDependencies List[string]     `json:"outGoingDependencies"`
	IncomingDependencies List[string]     `json:"incomingDependencies"`
}

type JavaField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Modifier string `json:"modifier,omitempty"`
	Static   bool   `json:"static,omitempty"`
	Final    bool   `json:"final,omitempty"`
}

type JavaMethod struct {
	Name           string       `json:"name"`
	ReturnType     string       `json:"returnType,omitempty"`
	Parameters     List[string] `json:"parameters"`
	AccessModifier string       `json:"accessModifier,omitempty"`
	Static         bool         `json:"static,omitempty"`
	Final          bool         `json:"final,omitempty"`
	Abstract       bool         `json:"abstract,omitempty"`
}

type JavaImport struct {
	Name string `json:"name"`
}

func (JavaField) RequiredFields() []string  { return []string{"name"} }
func (JavaMethod) RequiredFields() []string { return []string{"name"} }
