// Package models defines the core data structures shared by converters and consumers.
// It includes the canonical dependency graph and the analyzer input documents.
package models

import "encoding/json"

// PythonDocument is the generic Python analyzer output.
type PythonDocument struct {
	Metadata json.RawMessage    `json:"metadata,omitempty"`
	Modules  List[PythonModule] `json:"modules"`
	Models   List[PythonModel]  `json:"models"`
}

type PythonModule struct {
	Name      string             `json:"name"`
	Path      string             `json:"path"`
	IsPackage bool               `json:"is_package"`
	Exports   List[string]       `json:"exports"`
	Imports   List[PythonImport] `json:"imports"`
}

type PythonImport struct {
	Module string       `json:"module"`
	Names  List[string] `json:"names"`
}

type PythonModel struct {
	Name          string                   `json:"name"`
	Module        string                   `json:"module"`
	Fields        List[PythonField]        `json:"fields"`
	Methods       List[PythonMethod]       `json:"methods"`
	Meta          json.RawMessage          `json:"meta,omitempty"`
	Relationships List[PythonRelationship] `json:"relationships"`
	Bases         List[string]             `json:"bases"`
	FilePath      string                   `json:"file_path,omitempty"`
}

type PythonField struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Attributes Attributes `json:"attributes,omitempty"`
}

type PythonMethod struct {
	Name          string       `json:"name"`
	Parameters    List[string] `json:"parameters"`
	Returns       string       `json:"returns,omitempty"`
	IsStatic      bool         `json:"is_static,omitempty"`
	IsClassmethod bool         `json:"is_classmethod,omitempty"`
	IsAbstract    bool         `json:"is_abstract,omitempty"`
}

type PythonRelationship struct {
	FieldName    string  `json:"field_name"`
	Type         string  `json:"type"`
	RelatedModel string  `json:"related_model"`
	RelatedName  *string `json:"related_name"`
}

// DjangoDocument is the Django flavoured Python analyzer output.
type DjangoDocument struct {
	Metadata json.RawMessage   `json:"metadata,omitempty"`
	Apps     List[DjangoApp]   `json:"apps"`
	Models   List[DjangoModel] `json:"models"`
	Views    List[DjangoView]  `json:"views"`
}

type DjangoApp struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	IsProjectApp bool   `json:"is_project_app"`
	Note         string `json:"note,omitempty"`
}

type DjangoModel struct {
	Name          string                   `json:"name"`
	App           string                   `json:"app"`
	Fields        List[PythonField]        `json:"fields"`
	Methods       List[PythonMethod]       `json:"methods"`
	Relationships List[PythonRelationship] `json:"relationships"`
	Meta          json.RawMessage          `json:"meta,omitempty"`
}

type DjangoView struct {
	Name        string       `json:"name"`
	App         string       `json:"app"`
	Type        string       `json:"type"`
	Path        string       `json:"path,omitempty"`
	HTTPMethods List[string] `json:"http_methods"`
	Template    string       `json:"template,omitempty"`
	UsesModels  List[string] `json:"uses_models"`
}

func (PythonModule) RequiredFields() []string { return []string{"name"} }
func (PythonModel) RequiredFields() []string  { return []string{"name"} }
func (PythonField) RequiredFields() []string  { return []string{"name"} }
func (DjangoApp) RequiredFields() []string    { return []string{"name"} }
func (DjangoModel) RequiredFields() []string  { return []string{"name"} }
func (DjangoView) RequiredFields() []string   { return []string{"name"} }
