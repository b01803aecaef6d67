package tools

import "github.com/wagiedev/editor-mcp-go/internal/scene"

// Args is the decoded, validated argument payload of a tool call.
type Args interface {
	ToolName() string
}

// Compile-time verification that all argument types implement Args.
var (
	_ Args = (*CreateObjectArgs)(nil)
	_ Args = (*ModifyObjectsArgs)(nil)
	_ Args = (*QueryResourcesArgs)(nil)
	_ Args = (*ImportScenesArgs)(nil)
	_ Args = (*ImportFilesArgs)(nil)
)

// CreateObjectArgs are the arguments of create_object.
type CreateObjectArgs struct {
	Name     string     `json:"name"`
	Position scene.Vec3 `json:"position"`
}

// ToolName implements Args.
func (*CreateObjectArgs) ToolName() string { return CreateObject }

// ComponentSpec describes a component to add.
type ComponentSpec struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// ComponentEdit overwrites properties of an existing component.
type ComponentEdit struct {
	Index      int            `json:"index"`
	Properties map[string]any `json:"properties"`
}

// Modification is one entry of modify_objects. Nil fields are left untouched.
// An entry without ID creates a new object.
type Modification struct {
	Name     *string     `json:"name,omitempty"`
	ID       string      `json:"id,omitempty"`
	ParentID *string     `json:"parentId,omitempty"`
	Position *scene.Vec3 `json:"position,omitempty"`
	Rotation *scene.Quat `json:"rotation,omitempty"`
	Scaling  *scene.Vec3 `json:"scaling,omitempty"`

	AddComponents    []ComponentSpec `json:"addComponents,omitempty"`
	ModifyComponents []ComponentEdit `json:"modifyComponents,omitempty"`
	RemoveComponents []int           `json:"removeComponents,omitempty"`
}

// ModifyObjectsArgs are the arguments of modify_objects.
type ModifyObjectsArgs struct {
	Modifications []Modification `json:"modifications"`
}

// ToolName implements Args.
func (*ModifyObjectsArgs) ToolName() string { return ModifyObjects }

// QueryResourcesArgs are the arguments of query_resources.
type QueryResourcesArgs struct {
	ResourceType  scene.ResourceType `json:"resourceType"`
	IDs           []string           `json:"ids,omitempty"`
	IncludeFilter map[string]any     `json:"includeFilter,omitempty"`
	ExcludeFilter map[string]any     `json:"excludeFilter,omitempty"`
}

// ToolName implements Args.
func (*QueryResourcesArgs) ToolName() string { return QueryResources }

// Filter returns the include/exclude filter of the query.
func (a *QueryResourcesArgs) Filter() Filter {
	return Filter{Include: a.IncludeFilter, Exclude: a.ExcludeFilter}
}

// SceneImport is one entry of import_scenes.
type SceneImport struct {
	Path     string `json:"path"`
	ParentID string `json:"parentId,omitempty"`
}

// ImportScenesArgs are the arguments of import_scenes.
type ImportScenesArgs struct {
	Imports []SceneImport `json:"imports"`
}

// ToolName implements Args.
func (*ImportScenesArgs) ToolName() string { return ImportScenes }

// FileImport is one entry of import_files.
type FileImport struct {
	Path string `json:"path"`
}

// ImportFilesArgs are the arguments of import_files.
type ImportFilesArgs struct {
	Imports []FileImport `json:"imports"`
}

// ToolName implements Args.
func (*ImportFilesArgs) ToolName() string { return ImportFiles }

func newArgs(tool string) Args {
	switch tool {
	case CreateObject:
		return &CreateObjectArgs{}
	case ModifyObjects:
		return &ModifyObjectsArgs{}
	case QueryResources:
		return &QueryResourcesArgs{}
	case ImportScenes:
		return &ImportScenesArgs{}
	case ImportFiles:
		return &ImportFilesArgs{}
	default:
		return nil
	}
}
