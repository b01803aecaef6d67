package tools

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/wagiedev/editor-mcp-go/internal/scene"
)

// Tool names exposed to clients.
const (
	CreateObject   = "create_object"
	ModifyObjects  = "modify_objects"
	QueryResources = "query_resources"
	ImportScenes   = "import_scenes"
	ImportFiles    = "import_files"
)

const sceneFormats = "Formats are preferred in this order: GLB, FBX, GLTF, OBJ, PLY"

// Descriptor is the static metadata of a tool.
type Descriptor struct {
	Name        string
	Description string
	// Mutating tools run as queued mutations on the host tick.
	Mutating    bool
	InputSchema *jsonschema.Schema
}

// Descriptors returns every tool in a stable order. Each call builds fresh
// schemas, so callers may keep and modify them.
func Descriptors() []Descriptor {
	return []Descriptor{
		{
			Name:        CreateObject,
			Description: "Create a new object in the project",
			Mutating:    true,
			InputSchema: createObjectSchema(),
		},
		{
			Name:        ModifyObjects,
			Description: "Modify existing objects or create new ones when no id is given. All modifications of one call are applied together.",
			Mutating:    true,
			InputSchema: modifyObjectsSchema(),
		},
		{
			Name:        QueryResources,
			Description: "Query resources of a given type, optionally by id and filtered by properties",
			InputSchema: queryResourcesSchema(),
		},
		{
			Name:        ImportScenes,
			Description: "Import scene files into the project",
			Mutating:    true,
			InputSchema: importScenesSchema(),
		},
		{
			Name:        ImportFiles,
			Description: "Import files into the project",
			Mutating:    true,
			InputSchema: importFilesSchema(),
		},
	}
}

func object(props map[string]*jsonschema.Schema, required ...string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func str(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

// vector is an array of exactly n numbers.
func vector(n int, description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "array",
		Description: description,
		Items:       &jsonschema.Schema{Type: "number"},
		MinItems:    jsonschema.Ptr(n),
		MaxItems:    jsonschema.Ptr(n),
	}
}

func arrayOf(items *jsonschema.Schema, description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Description: description, Items: items}
}

// openObject accepts any JSON object.
func openObject(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", Description: description}
}

func index(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "integer", Description: description, Minimum: jsonschema.Ptr(0.0)}
}

func createObjectSchema() *jsonschema.Schema {
	return object(map[string]*jsonschema.Schema{
		"name":     str("Name for the object"),
		"position": vector(3, "Array of three numbers for position"),
	}, "name", "position")
}

func modifyObjectsSchema() *jsonschema.Schema {
	modification := object(map[string]*jsonschema.Schema{
		"name":     str("Name for the object"),
		"id":       str("ID of the object"),
		"parentId": str("ID of the parent to parent to."),
		"position": vector(3, "Array of three numbers for position"),
		"rotation": vector(4, "Array of four numbers for rotation quaternion"),
		"scaling":  vector(3, "Array of three numbers for scaling"),
		"addComponents": arrayOf(
			object(map[string]*jsonschema.Schema{
				"type":       str(""),
				"properties": openObject(""),
			}, "type", "properties"),
			"Components to add to the object, any object in the format {type: string, [type]: {properties}}",
		),
		"modifyComponents": arrayOf(
			object(map[string]*jsonschema.Schema{
				"index":      index(""),
				"properties": openObject(""),
			}, "index", "properties"),
			"Components to modify on the object.",
		),
		"removeComponents": arrayOf(
			index(""),
			"Indices of components to remove from the object",
		),
	})

	return object(map[string]*jsonschema.Schema{
		"modifications": arrayOf(modification, ""),
	}, "modifications")
}

func queryResourcesSchema() *jsonschema.Schema {
	types := make([]any, 0, len(scene.ResourceTypes))
	for _, t := range scene.ResourceTypes {
		types = append(types, string(t))
	}

	return object(map[string]*jsonschema.Schema{
		"resourceType": {
			Type:        "string",
			Description: "Type of resource to query.",
			Enum:        types,
		},
		"ids": arrayOf(
			&jsonschema.Schema{Type: "string"},
			"List of ids to query, leave out to list all resources of given type.",
		),
		"includeFilter": openObject(
			"Optional properties to match. Name will be matched with contains substring comparison rather than full comparison. Leave out to disable this filtering.",
		),
		"excludeFilter": openObject(
			"Optional properties, which will exclude items from the list if match. Name will be matched with contains substring comparison rather than full comparison. Leave out to disable this filtering.",
		),
	}, "resourceType")
}

func importScenesSchema() *jsonschema.Schema {
	item := object(map[string]*jsonschema.Schema{
		"path": str("Path of the scene file relative to the project file. " + sceneFormats),
		"parentId": str(
			"If set, the imported scene hierarchy ID will be reparented to this object, otherwise imported at the root.",
		),
	}, "path")

	return object(map[string]*jsonschema.Schema{
		"imports": arrayOf(item, ""),
	}, "imports")
}

func importFilesSchema() *jsonschema.Schema {
	item := object(map[string]*jsonschema.Schema{
		"path": str("Path of the file relative to the project file. " + sceneFormats),
	}, "path")

	return object(map[string]*jsonschema.Schema{
		"imports": arrayOf(item, ""),
	}, "imports")
}
