package editormcp

import (
	"github.com/wagiedev/editor-mcp-go/internal/config"
	"github.com/wagiedev/editor-mcp-go/internal/mcp"
	"github.com/wagiedev/editor-mcp-go/internal/queue"
	"github.com/wagiedev/editor-mcp-go/internal/scene"
)

// Re-export types from internal packages

// ===== Options and Configuration =====

// Options configures the editor MCP server.
type Options = config.Options

// ConfigFile is the YAML configuration file layout.
type ConfigFile = config.File

// Order selects the order in which pending mutations are applied.
type Order = queue.Order

const (
	// OrderFIFO applies mutations in submission order.
	OrderFIFO = queue.OrderFIFO
	// OrderLIFO applies the most recently submitted mutation first.
	OrderLIFO = queue.OrderLIFO
)

// Endpoint mounts one MCP transport on an HTTP path.
type Endpoint = mcp.Endpoint

// TransportType names an MCP HTTP transport.
type TransportType = mcp.TransportType

const (
	// TransportSSE is the server-sent events transport.
	TransportSSE = mcp.TransportSSE
	// TransportStreamable is the streamable HTTP transport.
	TransportStreamable = mcp.TransportStreamable
)

// HealthPath serves the JSON Status report.
const HealthPath = mcp.HealthPath

// Status is the health report served at HealthPath.
type Status = mcp.Status

// ===== Scene =====

// ResourceType names a resource collection and is the scheme of its URIs.
type ResourceType = scene.ResourceType

// Resource types, in the order they are listed.
const (
	Objects         = scene.Objects
	Textures        = scene.Textures
	Meshes          = scene.Meshes
	Materials       = scene.Materials
	Animations      = scene.Animations
	Skins           = scene.Skins
	Images          = scene.Images
	Shaders         = scene.Shaders
	Pipelines       = scene.Pipelines
	Fonts           = scene.Fonts
	MorphTargets    = scene.MorphTargets
	ParticleEffects = scene.ParticleEffects
)

// Resource is a named record in a resource collection.
type Resource = scene.Resource

// Object is a scene graph node.
type Object = scene.Object

// Component is a typed behavior attached to an Object.
type Component = scene.Component

// Record is a generic resource of any non-object type.
type Record = scene.Record

// Vec3 is a translation or scaling vector.
type Vec3 = scene.Vec3

// Quat is a rotation quaternion in x, y, z, w order.
type Quat = scene.Quat

// Store provides read access to the resource collections.
type Store = scene.Store

// ObjectStore is a Store that can also replace objects.
type ObjectStore = scene.ObjectStore

// Importer loads scenes and files into the host.
type Importer = scene.Importer

// MemoryStore is the in-memory ObjectStore.
type MemoryStore = scene.MemoryStore

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return scene.NewMemoryStore()
}

// NewObject returns an object with identity rotation and unit scale.
func NewObject(id, name string) *Object {
	return scene.NewObject(id, name)
}
