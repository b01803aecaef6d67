package scene

// ResourceType names a resource collection. It doubles as the URI scheme of
// the resources it contains, e.g. "objects://<id>".
type ResourceType string

// Resource collections exposed by the editor project.
const (
	Objects         ResourceType = "objects"
	Textures        ResourceType = "textures"
	Meshes          ResourceType = "meshes"
	Materials       ResourceType = "materials"
	Animations      ResourceType = "animations"
	Skins           ResourceType = "skins"
	Images          ResourceType = "images"
	Shaders         ResourceType = "shaders"
	Pipelines       ResourceType = "pipelines"
	Fonts           ResourceType = "fonts"
	MorphTargets    ResourceType = "morphTargets"
	ParticleEffects ResourceType = "particleEffects"
)

// ResourceTypes lists every collection in declaration order.
var ResourceTypes = []ResourceType{
	Objects,
	Textures,
	Meshes,
	Materials,
	Animations,
	Skins,
	Images,
	Shaders,
	Pipelines,
	Fonts,
	MorphTargets,
	ParticleEffects,
}

// ParseResourceType returns the ResourceType named s.
func ParseResourceType(s string) (ResourceType, bool) {
	for _, t := range ResourceTypes {
		if string(t) == s {
			return t, true
		}
	}

	return "", false
}

// Resource is a named record living in exactly one collection.
type Resource interface {
	ResourceID() string
	ResourceName() string
}

// Compile-time verification of resource implementations.
var (
	_ Resource = (*Object)(nil)
	_ Resource = (*Record)(nil)
)
