package registry

import (
	"log/slog"
	"slices"

	"github.com/wagiedev/editor-mcp-go/internal/errors"
	"github.com/wagiedev/editor-mcp-go/internal/scene"
)

// Summary is the listing view of a resource.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Registry maps resource type names to the live collections of a store.
// It is read-only and safe for concurrent use.
type Registry struct {
	log   *slog.Logger
	store scene.Store
	types []scene.ResourceType
}

// New creates a registry over the fixed resource types backed by store.
func New(log *slog.Logger, store scene.Store) *Registry {
	return &Registry{
		log:   log.With("component", "registry"),
		store: store,
		types: slices.Clone(scene.ResourceTypes),
	}
}

// Types returns the registered resource types in declaration order.
func (r *Registry) Types() []scene.ResourceType {
	return slices.Clone(r.types)
}

// Has reports whether t is a registered resource type.
func (r *Registry) Has(t scene.ResourceType) bool {
	return slices.Contains(r.types, t)
}

// List returns id and name of every resource of type t.
func (r *Registry) List(t scene.ResourceType) ([]Summary, error) {
	resources, err := r.Resources(t)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(resources))
	for _, res := range resources {
		out = append(out, Summary{ID: res.ResourceID(), Name: res.ResourceName()})
	}

	return out, nil
}

// Resources returns the full records of type t.
func (r *Registry) Resources(t scene.ResourceType) ([]scene.Resource, error) {
	if !r.Has(t) {
		return nil, &errors.NotFoundError{Kind: "resource type", ID: string(t)}
	}

	resources, ok := r.store.List(t)
	if !ok {
		// Store does not back this collection; treat it as empty.
		r.log.Debug("Store has no collection", "type", t)

		return nil, nil
	}

	return resources, nil
}

// Get returns the resource of type t with the given id.
func (r *Registry) Get(t scene.ResourceType, id string) (scene.Resource, error) {
	if !r.Has(t) {
		return nil, &errors.NotFoundError{Kind: "resource type", ID: string(t)}
	}

	res, ok := r.store.Get(t, id)
	if !ok {
		return nil, &errors.NotFoundError{Kind: string(t), ID: id}
	}

	return res, nil
}
