package scene

import "context"

// Store gives read access to the resource collections of a project.
//
// Returned resources must be treated as read-only; writers replace records
// instead of mutating them in place, so readers never observe a torn value.
type Store interface {
	// List returns every resource of the collection. ok is false when the
	// store has no such collection.
	List(t ResourceType) (resources []Resource, ok bool)
	// Get returns one resource. ok is false when the collection or id is unknown.
	Get(t ResourceType, id string) (resource Resource, ok bool)
}

// ObjectStore adds object writes to Store. Writes must only happen from the
// host's update goroutine, i.e. inside a drained mutation.
type ObjectStore interface {
	Store

	// Object returns a private copy of the object that callers may modify.
	Object(id string) (*Object, bool)
	// PutObjects inserts or replaces all given objects in one step.
	PutObjects(objects ...*Object)
}

// Importer brings external files into the project. Its methods are only
// invoked from the host's update goroutine.
type Importer interface {
	// ImportScene appends the scene file at path and returns the id of the
	// root object created for it.
	ImportScene(ctx context.Context, path string) (rootID string, err error)
	// ImportFile imports the assets contained in the file at path.
	ImportFile(ctx context.Context, path string) error
}
