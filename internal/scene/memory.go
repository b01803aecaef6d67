package scene

import (
	"fmt"
	"sync"
)

// collection keeps resources in insertion order.
type collection struct {
	order []string
	items map[string]Resource
}

func newCollection() *collection {
	return &collection{items: make(map[string]Resource)}
}

func (c *collection) put(r Resource) {
	id := r.ResourceID()
	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}

	c.items[id] = r
}

// MemoryStore is an in-memory ObjectStore holding every resource type.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[ResourceType]*collection
}

// Compile-time verification that MemoryStore implements ObjectStore.
var _ ObjectStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store with one collection per resource type.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{collections: make(map[ResourceType]*collection, len(ResourceTypes))}
	for _, t := range ResourceTypes {
		s.collections[t] = newCollection()
	}

	return s
}

// List implements Store.
func (s *MemoryStore) List(t ResourceType) ([]Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[t]
	if !ok {
		return nil, false
	}

	out := make([]Resource, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}

	return out, true
}

// Get implements Store.
func (s *MemoryStore) Get(t ResourceType, id string) (Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[t]
	if !ok {
		return nil, false
	}

	r, ok := c.items[id]

	return r, ok
}

// Object implements ObjectStore.
func (s *MemoryStore) Object(id string) (*Object, bool) {
	r, ok := s.Get(Objects, id)
	if !ok {
		return nil, false
	}

	obj, ok := r.(*Object)
	if !ok {
		return nil, false
	}

	return obj.Clone(), true
}

// PutObjects implements ObjectStore. The objects are copied.
func (s *MemoryStore) PutObjects(objects ...*Object) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collections[Objects]
	for _, obj := range objects {
		c.put(obj.Clone())
	}
}

// PutRecord inserts or replaces a record of a non-object collection.
func (s *MemoryStore) PutRecord(t ResourceType, r *Record) error {
	if t == Objects {
		return fmt.Errorf("objects must be stored with PutObjects")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[t]
	if !ok {
		return fmt.Errorf("unknown resource type %q", t)
	}

	c.put(r.Clone())

	return nil
}

// Len returns the number of resources of type t.
func (s *MemoryStore) Len(t ResourceType) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.collections[t]; ok {
		return len(c.items)
	}

	return 0
}
