// Package registry exposes the resource collections of a scene store by
// type name for listing and lookup.
package registry
