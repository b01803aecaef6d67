// Package scene defines the editor data model: typed resource collections,
// scene-graph objects with their components, and the store and importer
// interfaces the host implements.
package scene
