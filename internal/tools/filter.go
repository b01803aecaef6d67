package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/wagiedev/editor-mcp-go/internal/scene"
)

// nameField is compared by substring containment instead of equality.
const nameField = "name"

// Filter selects resources by their JSON fields.
//
// Include requires every field to match. Exclude drops a resource when any
// single field matches. A field missing from the resource never matches.
type Filter struct {
	Include map[string]any
	Exclude map[string]any
}

// Matches reports whether a resource with the given fields passes the filter.
func (f Filter) Matches(fields map[string]any) bool {
	for key, want := range f.Include {
		if !fieldMatches(fields, key, want) {
			return false
		}
	}

	for key, want := range f.Exclude {
		if fieldMatches(fields, key, want) {
			return false
		}
	}

	return true
}

// Empty reports whether the filter has no fields at all.
func (f Filter) Empty() bool {
	return len(f.Include) == 0 && len(f.Exclude) == 0
}

func fieldMatches(fields map[string]any, key string, want any) bool {
	got, ok := fields[key]
	if !ok {
		return false
	}

	if key == nameField {
		gs, gok := got.(string)
		ws, wok := want.(string)

		if gok && wok {
			return strings.Contains(gs, ws)
		}
	}

	return reflect.DeepEqual(got, want)
}

// Fields returns the JSON object view of a resource as seen by filters and
// query results.
func Fields(r scene.Resource) (map[string]any, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.ResourceID(), err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.ResourceID(), err)
	}

	return fields, nil
}

// Select applies the id list and filters of a query to resources. With ids,
// results follow the id order and unknown ids are skipped.
func (a *QueryResourcesArgs) Select(resources []scene.Resource) ([]map[string]any, error) {
	candidates := resources

	if len(a.IDs) > 0 {
		byID := make(map[string]scene.Resource, len(resources))
		for _, r := range resources {
			byID[r.ResourceID()] = r
		}

		candidates = make([]scene.Resource, 0, len(a.IDs))
		for _, id := range a.IDs {
			if r, ok := byID[id]; ok {
				candidates = append(candidates, r)
			}
		}
	}

	filter := a.Filter()
	out := make([]map[string]any, 0, len(candidates))

	for _, r := range candidates {
		fields, err := Fields(r)
		if err != nil {
			return nil, err
		}

		if filter.Matches(fields) {
			out = append(out, fields)
		}
	}

	return out, nil
}
