package scene

import (
	"encoding/json"
	"fmt"
)

// Record is a generic resource of any non-object collection. On the wire its
// properties sit next to id and name.
type Record struct {
	ID         string
	Name       string
	Properties map[string]any
}

// ResourceID implements Resource.
func (r *Record) ResourceID() string { return r.ID }

// ResourceName implements Resource.
func (r *Record) ResourceName() string { return r.Name }

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	return &Record{ID: r.ID, Name: r.Name, Properties: cloneMap(r.Properties)}
}

// MarshalJSON flattens the properties into the record object.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Properties)+2)
	for k, v := range r.Properties {
		out[k] = v
	}

	out["id"] = r.ID
	out["name"] = r.Name

	return json.Marshal(out)
}

// UnmarshalJSON reads a flattened record.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, _ := raw["id"].(string)

	name, ok := raw["name"].(string)
	if !ok {
		return fmt.Errorf("record %q has no name", id)
	}

	delete(raw, "id")
	delete(raw, "name")

	r.ID = id
	r.Name = name
	r.Properties = raw

	return nil
}
