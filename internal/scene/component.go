package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// Built-in component kinds with typed properties.
const (
	KindMesh      = "mesh"
	KindLight     = "light"
	KindText      = "text"
	KindCollision = "collision"
)

// MeshProperties configures a mesh component.
type MeshProperties struct {
	Mesh     string `json:"mesh,omitempty"`
	Material string `json:"material,omitempty"`
	Skin     string `json:"skin,omitempty"`

	// MorphTargets references a morphTargets resource.
	MorphTargets string `json:"morphTargets,omitempty"`
}

// LightProperties configures a light component.
type LightProperties struct {
	// Type is "point", "spot" or "sun".
	Type             string    `json:"type,omitempty"`
	Color            []float64 `json:"color,omitempty"`
	Intensity        *float64  `json:"intensity,omitempty"`
	OuterAngle       *float64  `json:"outerAngle,omitempty"`
	InnerAngle       *float64  `json:"innerAngle,omitempty"`
	Shadows          *bool     `json:"shadows,omitempty"`
	ShadowBias       *float64  `json:"shadowBias,omitempty"`
	ShadowTexelSize  *float64  `json:"shadowTexelSize,omitempty"`
	ShadowNormalBias *float64  `json:"shadowNormalBias,omitempty"`
}

// TextProperties configures a text component.
type TextProperties struct {
	Text          string `json:"text,omitempty"`
	Font          string `json:"font,omitempty"`
	Material      string `json:"material,omitempty"`
	Alignment     string `json:"alignment,omitempty"`
	Justification string `json:"justification,omitempty"`
}

// CollisionProperties configures a collision component.
type CollisionProperties struct {
	// Collider is "sphere", "aabb" or "box".
	Collider string    `json:"collider,omitempty"`
	Extents  []float64 `json:"extents,omitempty"`
	Group    *int      `json:"group,omitempty"`
}

// Component is a tagged variant. Type selects which property field is set;
// kinds without a typed struct keep their properties in Custom. The zero
// value is the empty component.
type Component struct {
	Type string

	Mesh      *MeshProperties
	Light     *LightProperties
	Text      *TextProperties
	Collision *CollisionProperties
	Custom    map[string]any
}

// NewComponent builds a component of the given kind from a property bag.
// Typed kinds reject properties they do not know.
func NewComponent(kind string, props map[string]any) (Component, error) {
	c := Component{Type: kind}
	if err := c.setProperties(props); err != nil {
		return Component{}, err
	}

	return c, nil
}

// Properties returns the component properties as a generic map.
func (c Component) Properties() map[string]any {
	var typed any

	switch c.Type {
	case "":
		return map[string]any{}
	case KindMesh:
		typed = c.Mesh
	case KindLight:
		typed = c.Light
	case KindText:
		typed = c.Text
	case KindCollision:
		typed = c.Collision
	default:
		return cloneMap(c.Custom)
	}

	out := map[string]any{}

	data, err := json.Marshal(typed)
	if err != nil {
		return out
	}

	if err := json.Unmarshal(data, &out); err != nil || out == nil {
		return map[string]any{}
	}

	return out
}

// Merge overwrites the properties present in props, leaving the rest intact.
// A null value clears the property.
func (c *Component) Merge(props map[string]any) error {
	merged := c.Properties()
	maps.Copy(merged, props)

	for k, v := range merged {
		if v == nil {
			delete(merged, k)
		}
	}

	next := Component{Type: c.Type}
	if err := next.setProperties(merged); err != nil {
		return err
	}

	*c = next

	return nil
}

func (c *Component) setProperties(props map[string]any) error {
	switch c.Type {
	case "":
		if len(props) > 0 {
			return fmt.Errorf("empty component cannot carry properties")
		}

		return nil
	case KindMesh:
		c.Mesh = &MeshProperties{}
		return decodeStrict(props, c.Mesh, c.Type)
	case KindLight:
		c.Light = &LightProperties{}
		return decodeStrict(props, c.Light, c.Type)
	case KindText:
		c.Text = &TextProperties{}
		return decodeStrict(props, c.Text, c.Type)
	case KindCollision:
		c.Collision = &CollisionProperties{}
		return decodeStrict(props, c.Collision, c.Type)
	default:
		c.Custom = cloneMap(props)
		return nil
	}
}

func decodeStrict(props map[string]any, dst any, kind string) error {
	if len(props) == 0 {
		return nil
	}

	data, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("encode %s properties: %w", kind, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid %s properties: %w", kind, err)
	}

	return nil
}

// Clone returns a deep copy of the component.
func (c Component) Clone() Component {
	out := Component{Type: c.Type}

	if c.Mesh != nil {
		m := *c.Mesh
		out.Mesh = &m
	}

	if c.Light != nil {
		l := *c.Light
		l.Color = cloneFloats(c.Light.Color)
		out.Light = &l
	}

	if c.Text != nil {
		t := *c.Text
		out.Text = &t
	}

	if c.Collision != nil {
		col := *c.Collision
		col.Extents = cloneFloats(c.Collision.Extents)
		out.Collision = &col
	}

	if c.Custom != nil {
		out.Custom = cloneMap(c.Custom)
	}

	return out
}

// MarshalJSON encodes the component in editor form: {"type": k, k: {...}}.
func (c Component) MarshalJSON() ([]byte, error) {
	out := map[string]any{"type": c.Type}
	if c.Type != "" {
		out[c.Type] = c.Properties()
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes the editor form produced by MarshalJSON.
func (c *Component) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var kind string
	if t, ok := raw["type"]; ok {
		if err := json.Unmarshal(t, &kind); err != nil {
			return fmt.Errorf("component type: %w", err)
		}
	}

	var props map[string]any
	if body, ok := raw[kind]; ok && kind != "" {
		if err := json.Unmarshal(body, &props); err != nil {
			return fmt.Errorf("component %s: %w", kind, err)
		}
	}

	next, err := NewComponent(kind, props)
	if err != nil {
		return err
	}

	*c = next

	return nil
}

func cloneFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}

	out := make([]float64, len(in))
	copy(out, in)

	return out
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}

		return out
	default:
		return v
	}
}
