package scene

// Vec3 is a position or scale vector.
type Vec3 [3]float64

// Quat is a rotation quaternion in (x, y, z, w) order.
type Quat [4]float64

// Default transform of a freshly created object.
var (
	IdentityRotation = Quat{0, 0, 0, 1}
	UnitScale        = Vec3{1, 1, 1}
)

// Object is a node of the scene graph.
type Object struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Parent is the id of the parent object, empty for root objects.
	Parent      string      `json:"parent,omitempty"`
	Translation Vec3        `json:"translation"`
	Rotation    Quat        `json:"rotation"`
	Scaling     Vec3        `json:"scaling"`
	Components  []Component `json:"components"`
}

// NewObject returns an object with the identity transform.
func NewObject(id, name string) *Object {
	return &Object{
		ID:         id,
		Name:       name,
		Rotation:   IdentityRotation,
		Scaling:    UnitScale,
		Components: []Component{},
	}
}

// ResourceID implements Resource.
func (o *Object) ResourceID() string { return o.ID }

// ResourceName implements Resource.
func (o *Object) ResourceName() string { return o.Name }

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	out := *o

	out.Components = make([]Component, len(o.Components))
	for i, c := range o.Components {
		out.Components[i] = c.Clone()
	}

	return &out
}
