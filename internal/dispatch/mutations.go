package dispatch

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/wagiedev/editor-mcp-go/internal/errors"
	"github.com/wagiedev/editor-mcp-go/internal/scene"
	"github.com/wagiedev/editor-mcp-go/internal/tools"
)

// defaultObjectName is used for objects created by modify_objects without a name.
const defaultObjectName = "Object"

// The functions in this file run on the host goroutine inside a drained mutation.

func (d *Dispatcher) createObject(id string, args *tools.CreateObjectArgs) (string, error) {
	obj := scene.NewObject(id, args.Name)
	obj.Translation = args.Position

	d.store.PutObjects(obj)

	return fmt.Sprintf("Created object %s: %s", id, args.Name), nil
}

// staging collects modified copies of objects so a batch commits all or nothing.
type staging struct {
	store   scene.ObjectStore
	objects map[string]*scene.Object
	order   []string
}

func newStaging(store scene.ObjectStore) *staging {
	return &staging{store: store, objects: make(map[string]*scene.Object)}
}

// object returns the staged copy of id, copying it from the store on first use.
func (s *staging) object(id string) (*scene.Object, bool) {
	if obj, ok := s.objects[id]; ok {
		return obj, true
	}

	obj, ok := s.store.Object(id)
	if !ok {
		return nil, false
	}

	s.add(obj)

	return obj, true
}

func (s *staging) add(obj *scene.Object) {
	s.objects[obj.ID] = obj
	s.order = append(s.order, obj.ID)
}

func (s *staging) exists(id string) bool {
	if _, ok := s.objects[id]; ok {
		return true
	}

	_, ok := s.store.Get(scene.Objects, id)

	return ok
}

func (s *staging) commit() {
	objects := make([]*scene.Object, 0, len(s.order))
	for _, id := range s.order {
		objects = append(objects, s.objects[id])
	}

	s.store.PutObjects(objects...)
}

func (d *Dispatcher) modifyObjects(mods []tools.Modification) (string, error) {
	stage := newStaging(d.store)
	lines := make([]string, 0, len(mods))

	for i, m := range mods {
		var (
			obj  *scene.Object
			verb = "Modified"
		)

		if m.ID == "" {
			obj = scene.NewObject(d.newID(), defaultObjectName)
			stage.add(obj)

			verb = "Created"
		} else {
			var ok bool

			obj, ok = stage.object(m.ID)
			if !ok {
				return "", fmt.Errorf("modifications[%d]: %w", i, &errors.NotFoundError{Kind: string(scene.Objects), ID: m.ID})
			}
		}

		if err := applyModification(stage, obj, m); err != nil {
			return "", fmt.Errorf("modifications[%d]: %w", i, err)
		}

		lines = append(lines, fmt.Sprintf("%s object %s: %s", verb, obj.ID, obj.Name))
	}

	stage.commit()

	return joinLines(lines), nil
}

func applyModification(stage *staging, obj *scene.Object, m tools.Modification) error {
	if m.Name != nil {
		obj.Name = *m.Name
	}

	if m.ParentID != nil {
		parent := *m.ParentID

		switch {
		case parent == "":
			obj.Parent = ""
		case parent == obj.ID:
			return fmt.Errorf("object %s cannot be its own parent", obj.ID)
		case !stage.exists(parent):
			return &errors.NotFoundError{Kind: "parent object", ID: parent}
		default:
			obj.Parent = parent
		}
	}

	if m.Position != nil {
		obj.Translation = *m.Position
	}

	if m.Rotation != nil {
		obj.Rotation = *m.Rotation
	}

	if m.Scaling != nil {
		obj.Scaling = *m.Scaling
	}

	return applyComponentEdits(obj, m)
}

// applyComponentEdits modifies, then removes, then appends components.
// Modify and remove indices refer to the component list as it was before
// this entry.
func applyComponentEdits(obj *scene.Object, m tools.Modification) error {
	n := len(obj.Components)

	for _, edit := range m.ModifyComponents {
		if edit.Index < 0 || edit.Index >= n {
			return fmt.Errorf("modifyComponents: index %d out of range (%d components)", edit.Index, n)
		}

		if err := obj.Components[edit.Index].Merge(edit.Properties); err != nil {
			return fmt.Errorf("modifyComponents[%d]: %w", edit.Index, err)
		}
	}

	remove := slices.Clone(m.RemoveComponents)
	slices.SortFunc(remove, func(a, b int) int { return cmp.Compare(b, a) })
	remove = slices.Compact(remove)

	for _, idx := range remove {
		if idx < 0 || idx >= n {
			return fmt.Errorf("removeComponents: index %d out of range (%d components)", idx, n)
		}

		obj.Components = slices.Delete(obj.Components, idx, idx+1)
	}

	for _, spec := range m.AddComponents {
		c, err := scene.NewComponent(spec.Type, spec.Properties)
		if err != nil {
			return fmt.Errorf("addComponents: %w", err)
		}

		obj.Components = append(obj.Components, c)
	}

	return nil
}

func (d *Dispatcher) importScenes(ctx context.Context, imports []tools.SceneImport) (string, error) {
	if d.importer == nil {
		return "", errors.ErrImporterUnavailable
	}

	lines := make([]string, 0, len(imports))

	for i, imp := range imports {
		if imp.ParentID != "" {
			if _, ok := d.store.Get(scene.Objects, imp.ParentID); !ok {
				return "", fmt.Errorf("imports[%d]: %w", i, &errors.NotFoundError{Kind: "parent object", ID: imp.ParentID})
			}
		}

		rootID, err := d.importer.ImportScene(ctx, imp.Path)
		if err != nil {
			return "", fmt.Errorf("imports[%d] %s: %w", i, imp.Path, err)
		}

		if imp.ParentID != "" {
			root, ok := d.store.Object(rootID)
			if !ok {
				return "", fmt.Errorf("imports[%d] %s: %w", i, imp.Path, &errors.NotFoundError{Kind: string(scene.Objects), ID: rootID})
			}

			root.Parent = imp.ParentID
			d.store.PutObjects(root)
		}

		d.log.Info("Imported scene", "path", imp.Path, "root", rootID, "parent", imp.ParentID)

		lines = append(lines, fmt.Sprintf("Imported scene %s as %s", imp.Path, rootID))
	}

	return joinLines(lines), nil
}

func (d *Dispatcher) importFiles(ctx context.Context, imports []tools.FileImport) (string, error) {
	if d.importer == nil {
		return "", errors.ErrImporterUnavailable
	}

	lines := make([]string, 0, len(imports))

	for i, imp := range imports {
		if err := d.importer.ImportFile(ctx, imp.Path); err != nil {
			return "", fmt.Errorf("imports[%d] %s: %w", i, imp.Path, err)
		}

		d.log.Info("Imported file", "path", imp.Path)

		lines = append(lines, "Imported file "+imp.Path)
	}

	return joinLines(lines), nil
}
