package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/wagiedev/editor-mcp-go/internal/errors"
)

// Validator checks tool arguments against the tool schemas.
//
// jsonschema stops at the first failure, so the validator walks the object
// and array-of-object levels of each schema itself and validates every leaf
// separately. That way one call reports all offending fields.
type Validator struct {
	descriptors map[string]Descriptor
	order       []string
	// resolved holds a resolved schema per node. Composite nodes map to a
	// shallow copy without their children.
	resolved map[*jsonschema.Schema]*jsonschema.Resolved
}

// NewValidator resolves the schemas of every tool.
func NewValidator() (*Validator, error) {
	v := &Validator{
		descriptors: make(map[string]Descriptor, 8),
		resolved:    make(map[*jsonschema.Schema]*jsonschema.Resolved, 64),
	}

	for _, d := range Descriptors() {
		if err := v.prepare(d.InputSchema); err != nil {
			return nil, fmt.Errorf("resolve %s schema: %w", d.Name, err)
		}

		v.descriptors[d.Name] = d
		v.order = append(v.order, d.Name)
	}

	return v, nil
}

// Descriptors returns the tool descriptors in stable order.
func (v *Validator) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(v.order))
	for _, name := range v.order {
		out = append(out, v.descriptors[name])
	}

	return out
}

// Lookup returns the descriptor of a tool.
func (v *Validator) Lookup(tool string) (Descriptor, bool) {
	d, ok := v.descriptors[tool]

	return d, ok
}

// Validate checks raw against the schema of tool and decodes it into the
// tool's argument type. Nothing is decoded unless every field is valid.
func (v *Validator) Validate(tool string, raw json.RawMessage) (Args, error) {
	d, ok := v.descriptors[tool]
	if !ok {
		return nil, &errors.UnknownToolError{Name: tool}
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = json.RawMessage("{}")
	}

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, &errors.ValidationError{
			Tool:       tool,
			Violations: []errors.Violation{{Message: "arguments are not valid JSON: " + err.Error()}},
		}
	}

	var violations []errors.Violation
	v.collect("", d.InputSchema, instance, &violations)

	if len(violations) > 0 {
		return nil, &errors.ValidationError{Tool: tool, Violations: violations}
	}

	args := newArgs(tool)
	if err := json.Unmarshal(raw, args); err != nil {
		return nil, &errors.ValidationError{
			Tool:       tool,
			Violations: []errors.Violation{{Message: err.Error()}},
		}
	}

	return args, nil
}

func (v *Validator) prepare(s *jsonschema.Schema) error {
	switch {
	case isObjectNode(s):
		if err := v.resolve(s, &jsonschema.Schema{Type: "object"}); err != nil {
			return err
		}

		for _, prop := range s.Properties {
			if err := v.prepare(prop); err != nil {
				return err
			}
		}

		return nil
	case isArrayNode(s):
		shallow := &jsonschema.Schema{Type: "array", MinItems: s.MinItems, MaxItems: s.MaxItems}
		if err := v.resolve(s, shallow); err != nil {
			return err
		}

		return v.prepare(s.Items)
	default:
		return v.resolve(s, s)
	}
}

func (v *Validator) resolve(key, s *jsonschema.Schema) error {
	rs, err := s.Resolve(nil)
	if err != nil {
		return err
	}

	v.resolved[key] = rs

	return nil
}

func (v *Validator) collect(path string, s *jsonschema.Schema, value any, out *[]errors.Violation) {
	if err := v.resolved[s].Validate(value); err != nil {
		*out = append(*out, errors.Violation{Field: path, Message: violationMessage(err)})

		return
	}

	switch {
	case isObjectNode(s):
		obj, _ := value.(map[string]any)

		for _, name := range s.Required {
			if _, ok := obj[name]; !ok {
				*out = append(*out, errors.Violation{Field: joinPath(path, name), Message: "required"})
			}
		}

		for _, name := range slices.Sorted(maps.Keys(s.Properties)) {
			if field, ok := obj[name]; ok {
				v.collect(joinPath(path, name), s.Properties[name], field, out)
			}
		}
	case isArrayNode(s):
		items, _ := value.([]any)
		for i, item := range items {
			v.collect(fmt.Sprintf("%s[%d]", path, i), s.Items, item, out)
		}
	}
}

// isObjectNode reports whether s is an object with declared properties.
func isObjectNode(s *jsonschema.Schema) bool {
	return s.Type == "object" && len(s.Properties) > 0
}

// isArrayNode reports whether s is an array of object nodes.
func isArrayNode(s *jsonschema.Schema) bool {
	return s.Type == "array" && s.Items != nil && isObjectNode(s.Items)
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}

	return path + "." + name
}

// violationMessage strips the "validating <schema>: " prefixes jsonschema
// adds on each level.
func violationMessage(err error) string {
	msg := err.Error()

	for strings.HasPrefix(msg, "validating ") {
		i := strings.Index(msg, ": ")
		if i < 0 {
			break
		}

		msg = msg[i+2:]
	}

	return msg
}
