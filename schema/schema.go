// Package schema defines the schema node produced by the typeschema engine.
//
// A [Schema] is a JSON-Schema/OpenAPI-shaped tree. It is one of four kinds:
// an object with properties and a required list, an array with items, a
// $ref back-reference, or a primitive leaf with optional format and
// constraints. Nodes serialize to JSON and YAML; map keys are emitted in
// sorted order so equal trees always produce identical bytes.
package schema

import "slices"

// Kind classifies a schema node.
type Kind int

const (
	// KindPrimitive is a leaf node (string, number, integer, boolean).
	KindPrimitive Kind = iota
	// KindObject is an object node with properties.
	KindObject
	// KindArray is an array node with items.
	KindArray
	// KindRef is a $ref back-reference to a named schema.
	KindRef
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindRef:
		return "ref"
	default:
		return "primitive"
	}
}

// Type names used in the "type" field.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
)

// Schema is a single node of a synthesized schema tree.
type Schema struct {
	Ref         string `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Type        string `yaml:"type,omitempty" json:"type,omitempty"`
	Format      string `yaml:"format,omitempty" json:"format,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Object
	Properties           map[string]*Schema `yaml:"properties,omitempty" json:"properties,omitempty"`
	Required             []string           `yaml:"required,omitempty" json:"required,omitempty"`
	AdditionalProperties *Schema            `yaml:"additionalProperties,omitempty" json:"additionalProperties,omitempty"`

	// Array
	Items    *Schema `yaml:"items,omitempty" json:"items,omitempty"`
	MinItems *int    `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	MaxItems *int    `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`

	// Enum
	Enum []any `yaml:"enum,omitempty" json:"enum,omitempty"`

	// Numeric
	Minimum *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	Maximum *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`

	// String
	MinLength *int `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength *int `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
}

// Kind reports which variant s is.
func (s *Schema) Kind() Kind {
	switch {
	case s.Ref != "":
		return KindRef
	case s.Type == TypeArray:
		return KindArray
	case s.Type == TypeObject:
		return KindObject
	default:
		return KindPrimitive
	}
}

// NewObject returns an empty object node with an allocated property map.
func NewObject() *Schema {
	return &Schema{Type: TypeObject, Properties: make(map[string]*Schema)}
}

// NewOpenObject returns an object node with no fixed property set.
// Any additional property is allowed.
func NewOpenObject() *Schema {
	return &Schema{Type: TypeObject, AdditionalProperties: &Schema{}}
}

// NewArray returns an array node wrapping items.
func NewArray(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

// NewRef returns a back-reference node.
func NewRef(ref string) *Schema {
	return &Schema{Ref: ref}
}

// IsOpen reports whether s is an object node without fixed properties.
func (s *Schema) IsOpen() bool {
	return s.Kind() == KindObject && len(s.Properties) == 0 && s.AdditionalProperties != nil
}

// PropertyNames returns the object's property names in sorted order.
func (s *Schema) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRequired reports whether name is in the required list.
func (s *Schema) IsRequired(name string) bool {
	return slices.Contains(s.Required, name)
}

// SetRequired adds or removes name from the required list,
// preserving the order of the remaining entries.
func (s *Schema) SetRequired(name string, required bool) {
	idx := slices.Index(s.Required, name)
	switch {
	case required && idx < 0:
		s.Required = append(s.Required, name)
	case !required && idx >= 0:
		s.Required = slices.Delete(s.Required, idx, idx+1)
	}
	if len(s.Required) == 0 {
		s.Required = nil
	}
}

// Clone returns a deep copy of s. Nil clones to nil.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	if s.Properties != nil {
		c.Properties = make(map[string]*Schema, len(s.Properties))
		for name, prop := range s.Properties {
			c.Properties[name] = prop.Clone()
		}
	}
	c.Required = slices.Clone(s.Required)
	c.AdditionalProperties = s.AdditionalProperties.Clone()
	c.Items = s.Items.Clone()
	c.Enum = slices.Clone(s.Enum)
	c.MinItems = clonePtr(s.MinItems)
	c.MaxItems = clonePtr(s.MaxItems)
	c.Minimum = clonePtr(s.Minimum)
	c.Maximum = clonePtr(s.Maximum)
	c.MinLength = clonePtr(s.MinLength)
	c.MaxLength = clonePtr(s.MaxLength)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Refs returns every $ref value in the tree, in depth-first order with
// object properties visited by sorted name.
func (s *Schema) Refs() []string {
	var refs []string
	var walk func(n *Schema)
	walk = func(n *Schema) {
		if n == nil {
			return
		}
		if n.Ref != "" {
			refs = append(refs, n.Ref)
		}
		for _, name := range n.PropertyNames() {
			walk(n.Properties[name])
		}
		walk(n.AdditionalProperties)
		walk(n.Items)
	}
	walk(s)
	return refs
}

// Float returns a pointer to v, for constraint fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for constraint fields.
func Int(v int) *int { return &v }
