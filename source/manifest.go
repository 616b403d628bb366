package source

import (
	"fmt"
	"os"

	"github.com/erraggy/typeschema/tserrors"
	"go.yaml.in/yaml/v4"
)

// Manifest kinds.
const (
	KindClass = "class"
	KindEnum  = "enum"
)

// Manifest is the on-disk description of a declaration set. It is read from
// YAML or JSON.
type Manifest struct {
	Declarations []ManifestDeclaration `yaml:"declarations" json:"declarations" validate:"dive"`
	// Opaque lists structural members of external types without declarations.
	Opaque []ManifestOpaque `yaml:"opaque,omitempty" json:"opaque,omitempty" validate:"dive"`
	// Constants are named values available to annotation argument evaluation.
	Constants map[string]any `yaml:"constants,omitempty" json:"constants,omitempty"`
}

// ManifestDeclaration is a class or enum entry.
type ManifestDeclaration struct {
	Kind       string             `yaml:"kind" json:"kind,omitempty" validate:"omitempty,oneof=class enum" jsonschema:"enum=class,enum=enum,default=class"`
	Name       string             `yaml:"name" json:"name" validate:"required"`
	Location   string             `yaml:"location,omitempty" json:"location,omitempty"`
	TypeParams []string           `yaml:"typeParams,omitempty" json:"typeParams,omitempty" validate:"dive,required"`
	Extends    string             `yaml:"extends,omitempty" json:"extends,omitempty"`
	Properties []ManifestProperty `yaml:"properties,omitempty" json:"properties,omitempty" validate:"dive"`
	Members    []EnumMember       `yaml:"members,omitempty" json:"members,omitempty"`
}

// ManifestOpaque is the structural description of an external type.
type ManifestOpaque struct {
	Name       string             `yaml:"name" json:"name" validate:"required"`
	Properties []ManifestProperty `yaml:"properties" json:"properties" validate:"dive"`
}

// ManifestProperty is one property entry.
type ManifestProperty struct {
	Name        string               `yaml:"name" json:"name" validate:"required"`
	Type        string               `yaml:"type" json:"type" validate:"required"`
	Optional    bool                 `yaml:"optional,omitempty" json:"optional,omitempty"`
	Annotations []ManifestAnnotation `yaml:"annotations,omitempty" json:"annotations,omitempty" validate:"dive"`
}

// ManifestAnnotation is one annotation entry. Each argument is either a
// plain literal, {typeRef: Name}, or {expr: "source expression"}.
type ManifestAnnotation struct {
	Name string `yaml:"name" json:"name" validate:"required"`
	Args []any  `yaml:"args,omitempty" json:"args,omitempty"`
}

// LoadManifest reads and parses a manifest file into a Memory provider.
// Declarations without a location are attributed to path.
func LoadManifest(path string) (*Memory, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is caller-provided configuration
	if err != nil {
		return nil, &tserrors.ConfigError{Option: "manifest", Value: path, Message: "reading manifest", Cause: err}
	}
	return ParseManifest(data, path)
}

// ParseManifest parses manifest bytes into a Memory provider. The origin is
// used as the default declaration location and in error messages.
func ParseManifest(data []byte, origin string) (*Memory, error) {
	var mf Manifest
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, &tserrors.ConfigError{Option: "manifest", Value: origin, Message: "malformed manifest", Cause: err}
	}
	return mf.Build(origin)
}

// Build converts the manifest into a Memory provider.
func (mf *Manifest) Build(origin string) (*Memory, error) {
	mem := NewMemory()
	fail := func(msg string, cause error) error {
		return &tserrors.ConfigError{Option: "manifest", Value: origin, Message: msg, Cause: cause}
	}
	if err := manifestValidator.Struct(mf); err != nil {
		return nil, fail(validationMessage(err), err)
	}

	for _, d := range mf.Declarations {
		loc := d.Location
		if loc == "" {
			loc = origin
		}
		id := DeclID{Location: loc, Name: d.Name}

		switch d.Kind {
		case KindClass, "":
			class := &ClassDescriptor{ID: id, TypeParams: d.TypeParams}
			if d.Extends != "" {
				base, err := ParseTypeExpr(d.Extends)
				if err != nil {
					return nil, fail(fmt.Sprintf("class %s: extends", d.Name), err)
				}
				class.Base = &base
			}
			props, err := buildProperties(d.Properties)
			if err != nil {
				return nil, fail(fmt.Sprintf("class %s", d.Name), err)
			}
			class.Properties = props
			mem.AddClass(class)
		case KindEnum:
			mem.AddEnum(&EnumDescriptor{ID: id, Members: normalizeMembers(d.Members)})
		default:
			return nil, fail(fmt.Sprintf("declaration %s has unknown kind %q", d.Name, d.Kind), nil)
		}
	}

	for _, o := range mf.Opaque {
		props, err := buildProperties(o.Properties)
		if err != nil {
			return nil, fail(fmt.Sprintf("opaque %s", o.Name), err)
		}
		mem.AddOpaque(o.Name, props...)
	}
	for name, v := range mf.Constants {
		mem.AddConstant(name, normalizeValue(v))
	}
	return mem, nil
}

func buildProperties(in []ManifestProperty) ([]PropertyDescriptor, error) {
	props := make([]PropertyDescriptor, 0, len(in))
	for _, p := range in {
		t, err := ParseTypeExpr(p.Type)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", p.Name, err)
		}
		prop := PropertyDescriptor{Name: p.Name, Type: t, Optional: p.Optional}
		for _, a := range p.Annotations {
			ann, err := buildAnnotation(a)
			if err != nil {
				return nil, fmt.Errorf("property %s: %w", p.Name, err)
			}
			prop.Annotations = append(prop.Annotations, ann)
		}
		props = append(props, prop)
	}
	return props, nil
}

func buildAnnotation(a ManifestAnnotation) (AnnotationDescriptor, error) {
	ann := AnnotationDescriptor{Name: a.Name}
	for _, raw := range a.Args {
		obj, ok := raw.(map[string]any)
		if !ok {
			ann.Args = append(ann.Args, Literal(normalizeValue(raw)))
			continue
		}
		switch {
		case obj["typeRef"] != nil:
			t, err := ParseTypeExpr(fmt.Sprint(obj["typeRef"]))
			if err != nil {
				return AnnotationDescriptor{}, fmt.Errorf("annotation %s: %w", a.Name, err)
			}
			ann.Args = append(ann.Args, TypeRef(t))
		case obj["expr"] != nil:
			ann.Args = append(ann.Args, RuntimeProbe(fmt.Sprint(obj["expr"])))
		default:
			ann.Args = append(ann.Args, Literal(normalizeValue(raw)))
		}
	}
	return ann, nil
}

// normalizeMembers converts decoded member values into string, int64, or
// float64 so enum typing does not depend on the decoder's integer width.
func normalizeMembers(in []EnumMember) []EnumMember {
	out := make([]EnumMember, len(in))
	for i, m := range in {
		out[i] = EnumMember{Name: m.Name, Value: normalizeValue(m.Value)}
	}
	return out
}

func normalizeValue(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case uint64:
		return int64(n) //nolint:gosec // G115: manifest enum values are small
	case float32:
		return float64(n)
	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}
