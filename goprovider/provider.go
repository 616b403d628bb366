package goprovider

import (
	"errors"
	"fmt"
	"go/constant"
	"go/types"
	"reflect"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/erraggy/typeschema/source"
	"github.com/erraggy/typeschema/tserrors"
)

// loadMode is the minimum information needed to walk package scopes and
// read struct tags.
const loadMode = packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax

// Config selects the Go packages to load.
type Config struct {
	// Dir is the directory in which to run the build system. Empty means
	// the current directory.
	Dir string

	// Patterns are package patterns such as "./models/...". Defaults to ".".
	Patterns []string

	// BuildFlags are passed to the build system, e.g. "-tags=integration".
	BuildFlags []string
}

// Provider exposes the named struct types of loaded Go packages as class
// declarations. It is safe for concurrent reads once loaded.
type Provider struct {
	decls     []source.Declaration
	byName    map[string][]source.Declaration
	enums     map[source.DeclID][]source.EnumMember
	external  map[string]*types.Struct
	constants map[string]any
	loaded    map[string]bool
}

var _ source.Provider = (*Provider)(nil)

// Load loads the packages named by cfg. Load or type-check failures are
// reported as *tserrors.ConfigError.
func Load(cfg Config) (*Provider, error) {
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	pkgs, err := packages.Load(&packages.Config{
		Mode:       loadMode,
		Dir:        cfg.Dir,
		BuildFlags: cfg.BuildFlags,
	}, patterns...)
	if err != nil {
		return nil, &tserrors.ConfigError{Option: "packages", Value: strings.Join(patterns, " "), Message: "failed to load", Cause: err}
	}

	var errs []error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	})
	if len(errs) > 0 {
		return nil, &tserrors.ConfigError{
			Option:  "packages",
			Value:   strings.Join(patterns, " "),
			Message: fmt.Sprintf("%d package error(s)", len(errs)),
			Cause:   errors.Join(errs...),
		}
	}
	return FromPackages(pkgs), nil
}

// FromPackages builds a provider from already-loaded, type-checked packages.
func FromPackages(pkgs []*packages.Package) *Provider {
	p := &Provider{
		byName:    make(map[string][]source.Declaration),
		enums:     make(map[source.DeclID][]source.EnumMember),
		external:  make(map[string]*types.Struct),
		constants: make(map[string]any),
		loaded:    make(map[string]bool),
	}
	for _, pkg := range pkgs {
		if pkg.Types == nil {
			continue
		}
		p.loaded[pkg.Types.Path()] = true
		p.collectConstants(pkg.Types)
	}
	for _, pkg := range pkgs {
		if pkg.Types == nil {
			continue
		}
		p.collectTypes(pkg.Types)
	}
	return p
}

// collectConstants groups typed constants by their named type. Each group
// becomes an enum; untyped and basic-typed constants are kept for
// annotation argument evaluation.
func (p *Provider) collectConstants(pkg *types.Package) {
	for _, obj := range declOrder(pkg.Scope()) {
		name := obj.Name()
		c, ok := obj.(*types.Const)
		if !ok || !c.Exported() {
			continue
		}
		value := constantValue(c.Val())
		if named, ok := c.Type().(*types.Named); ok && named.Obj().Pkg() == pkg {
			id := declID(named.Obj())
			p.enums[id] = append(p.enums[id], source.EnumMember{Name: name, Value: value})
			continue
		}
		p.constants[name] = value
	}
}

func (p *Provider) collectTypes(pkg *types.Package) {
	for _, obj := range declOrder(pkg.Scope()) {
		tn, ok := obj.(*types.TypeName)
		if !ok || !tn.Exported() || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}
		id := declID(tn)
		if members, isEnum := p.enums[id]; isEnum {
			p.add(&source.EnumDescriptor{ID: id, Members: members})
			continue
		}
		st, ok := named.Underlying().(*types.Struct)
		if !ok {
			continue
		}
		p.add(p.classFromStruct(id, named, st))
	}
}

func (p *Provider) add(d source.Declaration) {
	p.decls = append(p.decls, d)
	name := d.DeclID().Name
	p.byName[name] = append(p.byName[name], d)
}

func (p *Provider) classFromStruct(id source.DeclID, named *types.Named, st *types.Struct) *source.ClassDescriptor {
	class := &source.ClassDescriptor{ID: id}
	if tparams := named.TypeParams(); tparams != nil {
		for i := range tparams.Len() {
			class.TypeParams = append(class.TypeParams, tparams.At(i).Obj().Name())
		}
	}
	for i := range st.NumFields() {
		field := st.Field(i)
		tag := reflect.StructTag(st.Tag(i))
		// An embedded field with a json name, or "-", is a regular field.
		if jsonName, _ := parseJSONTag(tag.Get("json")); jsonName != "" {
			if prop, ok := p.property(field, tag); ok {
				class.Properties = append(class.Properties, prop)
			}
			continue
		}
		if field.Embedded() && class.Base == nil && len(class.Properties) == 0 {
			if _, isStruct := deref(field.Type()).Underlying().(*types.Struct); isStruct {
				base := p.typeExpr(field.Type())
				class.Base = &base
				continue
			}
		}
		if field.Embedded() {
			if inner, isStruct := deref(field.Type()).Underlying().(*types.Struct); isStruct {
				class.Properties = append(class.Properties, p.fields(inner)...)
				continue
			}
		}
		if prop, ok := p.property(field, tag); ok {
			class.Properties = append(class.Properties, prop)
		}
	}
	return class
}

// fields flattens the exported fields of an embedded struct.
func (p *Provider) fields(st *types.Struct) []source.PropertyDescriptor {
	var props []source.PropertyDescriptor
	for i := range st.NumFields() {
		if prop, ok := p.property(st.Field(i), reflect.StructTag(st.Tag(i))); ok {
			props = append(props, prop)
		}
	}
	return props
}

// property maps one struct field. Pointer fields and omitempty fields are
// optional; a json name of "-" or an unexported field is skipped.
func (p *Provider) property(field *types.Var, tag reflect.StructTag) (source.PropertyDescriptor, bool) {
	if !field.Exported() {
		return source.PropertyDescriptor{}, false
	}
	name, opts := parseJSONTag(tag.Get("json"))
	if name == "-" && len(opts) == 0 {
		return source.PropertyDescriptor{}, false
	}
	if name == "" {
		name = field.Name()
	}
	_, isPointer := field.Type().(*types.Pointer)
	prop := source.PropertyDescriptor{
		Name:     name,
		Type:     p.typeExpr(field.Type()),
		Optional: isPointer || hasOption(opts, "omitempty") || hasOption(opts, "omitzero"),
	}
	if v := tag.Get("validate"); v != "" {
		prop.Annotations = append(prop.Annotations, validateAnnotations(v, shapeOf(field.Type()))...)
	}
	if v := tag.Get("oas"); v != "" {
		prop.Annotations = append(prop.Annotations, oasAnnotations(v)...)
	}
	return prop, true
}

// Declarations returns every declaration in discovery order.
func (p *Provider) Declarations() []source.Declaration {
	return append([]source.Declaration(nil), p.decls...)
}

// FindDeclarations implements source.Provider. A hint matching a package
// path narrows the result to that package.
func (p *Provider) FindDeclarations(name, hint string) []source.Declaration {
	candidates := p.byName[name]
	if hint != "" {
		var narrowed []source.Declaration
		for _, d := range candidates {
			if d.DeclID().Location == hint {
				narrowed = append(narrowed, d)
			}
		}
		if len(narrowed) > 0 {
			return narrowed
		}
	}
	return append([]source.Declaration(nil), candidates...)
}

// Members implements source.Provider.
func (p *Provider) Members(class *source.ClassDescriptor) []source.PropertyDescriptor {
	if class == nil {
		return nil
	}
	return class.Properties
}

// PropertiesOfOpaqueType implements source.Provider for struct types from
// packages that were referenced but not loaded as declarations.
func (p *Provider) PropertiesOfOpaqueType(t source.TypeExpr) []source.PropertyDescriptor {
	st, ok := p.external[externalKey(t.Hint, t.Name)]
	if !ok {
		return nil
	}
	return p.fields(st)
}

// ConstantValuesOfEnum implements source.Provider.
func (p *Provider) ConstantValuesOfEnum(enum *source.EnumDescriptor) []any {
	if enum == nil {
		return nil
	}
	members := p.enums[enum.ID]
	values := make([]any, len(members))
	for i, m := range members {
		values[i] = m.Value
	}
	return values
}

// EvaluateAnnotationArgument implements source.Provider. Declaration names
// evaluate to type references and package constants to their values.
func (p *Provider) EvaluateAnnotationArgument(expr string) source.AnnotationArg {
	expr = strings.TrimSpace(expr)
	if _, ok := p.byName[expr]; ok {
		return source.TypeRef(source.Named(expr))
	}
	if v, ok := p.constants[expr]; ok {
		return source.Literal(v)
	}
	return source.Literal(source.ParseLiteral(expr))
}

// declOrder returns the scope's objects in source order.
func declOrder(scope *types.Scope) []types.Object {
	objs := make([]types.Object, 0, scope.Len())
	for _, name := range scope.Names() {
		objs = append(objs, scope.Lookup(name))
	}
	sort.SliceStable(objs, func(i, j int) bool { return objs[i].Pos() < objs[j].Pos() })
	return objs
}

func declID(obj types.Object) source.DeclID {
	loc := ""
	if obj.Pkg() != nil {
		loc = obj.Pkg().Path()
	}
	return source.DeclID{Location: loc, Name: obj.Name()}
}

func externalKey(pkgPath, name string) string { return pkgPath + "." + name }

// constantValue converts a constant to a string, int64, float64, or bool.
func constantValue(v constant.Value) any {
	switch v.Kind() {
	case constant.String:
		return constant.StringVal(v)
	case constant.Bool:
		return constant.BoolVal(v)
	case constant.Int:
		if n, exact := constant.Int64Val(v); exact {
			return n
		}
		f, _ := constant.Float64Val(v)
		return f
	case constant.Float:
		f, _ := constant.Float64Val(v)
		return f
	default:
		return v.ExactString()
	}
}
