package source

import (
	"fmt"
	"strings"
)

// DeclID identifies a declaration by its declaring source location and name.
// Two declarations with the same Name but different Locations are distinct.
type DeclID struct {
	Location string `yaml:"location" json:"location"`
	Name     string `yaml:"name" json:"name"`
}

// String returns "location#name", or just the name when no location is known.
func (id DeclID) String() string {
	if id.Location == "" {
		return id.Name
	}
	return id.Location + "#" + id.Name
}

// Declaration is a class or enum declaration known to a provider.
// It is implemented by *ClassDescriptor and *EnumDescriptor.
type Declaration interface {
	DeclID() DeclID
}

// ClassDescriptor describes a class declaration. It is owned by the provider
// and read-only to the engine.
type ClassDescriptor struct {
	ID DeclID
	// TypeParams lists the generic parameter names in declaration order.
	TypeParams []string
	// Base is the extends clause, including its generic arguments, or nil.
	Base *TypeExpr
	// Properties are the class's own declared properties in declaration order.
	Properties []PropertyDescriptor
}

// DeclID implements Declaration.
func (c *ClassDescriptor) DeclID() DeclID { return c.ID }

// IsGeneric reports whether the class declares type parameters.
func (c *ClassDescriptor) IsGeneric() bool { return len(c.TypeParams) > 0 }

// EnumDescriptor describes an enum declaration.
type EnumDescriptor struct {
	ID      DeclID
	Members []EnumMember
}

// DeclID implements Declaration.
func (e *EnumDescriptor) DeclID() DeclID { return e.ID }

// EnumMember is one named member of an enum with its constant value.
// Value is a string or a numeric Go value.
type EnumMember struct {
	Name  string `yaml:"name" json:"name"`
	Value any    `yaml:"value" json:"value"`
}

// PropertyDescriptor describes one declared property. Immutable once built.
type PropertyDescriptor struct {
	Name string
	Type TypeExpr
	// Optional is the optionality marker declared directly on the member.
	Optional    bool
	Annotations []AnnotationDescriptor
}

// HasAnnotation reports whether an annotation with the given name is present.
func (p PropertyDescriptor) HasAnnotation(name string) bool {
	for _, a := range p.Annotations {
		if a.Name == name {
			return true
		}
	}
	return false
}

// TypeExpr is a provider-neutral raw type expression.
//
// Exactly one shape applies: array syntax (Elem set), a string-literal union
// (Literals set), or a named reference (Name set, with optional Args).
type TypeExpr struct {
	Name     string
	Args     []TypeExpr
	Elem     *TypeExpr
	Literals []string
	// Hint is the declaring location used to disambiguate same-named
	// declarations. Empty means "any location".
	Hint string
}

// Named returns a reference expression for name with the given arguments.
func Named(name string, args ...TypeExpr) TypeExpr {
	return TypeExpr{Name: name, Args: args}
}

// ArrayOf returns the array-syntax expression elem[].
func ArrayOf(elem TypeExpr) TypeExpr {
	return TypeExpr{Elem: &elem}
}

// LiteralUnion returns the string-literal union 'a' | 'b' | ...
func LiteralUnion(values ...string) TypeExpr {
	return TypeExpr{Literals: values}
}

// IsArray reports whether t uses array syntax.
func (t TypeExpr) IsArray() bool { return t.Elem != nil }

// IsLiteralUnion reports whether t is a string-literal union.
func (t TypeExpr) IsLiteralUnion() bool { return t.Elem == nil && len(t.Literals) > 0 }

// String renders t in the textual form accepted by ParseTypeExpr.
func (t TypeExpr) String() string {
	switch {
	case t.Elem != nil:
		return t.Elem.String() + "[]"
	case len(t.Literals) > 0:
		quoted := make([]string, len(t.Literals))
		for i, lit := range t.Literals {
			quoted[i] = "'" + lit + "'"
		}
		return strings.Join(quoted, " | ")
	case len(t.Args) > 0:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.String()
		}
		return fmt.Sprintf("%s<%s>", t.Name, strings.Join(args, ", "))
	default:
		return t.Name
	}
}

// AnnotationDescriptor is a declarative annotation (decorator) attached to a
// property: a name plus ordered arguments.
type AnnotationDescriptor struct {
	Name string
	Args []AnnotationArg
}

// Annotation builds an AnnotationDescriptor with literal arguments.
func Annotation(name string, literals ...any) AnnotationDescriptor {
	args := make([]AnnotationArg, len(literals))
	for i, v := range literals {
		args[i] = Literal(v)
	}
	return AnnotationDescriptor{Name: name, Args: args}
}

// ArgKind discriminates the AnnotationArg union.
type ArgKind int

const (
	// ArgLiteral is a literal value: string, number, bool, or []any.
	ArgLiteral ArgKind = iota
	// ArgTypeRef refers to a declaration by type expression (e.g. an enum).
	ArgTypeRef
	// ArgRuntimeProbe is an unevaluated expression the provider must evaluate.
	ArgRuntimeProbe
)

// String returns the kind name.
func (k ArgKind) String() string {
	switch k {
	case ArgTypeRef:
		return "typeRef"
	case ArgRuntimeProbe:
		return "runtimeProbe"
	default:
		return "literal"
	}
}

// AnnotationArg is a closed tagged union of Literal | TypeRef | RuntimeProbe.
type AnnotationArg struct {
	Kind ArgKind
	// Value holds the literal for ArgLiteral.
	Value any
	// Ref holds the referenced type for ArgTypeRef.
	Ref TypeExpr
	// Expr holds the source expression for ArgRuntimeProbe.
	Expr string
}

// Literal returns a literal annotation argument.
func Literal(v any) AnnotationArg { return AnnotationArg{Kind: ArgLiteral, Value: v} }

// TypeRef returns a type-reference annotation argument.
func TypeRef(t TypeExpr) AnnotationArg { return AnnotationArg{Kind: ArgTypeRef, Ref: t} }

// RuntimeProbe returns an unevaluated expression argument.
func RuntimeProbe(expr string) AnnotationArg { return AnnotationArg{Kind: ArgRuntimeProbe, Expr: expr} }
