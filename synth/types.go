package synth

import (
	"strings"

	"github.com/erraggy/typeschema/source"
)

// TypeKind discriminates the TypeDescriptor union.
type TypeKind int

const (
	// TypePrimitive is a leaf type such as string or number.
	TypePrimitive TypeKind = iota
	// TypeArray is array syntax over an element type.
	TypeArray
	// TypeEnum references an enum declaration.
	TypeEnum
	// TypeClass references a class declaration, possibly instantiated.
	TypeClass
	// TypeUtility applies Partial, Required, Pick, Omit, or Record.
	TypeUtility
	// TypeParameter marks a generic parameter with no binding inside a
	// genericEnv. Classifying it yields TypeOpaque.
	TypeParameter
	// TypeOpaque is anything the classifier could not resolve to source.
	TypeOpaque
)

var typeKindNames = [...]string{"primitive", "array", "enum", "class", "utility", "parameter", "opaque"}

// String returns the kind name.
func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "unknown"
}

// PrimitiveKind identifies a primitive leaf type.
type PrimitiveKind int

const (
	PrimitiveString PrimitiveKind = iota
	PrimitiveNumber
	PrimitiveInteger
	PrimitiveBoolean
	PrimitiveDate
	PrimitiveBinary
)

type primitiveName struct {
	kind   PrimitiveKind
	format string
}

// primitiveNames maps source-level type names to primitive kinds.
var primitiveNames = map[string]primitiveName{
	"string":     {kind: PrimitiveString},
	"String":     {kind: PrimitiveString},
	"number":     {kind: PrimitiveNumber},
	"Number":     {kind: PrimitiveNumber},
	"integer":    {kind: PrimitiveInteger},
	"bigint":     {kind: PrimitiveInteger, format: "int64"},
	"boolean":    {kind: PrimitiveBoolean},
	"Boolean":    {kind: PrimitiveBoolean},
	"Date":       {kind: PrimitiveDate},
	"Buffer":     {kind: PrimitiveBinary},
	"Uint8Array": {kind: PrimitiveBinary},
	"Blob":       {kind: PrimitiveBinary},
}

// opaqueNames are top types that never resolve to a declaration.
var opaqueNames = map[string]bool{"any": true, "unknown": true, "object": true, "Object": true}

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveNumber:
		return "number"
	case PrimitiveInteger:
		return "integer"
	case PrimitiveBoolean:
		return "boolean"
	case PrimitiveDate:
		return "date"
	case PrimitiveBinary:
		return "binary"
	default:
		return "string"
	}
}

// UtilityOperator is a type-level operator applied to another type.
type UtilityOperator string

const (
	UtilityPartial  UtilityOperator = "Partial"
	UtilityRequired UtilityOperator = "Required"
	UtilityPick     UtilityOperator = "Pick"
	UtilityOmit     UtilityOperator = "Omit"
	UtilityRecord   UtilityOperator = "Record"
)

var utilityOperators = map[string]UtilityOperator{
	"Partial":  UtilityPartial,
	"Required": UtilityRequired,
	"Pick":     UtilityPick,
	"Omit":     UtilityOmit,
	"Record":   UtilityRecord,
}

// TypeDescriptor is the classified form of a raw type expression.
// It is produced once by the classifier and never mutated.
type TypeDescriptor struct {
	Kind TypeKind

	// Primitive kind, an optional format override, and for string-literal
	// unions the allowed literals.
	Primitive PrimitiveKind
	Format    string
	Literals  []string

	// Elem is the array element.
	Elem *TypeDescriptor

	// Enum is the referenced enum declaration.
	Enum *source.EnumDescriptor

	// Class is the referenced class declaration and Args its classified
	// type arguments.
	Class *source.ClassDescriptor
	Args  []TypeDescriptor

	// Operator, Target, and Keys describe a utility application. For
	// Record, Key is the key type, Target the value type, and Keys the
	// literal key set when the key type is a literal union.
	Operator UtilityOperator
	Target   *TypeDescriptor
	Keys     []string
	Key      *TypeDescriptor

	// Param is the generic parameter name for TypeParameter, and for the
	// TypeOpaque an unbound parameter classifies to.
	Param string

	// Expr is the raw expression, kept for opaque introspection and messages.
	Expr source.TypeExpr
}

// signature renders d canonically. Equal signatures mean equal instantiations.
func (d TypeDescriptor) signature() string {
	switch d.Kind {
	case TypePrimitive:
		if len(d.Literals) > 0 {
			return "'" + strings.Join(d.Literals, "'|'") + "'"
		}
		if d.Format != "" {
			return d.Primitive.String() + ":" + d.Format
		}
		return d.Primitive.String()
	case TypeArray:
		return d.Elem.signature() + "[]"
	case TypeEnum:
		return d.Enum.ID.String()
	case TypeClass:
		if len(d.Args) == 0 {
			return d.Class.ID.String()
		}
		return d.Class.ID.String() + "<" + signatures(d.Args) + ">"
	case TypeUtility:
		sig := string(d.Operator) + "<"
		if d.Key != nil {
			sig += d.Key.signature() + ","
		}
		sig += d.Target.signature()
		if len(d.Keys) > 0 && d.Key == nil {
			sig += ",'" + strings.Join(d.Keys, "'|'") + "'"
		}
		return sig + ">"
	case TypeParameter:
		return "$" + d.Param
	default:
		return "?" + d.Expr.String()
	}
}

func signatures(ds []TypeDescriptor) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = d.signature()
	}
	return strings.Join(parts, ",")
}

// displayName is the short human-facing name used in generic ref names.
func (d TypeDescriptor) displayName() string {
	switch d.Kind {
	case TypeArray:
		return d.Elem.displayName() + "List"
	case TypeEnum:
		return d.Enum.ID.Name
	case TypeClass:
		if len(d.Args) == 0 {
			return d.Class.ID.Name
		}
		parts := make([]string, len(d.Args))
		for i, a := range d.Args {
			parts[i] = a.displayName()
		}
		return d.Class.ID.Name + "[" + strings.Join(parts, ",") + "]"
	case TypeUtility:
		return string(d.Operator) + "[" + d.Target.displayName() + "]"
	case TypeParameter:
		return d.Param
	case TypeOpaque:
		if d.Expr.Name != "" {
			return d.Expr.Name
		}
		return "Object"
	default:
		return d.Primitive.String()
	}
}

// genericEnv maps generic parameter names to concrete descriptors. It is
// built fresh for each class descent and never shared across branches.
type genericEnv struct {
	bindings map[string]TypeDescriptor
}

// newGenericEnv zips params against args. Parameters without a matching
// argument are bound to an unresolved TypeParameter.
func newGenericEnv(params []string, args []TypeDescriptor) *genericEnv {
	if len(params) == 0 {
		return nil
	}
	env := &genericEnv{bindings: make(map[string]TypeDescriptor, len(params))}
	for i, p := range params {
		if i < len(args) {
			env.bindings[p] = args[i]
			continue
		}
		env.bindings[p] = TypeDescriptor{Kind: TypeParameter, Param: p, Expr: source.Named(p)}
	}
	return env
}

func (e *genericEnv) lookup(name string) (TypeDescriptor, bool) {
	if e == nil {
		return TypeDescriptor{}, false
	}
	d, ok := e.bindings[name]
	return d, ok
}
