package source

import "strings"

// Memory is an in-memory Provider. Declarations are returned in the order
// they were added, which is the discovery order used for collision
// tie-breaks.
//
// Memory is not safe for concurrent mutation; populate it before handing it
// to an engine.
type Memory struct {
	decls     []Declaration
	byName    map[string][]Declaration
	opaque    map[string][]PropertyDescriptor
	constants map[string]any
}

// NewMemory creates an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{
		byName:    make(map[string][]Declaration),
		opaque:    make(map[string][]PropertyDescriptor),
		constants: make(map[string]any),
	}
}

// AddClass registers a class declaration.
func (m *Memory) AddClass(c *ClassDescriptor) *Memory {
	m.add(c)
	return m
}

// AddEnum registers an enum declaration.
func (m *Memory) AddEnum(e *EnumDescriptor) *Memory {
	m.add(e)
	return m
}

// AddOpaque registers the structural members of an externally-defined type
// that has no declaration of its own.
func (m *Memory) AddOpaque(name string, props ...PropertyDescriptor) *Memory {
	m.opaque[name] = props
	return m
}

// AddConstant registers a named constant for annotation argument evaluation.
func (m *Memory) AddConstant(name string, value any) *Memory {
	m.constants[name] = value
	return m
}

func (m *Memory) add(d Declaration) {
	m.decls = append(m.decls, d)
	name := d.DeclID().Name
	m.byName[name] = append(m.byName[name], d)
}

// Declarations returns every registered declaration in discovery order.
func (m *Memory) Declarations() []Declaration {
	return append([]Declaration(nil), m.decls...)
}

// FindDeclarations implements Provider. A hint that matches at least one
// candidate's location narrows the result to those candidates.
func (m *Memory) FindDeclarations(name, hint string) []Declaration {
	candidates := m.byName[name]
	if hint == "" || len(candidates) < 2 {
		return append([]Declaration(nil), candidates...)
	}
	var narrowed []Declaration
	for _, d := range candidates {
		if d.DeclID().Location == hint {
			narrowed = append(narrowed, d)
		}
	}
	if len(narrowed) == 0 {
		return append([]Declaration(nil), candidates...)
	}
	return narrowed
}

// Members implements Provider.
func (m *Memory) Members(class *ClassDescriptor) []PropertyDescriptor {
	if class == nil {
		return nil
	}
	return class.Properties
}

// PropertiesOfOpaqueType implements Provider.
func (m *Memory) PropertiesOfOpaqueType(t TypeExpr) []PropertyDescriptor {
	if t.Name == "" {
		return nil
	}
	return m.opaque[t.Name]
}

// ConstantValuesOfEnum implements Provider.
func (m *Memory) ConstantValuesOfEnum(enum *EnumDescriptor) []any {
	if enum == nil {
		return nil
	}
	values := make([]any, len(enum.Members))
	for i, member := range enum.Members {
		values[i] = member.Value
	}
	return values
}

// EvaluateAnnotationArgument implements Provider. Expressions naming a
// registered declaration evaluate to a type reference, registered constants
// to their value, and anything else is parsed with ParseLiteral.
func (m *Memory) EvaluateAnnotationArgument(expr string) AnnotationArg {
	expr = strings.TrimSpace(expr)
	if _, ok := m.byName[expr]; ok {
		return TypeRef(Named(expr))
	}
	if v, ok := m.constants[expr]; ok {
		return Literal(v)
	}
	// Object.values(Status) style wrappers around a declaration name.
	if open := strings.IndexByte(expr, '('); open > 0 && strings.HasSuffix(expr, ")") {
		inner := strings.TrimSpace(expr[open+1 : len(expr)-1])
		if _, ok := m.byName[inner]; ok {
			return TypeRef(Named(inner))
		}
	}
	return Literal(ParseLiteral(expr))
}

var _ Provider = (*Memory)(nil)
