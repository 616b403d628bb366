package source

// Provider is the Source Model Provider consumed by the engine.
//
// Implementations supply declarations, member lists, enum constants, and
// annotation argument evaluation. They must be deterministic: the same
// inputs must produce the same outputs in the same order for the lifetime
// of the provider.
type Provider interface {
	// FindDeclarations returns every class or enum declaration named name,
	// in discovery order. The hint is advisory: providers may use it to
	// narrow the search, and the engine applies it again when resolving
	// collisions. An empty result means the declaration was not found.
	FindDeclarations(name, hint string) []Declaration

	// Members returns the class's own declared properties in declaration
	// order. Inherited members are not included.
	Members(class *ClassDescriptor) []PropertyDescriptor

	// PropertiesOfOpaqueType structurally introspects a type the provider
	// could not resolve to a declaration, such as an externally-defined
	// shape. It returns nil when nothing is known.
	PropertiesOfOpaqueType(t TypeExpr) []PropertyDescriptor

	// ConstantValuesOfEnum returns the enum's member values in order.
	ConstantValuesOfEnum(enum *EnumDescriptor) []any

	// EvaluateAnnotationArgument evaluates an unevaluated annotation
	// expression into a literal or a type reference.
	EvaluateAnnotationArgument(expr string) AnnotationArg
}
