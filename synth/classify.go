package synth

import "github.com/erraggy/typeschema/source"

// classify turns a raw type expression into a TypeDescriptor, resolving
// generic parameters through env. It only consults FindDeclarations and
// never reads member lists.
func (e *Engine) classify(t source.TypeExpr, env *genericEnv) TypeDescriptor {
	if t.Elem != nil {
		elem := e.classify(*t.Elem, env)
		return TypeDescriptor{Kind: TypeArray, Elem: &elem, Expr: t}
	}
	if len(t.Literals) > 0 {
		return TypeDescriptor{Kind: TypePrimitive, Primitive: PrimitiveString, Literals: t.Literals, Expr: t}
	}

	if bound, ok := env.lookup(t.Name); ok {
		if bound.Kind == TypeParameter {
			// Declared but unbound: fall back to provider introspection.
			return TypeDescriptor{Kind: TypeOpaque, Param: bound.Param, Expr: t}
		}
		return bound
	}

	if (t.Name == "Array" || t.Name == "ReadonlyArray") && len(t.Args) == 1 {
		elem := e.classify(t.Args[0], env)
		return TypeDescriptor{Kind: TypeArray, Elem: &elem, Expr: t}
	}
	if p, ok := primitiveNames[t.Name]; ok {
		return TypeDescriptor{Kind: TypePrimitive, Primitive: p.kind, Format: p.format, Expr: t}
	}
	if t.Name == "" || opaqueNames[t.Name] {
		return TypeDescriptor{Kind: TypeOpaque, Expr: t}
	}

	decl := e.lookupDeclaration(t.Name, t.Hint)
	if enum, ok := decl.(*source.EnumDescriptor); ok {
		return TypeDescriptor{Kind: TypeEnum, Enum: enum, Expr: t}
	}
	if op, ok := utilityOperators[t.Name]; ok && len(t.Args) > 0 {
		return e.classifyUtility(op, t, env)
	}
	if class, ok := decl.(*source.ClassDescriptor); ok {
		var args []TypeDescriptor
		if len(t.Args) > 0 {
			args = make([]TypeDescriptor, len(t.Args))
			for i, a := range t.Args {
				args[i] = e.classify(a, env)
			}
		}
		return TypeDescriptor{Kind: TypeClass, Class: class, Args: args, Expr: t}
	}
	return TypeDescriptor{Kind: TypeOpaque, Expr: t}
}

func (e *Engine) classifyUtility(op UtilityOperator, t source.TypeExpr, env *genericEnv) TypeDescriptor {
	td := TypeDescriptor{Kind: TypeUtility, Operator: op, Expr: t}
	switch op {
	case UtilityRecord:
		key := e.classify(t.Args[0], env)
		td.Key = &key
		td.Keys = key.Literals
		value := TypeDescriptor{Kind: TypeOpaque, Expr: source.Named("unknown")}
		if len(t.Args) > 1 {
			value = e.classify(t.Args[1], env)
		}
		td.Target = &value
	default:
		target := e.classify(t.Args[0], env)
		td.Target = &target
		if len(t.Args) > 1 {
			keys := e.classify(t.Args[1], env)
			td.Keys = keys.Literals
		}
	}
	return td
}

// lookupDeclaration returns the declaration a type reference points at.
// Among several candidates the one declared at hint wins, then the first
// discovered.
func (e *Engine) lookupDeclaration(name, hint string) source.Declaration {
	candidates := e.provider.FindDeclarations(name, hint)
	if len(candidates) == 0 {
		return nil
	}
	if hint != "" {
		for _, c := range candidates {
			if c.DeclID().Location == hint {
				return c
			}
		}
	}
	return candidates[0]
}

// isColliding reports whether more than one declaration shares name.
func (e *Engine) isColliding(name string) bool {
	return len(e.provider.FindDeclarations(name, "")) > 1
}
