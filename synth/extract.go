package synth

import (
	"fmt"

	"github.com/erraggy/typeschema/source"
	"github.com/erraggy/typeschema/tserrors"
)

// extractedProperty is a property together with the environment its type
// must be classified in. Inherited properties carry the base's environment.
type extractedProperty struct {
	prop  source.PropertyDescriptor
	env   *genericEnv
	owner source.DeclID
}

// extractProperties returns the inherited and own properties of class,
// base-first. A redeclared property replaces the inherited one in place.
func (e *Engine) extractProperties(class *source.ClassDescriptor, env *genericEnv, ctx *synthContext) []extractedProperty {
	return e.extract(class, env, ctx, make(map[source.DeclID]bool))
}

func (e *Engine) extract(class *source.ClassDescriptor, env *genericEnv, ctx *synthContext, seen map[source.DeclID]bool) []extractedProperty {
	if seen[class.ID] {
		e.logger.Debug("inheritance loop", "class", class.ID.String())
		return nil
	}
	seen[class.ID] = true

	var props []extractedProperty
	if class.Base != nil {
		props = e.inherited(class, env, ctx, seen)
	}

	index := make(map[string]int, len(props))
	for i, p := range props {
		index[p.prop.Name] = i
	}
	for _, p := range e.provider.Members(class) {
		ep := extractedProperty{prop: p, env: env, owner: class.ID}
		if i, ok := index[p.Name]; ok {
			props[i] = ep
			continue
		}
		index[p.Name] = len(props)
		props = append(props, ep)
	}
	return props
}

func (e *Engine) inherited(class *source.ClassDescriptor, env *genericEnv, ctx *synthContext, seen map[source.DeclID]bool) []extractedProperty {
	baseExpr := withDefaultHint(*class.Base, class.ID.Location)
	base := e.classify(baseExpr, env)
	switch base.Kind {
	case TypeClass:
		return e.extract(base.Class, newGenericEnv(base.Class.TypeParams, base.Args), ctx, seen)
	case TypeOpaque:
		// Externally-declared bases may still be introspectable.
		members := e.provider.PropertiesOfOpaqueType(base.Expr)
		if len(members) > 0 {
			props := make([]extractedProperty, len(members))
			for i, m := range members {
				props[i] = extractedProperty{prop: m, owner: class.ID}
			}
			return props
		}
	}
	e.warn(ctx, Warning{
		Code:    WarnBaseNotFound,
		Name:    class.ID.Name,
		Message: fmt.Sprintf("base %s not found, inherited members skipped", class.Base),
		Err:     &tserrors.NotFoundError{Name: class.Base.Name, Hint: class.Base.Hint},
	})
	return nil
}

// withDefaultHint fills empty hints in t with location, so references
// prefer declarations from the same source.
func withDefaultHint(t source.TypeExpr, location string) source.TypeExpr {
	if t.Hint == "" {
		t.Hint = location
	}
	if t.Elem != nil {
		elem := withDefaultHint(*t.Elem, location)
		t.Elem = &elem
	}
	if len(t.Args) > 0 {
		args := make([]source.TypeExpr, len(t.Args))
		for i, a := range t.Args {
			args[i] = withDefaultHint(a, location)
		}
		t.Args = args
	}
	return t
}
