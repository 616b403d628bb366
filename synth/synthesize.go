package synth

import (
	"fmt"

	"github.com/erraggy/typeschema/schema"
	"github.com/erraggy/typeschema/source"
	"github.com/erraggy/typeschema/tserrors"
)

// opaqueLocation is the synthetic location under which opaque shapes are
// pushed on the visited stack.
const opaqueLocation = "<opaque>"

// synthContext is the per-transform state: the visited stack and the
// warnings collected so far.
type synthContext struct {
	visited  visitedStack
	warnings []Warning
	seen     map[Warning]bool
}

func newSynthContext() *synthContext {
	return &synthContext{seen: make(map[Warning]bool)}
}

// warn records w once per transform and logs it.
func (e *Engine) warn(ctx *synthContext, w Warning) {
	ctx.visited.record(w)
	key := Warning{Code: w.Code, Name: w.Name, Message: w.Message}
	if ctx.seen[key] {
		return
	}
	ctx.seen[key] = true
	ctx.warnings = append(ctx.warnings, w)
	e.logger.Warn(w.Message, "code", string(w.Code), "name", w.Name)
}

// synthesize renders td as a schema node. The returned node is owned by the
// caller.
func (e *Engine) synthesize(td TypeDescriptor, ctx *synthContext) *schema.Schema {
	switch td.Kind {
	case TypePrimitive:
		return primitiveSchema(td)
	case TypeArray:
		return schema.NewArray(e.synthesize(*td.Elem, ctx))
	case TypeEnum:
		return enumSchema(e.provider.ConstantValuesOfEnum(td.Enum))
	case TypeClass:
		return e.synthesizeClass(td, ctx)
	case TypeUtility:
		return e.synthesizeUtility(td, ctx)
	default:
		return e.synthesizeOpaque(td, ctx)
	}
}

func primitiveSchema(td TypeDescriptor) *schema.Schema {
	switch td.Primitive {
	case PrimitiveNumber:
		return &schema.Schema{Type: schema.TypeNumber, Format: td.Format}
	case PrimitiveInteger:
		return &schema.Schema{Type: schema.TypeInteger, Format: td.Format}
	case PrimitiveBoolean:
		return &schema.Schema{Type: schema.TypeBoolean}
	case PrimitiveDate:
		return &schema.Schema{Type: schema.TypeString, Format: "date-time"}
	case PrimitiveBinary:
		return &schema.Schema{Type: schema.TypeString, Format: "binary"}
	}
	s := &schema.Schema{Type: schema.TypeString, Format: td.Format}
	for _, lit := range td.Literals {
		s.Enum = append(s.Enum, lit)
	}
	return s
}

// enumSchema types values as string when all are strings, number when all
// are numeric, and string otherwise.
func enumSchema(values []any) *schema.Schema {
	s := &schema.Schema{Type: enumType(values)}
	if len(values) > 0 {
		s.Enum = append([]any(nil), values...)
	}
	return s
}

func enumType(values []any) string {
	if len(values) == 0 {
		return schema.TypeString
	}
	for _, v := range values {
		if _, ok := toFloat(v); !ok {
			return schema.TypeString
		}
	}
	return schema.TypeNumber
}

func (e *Engine) synthesizeClass(td TypeDescriptor, ctx *synthContext) *schema.Schema {
	class := td.Class
	args := signatures(td.Args)
	if f := ctx.visited.findCycle(class.ID, args); f != nil {
		ctx.visited.noteRef(f)
		return schema.NewRef(e.cfg.refPrefix + f.refName)
	}

	key := CacheKey{Decl: class.ID, Args: args}
	if node, ok := e.reuse(key, ctx); ok {
		return node
	}
	if e.depthLimited(ctx) {
		return e.depthExceeded(class.ID.Name, ctx)
	}

	f := ctx.visited.push(class.ID, args, e.refName(class.ID, td.Args))
	env := newGenericEnv(class.TypeParams, td.Args)
	node := e.synthesizeProperties(e.extractProperties(class, env, ctx), ctx)
	ctx.visited.pop()
	e.complete(f, key, node)
	return node
}

// synthesizeOpaque asks the provider to introspect an unresolved type.
func (e *Engine) synthesizeOpaque(td TypeDescriptor, ctx *synthContext) *schema.Schema {
	if td.Expr.Name == "" || opaqueNames[td.Expr.Name] {
		return schema.NewOpenObject()
	}
	id := source.DeclID{Location: opaqueLocation, Name: td.Expr.String()}
	if f := ctx.visited.findCycle(id, ""); f != nil {
		ctx.visited.noteRef(f)
		return schema.NewRef(e.cfg.refPrefix + f.refName)
	}

	key := CacheKey{Decl: id}
	if node, ok := e.reuse(key, ctx); ok {
		return node
	}
	members := e.provider.PropertiesOfOpaqueType(td.Expr)
	if len(members) == 0 {
		e.logger.Debug("opaque type without members", "type", td.Expr.String())
		return schema.NewOpenObject()
	}
	if e.depthLimited(ctx) {
		return e.depthExceeded(td.Expr.String(), ctx)
	}

	f := ctx.visited.push(id, "", sanitizeRefName(td.displayName()))
	props := make([]extractedProperty, len(members))
	for i, m := range members {
		props[i] = extractedProperty{prop: m, owner: id}
	}
	node := e.synthesizeProperties(props, ctx)
	ctx.visited.pop()
	e.complete(f, key, node)
	return node
}

// reuse returns the cached node for key when none of the declarations it
// expanded is currently on the stack, so the result matches a fresh run.
func (e *Engine) reuse(key CacheKey, ctx *synthContext) (*schema.Schema, bool) {
	entry, ok := e.cache.Get(key)
	if !ok || ctx.visited.containsAny(entry.Deps) {
		return nil, false
	}
	ctx.visited.noteDeps(entry.Deps)
	for _, w := range entry.Warnings {
		e.warn(ctx, w)
	}
	return entry.Schema, true
}

// complete registers a finished frame's node as a component when a $ref to
// it was emitted, and caches it when its subtree is context-free.
func (e *Engine) complete(f *frame, key CacheKey, node *schema.Schema) {
	if f.referenced {
		e.components[f.refName] = node.Clone()
	}
	if f.cacheable() {
		e.cache.Add(key, CacheEntry{Schema: node, Deps: f.depList(), Warnings: f.warnings})
	}
}

func (e *Engine) depthLimited(ctx *synthContext) bool {
	return e.cfg.maxDepth > 0 && ctx.visited.depth() >= e.cfg.maxDepth
}

func (e *Engine) depthExceeded(name string, ctx *synthContext) *schema.Schema {
	ctx.visited.poison()
	e.warn(ctx, Warning{
		Code:    WarnDepthExceeded,
		Name:    name,
		Message: fmt.Sprintf("nesting exceeds %d levels, rendered as open object", e.cfg.maxDepth),
		Err:     &tserrors.UnresolvableError{Type: name, Message: "maximum depth exceeded"},
	})
	return schema.NewOpenObject()
}

// synthesizeProperties renders properties into an object node, applying
// annotations to each. Required names follow declaration order.
func (e *Engine) synthesizeProperties(props []extractedProperty, ctx *synthContext) *schema.Schema {
	obj := schema.NewObject()
	for _, p := range props {
		expr := p.prop.Type
		if p.owner.Location != opaqueLocation {
			expr = withDefaultHint(expr, p.owner.Location)
		}
		node := e.synthesize(e.classify(expr, p.env), ctx)
		if e.applyAnnotations(node, p.prop) {
			obj.Required = append(obj.Required, p.prop.Name)
		}
		obj.Properties[p.prop.Name] = node
	}
	return obj
}

// refName names the component for a class instantiation.
func (e *Engine) refName(id source.DeclID, args []TypeDescriptor) string {
	return e.namer.name(id, args, e.isColliding(id.Name))
}
