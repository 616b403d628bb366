package synth

import (
	"fmt"
	"slices"

	"github.com/erraggy/typeschema/schema"
	"github.com/erraggy/typeschema/tserrors"
)

// synthesizeUtility synthesizes the target and transforms the resulting
// object. Nested utilities compose innermost-first through recursion.
func (e *Engine) synthesizeUtility(td TypeDescriptor, ctx *synthContext) *schema.Schema {
	if td.Operator == UtilityRecord {
		return e.synthesizeRecord(td, ctx)
	}

	node := e.synthesize(*td.Target, ctx)
	switch {
	case node.Kind() == schema.KindRef:
		e.warn(ctx, Warning{
			Code:    WarnUtilityOnRef,
			Name:    td.Expr.String(),
			Message: fmt.Sprintf("%s applied to a back-reference, left unchanged", td.Operator),
		})
		return node
	case node.Kind() != schema.KindObject:
		e.warn(ctx, Warning{
			Code:    WarnUnresolvable,
			Name:    td.Expr.String(),
			Message: fmt.Sprintf("%s target is not an object", td.Operator),
			Err:     &tserrors.UnresolvableError{Type: td.Expr.String(), Message: "utility target is not an object"},
		})
		return node
	}

	switch td.Operator {
	case UtilityPartial:
		node.Required = nil
	case UtilityRequired:
		node.Required = nil
		for _, name := range node.PropertyNames() {
			node.Required = append(node.Required, name)
		}
	case UtilityPick:
		if td.Keys == nil {
			e.logger.Debug("pick without literal keys", "type", td.Expr.String())
			return node
		}
		filterProperties(node, func(name string) bool { return slices.Contains(td.Keys, name) })
	case UtilityOmit:
		filterProperties(node, func(name string) bool { return !slices.Contains(td.Keys, name) })
	}
	return node
}

// filterProperties keeps the properties and required entries accepted by keep.
func filterProperties(node *schema.Schema, keep func(string) bool) {
	for name := range node.Properties {
		if !keep(name) {
			delete(node.Properties, name)
		}
	}
	var required []string
	for _, name := range node.Required {
		if keep(name) {
			required = append(required, name)
		}
	}
	node.Required = required
}

// synthesizeRecord renders Record<K, V>. Literal or string-enum keys become
// required properties; any other key type yields additionalProperties.
func (e *Engine) synthesizeRecord(td TypeDescriptor, ctx *synthContext) *schema.Schema {
	keys := td.Keys
	if len(keys) == 0 && td.Key != nil && td.Key.Kind == TypeEnum {
		keys = stringValues(e.provider.ConstantValuesOfEnum(td.Key.Enum))
	}

	obj := schema.NewObject()
	if len(keys) == 0 {
		obj.AdditionalProperties = e.synthesize(*td.Target, ctx)
		return obj
	}
	for _, k := range keys {
		if _, dup := obj.Properties[k]; dup {
			continue
		}
		obj.Properties[k] = e.synthesize(*td.Target, ctx)
		obj.Required = append(obj.Required, k)
	}
	return obj
}

// stringValues returns values when every one is a string, otherwise nil.
func stringValues(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}
