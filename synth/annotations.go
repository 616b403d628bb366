package synth

import (
	"math"
	"slices"

	"github.com/erraggy/typeschema/schema"
	"github.com/erraggy/typeschema/source"
)

// overlay accumulates the effect of one property's annotations.
type overlay struct {
	engine   *Engine
	node     *schema.Schema
	notEmpty bool
	optional bool
}

// scalarTarget is the node numeric and string constraints apply to: the
// items of an array, otherwise the node itself. It is nil for $ref items.
func (o *overlay) scalarTarget() *schema.Schema {
	if o.node.Kind() != schema.KindArray {
		return o.node
	}
	if o.node.Items == nil || o.node.Items.Kind() == schema.KindRef {
		return nil
	}
	return o.node.Items
}

type annotationHandler func(o *overlay, args []source.AnnotationArg)

var annotationHandlers = map[string]annotationHandler{
	"IsNotEmpty": func(o *overlay, _ []source.AnnotationArg) { o.notEmpty = true },
	"ArrayNotEmpty": func(o *overlay, _ []source.AnnotationArg) {
		o.notEmpty = true
		o.node.MinItems = schema.Int(1)
	},
	"IsOptional": func(o *overlay, _ []source.AnnotationArg) { o.optional = true },
	"Min": func(o *overlay, args []source.AnnotationArg) {
		if v, ok := argFloat(args, 0); ok {
			o.scalar(func(t *schema.Schema) { t.Minimum = schema.Float(v) })
		}
	},
	"Max": func(o *overlay, args []source.AnnotationArg) {
		if v, ok := argFloat(args, 0); ok {
			o.scalar(func(t *schema.Schema) { t.Maximum = schema.Float(v) })
		}
	},
	"IsPositive": func(o *overlay, _ []source.AnnotationArg) {
		o.scalar(func(t *schema.Schema) { t.Minimum = schema.Float(0) })
	},
	"IsNegative": func(o *overlay, _ []source.AnnotationArg) {
		o.scalar(func(t *schema.Schema) { t.Maximum = schema.Float(0) })
	},
	"MinLength": func(o *overlay, args []source.AnnotationArg) {
		if v, ok := argInt(args, 0); ok {
			o.scalar(func(t *schema.Schema) { t.MinLength = schema.Int(v) })
		}
	},
	"MaxLength": func(o *overlay, args []source.AnnotationArg) {
		if v, ok := argInt(args, 0); ok {
			o.scalar(func(t *schema.Schema) { t.MaxLength = schema.Int(v) })
		}
	},
	"Length": func(o *overlay, args []source.AnnotationArg) {
		minLen, hasMin := argInt(args, 0)
		maxLen, hasMax := argInt(args, 1)
		o.scalar(func(t *schema.Schema) {
			if hasMin {
				t.MinLength = schema.Int(minLen)
			}
			if hasMax {
				t.MaxLength = schema.Int(maxLen)
			}
		})
	},
	"ArrayMinSize": func(o *overlay, args []source.AnnotationArg) {
		if v, ok := argInt(args, 0); ok {
			o.node.MinItems = schema.Int(v)
		}
	},
	"ArrayMaxSize": func(o *overlay, args []source.AnnotationArg) {
		if v, ok := argInt(args, 0); ok {
			o.node.MaxItems = schema.Int(v)
		}
	},
	"IsEnum": func(o *overlay, args []source.AnnotationArg) { o.enum(args) },
	"IsIn":   func(o *overlay, args []source.AnnotationArg) { o.enum(args) },
	"IsInt": func(o *overlay, _ []source.AnnotationArg) {
		o.scalar(func(t *schema.Schema) { t.Type = schema.TypeInteger })
	},
	"IsEmail":      formatHandler("email"),
	"IsUUID":       formatHandler("uuid"),
	"IsUrl":        formatHandler("uri"),
	"IsURL":        formatHandler("uri"),
	"IsDate":       formatHandler("date-time"),
	"IsDateString": formatHandler("date-time"),
	"Matches":      func(*overlay, []source.AnnotationArg) {},
}

func formatHandler(format string) annotationHandler {
	return func(o *overlay, _ []source.AnnotationArg) {
		o.scalar(func(t *schema.Schema) {
			t.Type = schema.TypeString
			t.Format = format
		})
	}
}

func (o *overlay) scalar(apply func(*schema.Schema)) {
	if t := o.scalarTarget(); t != nil {
		apply(t)
	}
}

// enum replaces the target's allowed values with those named by the first
// argument: an enum declaration, a list literal, or an object literal.
func (o *overlay) enum(args []source.AnnotationArg) {
	if len(args) == 0 {
		return
	}
	var values []any
	arg := args[0]
	switch arg.Kind {
	case source.ArgTypeRef:
		td := o.engine.classify(arg.Ref, nil)
		if td.Kind != TypeEnum {
			o.engine.logger.Debug("enum annotation does not reference an enum", "type", arg.Ref.String())
			return
		}
		values = o.engine.provider.ConstantValuesOfEnum(td.Enum)
	case source.ArgLiteral:
		switch v := arg.Value.(type) {
		case []any:
			values = v
		case map[string]any:
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				values = append(values, v[k])
			}
		default:
			values = []any{v}
		}
	}
	o.scalar(func(t *schema.Schema) {
		enum := enumSchema(values)
		t.Type = enum.Type
		t.Enum = enum.Enum
	})
}

// applyAnnotations overlays prop's annotations onto node and reports whether
// the property is required. Not-empty forces required and wins over
// optional; optional forces non-required; otherwise the declared marker
// decides. A $ref node is left untouched.
func (e *Engine) applyAnnotations(node *schema.Schema, prop source.PropertyDescriptor) bool {
	required := !prop.Optional
	if node.Kind() == schema.KindRef || len(prop.Annotations) == 0 {
		return required
	}

	o := &overlay{engine: e, node: node}
	for _, ann := range prop.Annotations {
		handler, ok := annotationHandlers[ann.Name]
		if !ok {
			e.logger.Debug("unrecognised annotation", "annotation", ann.Name, "property", prop.Name)
			continue
		}
		handler(o, e.evaluateArgs(ann.Args))
	}

	switch {
	case o.notEmpty:
		return true
	case o.optional:
		return false
	default:
		return required
	}
}

// evaluateArgs resolves runtime-probe arguments through the provider.
func (e *Engine) evaluateArgs(args []source.AnnotationArg) []source.AnnotationArg {
	out := make([]source.AnnotationArg, len(args))
	for i, a := range args {
		if a.Kind == source.ArgRuntimeProbe {
			a = e.provider.EvaluateAnnotationArgument(a.Expr)
		}
		out[i] = a
	}
	return out
}

func argFloat(args []source.AnnotationArg, i int) (float64, bool) {
	if i >= len(args) || args[i].Kind != source.ArgLiteral {
		return 0, false
	}
	return toFloat(args[i].Value)
}

func argInt(args []source.AnnotationArg, i int) (int, bool) {
	f, ok := argFloat(args, i)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// toFloat converts any Go numeric value to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
