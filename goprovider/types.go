package goprovider

import (
	"go/types"

	"github.com/erraggy/typeschema/source"
)

// typeExpr converts a Go type into the provider-neutral expression form.
func (p *Provider) typeExpr(t types.Type) source.TypeExpr {
	switch t := t.(type) {
	case *types.Pointer:
		return p.typeExpr(t.Elem())
	case *types.Slice:
		if isByte(t.Elem()) {
			return source.Named("Buffer")
		}
		return source.ArrayOf(p.typeExpr(t.Elem()))
	case *types.Array:
		return source.ArrayOf(p.typeExpr(t.Elem()))
	case *types.Map:
		return source.Named("Record", p.typeExpr(t.Key()), p.typeExpr(t.Elem()))
	case *types.Basic:
		return source.Named(basicName(t))
	case *types.TypeParam:
		return source.Named(t.Obj().Name())
	case *types.Interface:
		return source.Named("any")
	case *types.Struct:
		return source.Named("object")
	case *types.Alias:
		return p.typeExpr(types.Unalias(t))
	case *types.Named:
		return p.namedExpr(t)
	default:
		return source.Named("unknown")
	}
}

func (p *Provider) namedExpr(t *types.Named) source.TypeExpr {
	obj := t.Obj()
	if obj.Pkg() == nil {
		// Predeclared named types such as error.
		return source.Named("any")
	}
	if obj.Pkg().Path() == "time" && obj.Name() == "Time" {
		return source.Named("Date")
	}
	id := declID(t.Origin().Obj())
	if _, isEnum := p.enums[id]; isEnum {
		return source.TypeExpr{Name: id.Name, Hint: id.Location}
	}
	switch u := t.Underlying().(type) {
	case *types.Struct:
		if !p.loaded[id.Location] || !obj.Exported() {
			p.external[externalKey(id.Location, id.Name)] = u
		}
		expr := source.TypeExpr{Name: id.Name, Hint: id.Location}
		if args := t.TypeArgs(); args != nil {
			for i := range args.Len() {
				expr.Args = append(expr.Args, p.typeExpr(args.At(i)))
			}
		}
		return expr
	default:
		return p.typeExpr(u)
	}
}

func basicName(t *types.Basic) string {
	info := t.Info()
	switch {
	case info&types.IsString != 0:
		return "string"
	case info&types.IsBoolean != 0:
		return "boolean"
	case t.Kind() == types.Int64 || t.Kind() == types.Uint64:
		return "bigint"
	case info&types.IsInteger != 0:
		return "integer"
	case info&types.IsFloat != 0:
		return "number"
	default:
		return "unknown"
	}
}

func isByte(t types.Type) bool {
	b, ok := t.(*types.Basic)
	return ok && b.Kind() == types.Byte
}

func deref(t types.Type) types.Type {
	if ptr, ok := t.(*types.Pointer); ok {
		return ptr.Elem()
	}
	return t
}

// shapeOf reports the coarse shape used to interpret validate tags.
func shapeOf(t types.Type) fieldShape {
	switch u := deref(t).Underlying().(type) {
	case *types.Basic:
		info := u.Info()
		switch {
		case info&types.IsString != 0:
			return shapeString
		case info&types.IsNumeric != 0:
			return shapeNumber
		}
	case *types.Slice, *types.Array, *types.Map:
		return shapeSlice
	}
	return shapeOther
}
