package synth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erraggy/typeschema/source"
)

const testLocation = "src/models.ts"

func prop(name, typ string, anns ...source.AnnotationDescriptor) source.PropertyDescriptor {
	return source.PropertyDescriptor{Name: name, Type: source.MustParseTypeExpr(typ), Annotations: anns}
}

func optional(p source.PropertyDescriptor) source.PropertyDescriptor {
	p.Optional = true
	return p
}

func class(name string, props ...source.PropertyDescriptor) *source.ClassDescriptor {
	return &source.ClassDescriptor{ID: source.DeclID{Location: testLocation, Name: name}, Properties: props}
}

func classAt(location, name string, props ...source.PropertyDescriptor) *source.ClassDescriptor {
	return &source.ClassDescriptor{ID: source.DeclID{Location: location, Name: name}, Properties: props}
}

func extends(c *source.ClassDescriptor, base string) *source.ClassDescriptor {
	b := source.MustParseTypeExpr(base)
	c.Base = &b
	return c
}

func generic(c *source.ClassDescriptor, params ...string) *source.ClassDescriptor {
	c.TypeParams = params
	return c
}

func enum(name string, values ...any) *source.EnumDescriptor {
	members := make([]source.EnumMember, len(values))
	for i, v := range values {
		members[i] = source.EnumMember{Name: "M" + string(rune('A'+i)), Value: v}
	}
	return &source.EnumDescriptor{ID: source.DeclID{Location: testLocation, Name: name}, Members: members}
}

func ref(name string) string { return DefaultRefPrefix + name }

func newTestEngine(t *testing.T, mem *source.Memory, opts ...Option) *Engine {
	t.Helper()
	e, err := New(mem, opts...)
	require.NoError(t, err)
	return e
}

func mustTransform(t *testing.T, e *Engine, name string) *Result {
	t.Helper()
	r, err := e.Transform(name)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}

func mustTransformType(t *testing.T, e *Engine, expr string) *Result {
	t.Helper()
	r, err := e.TransformType(source.MustParseTypeExpr(expr))
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}

func warningCodes(r *Result) []WarningCode {
	var codes []WarningCode
	for _, w := range r.Warnings {
		codes = append(codes, w.Code)
	}
	return codes
}

// closingProvider records whether Close was called.
type closingProvider struct {
	*source.Memory
	closed bool
}

func (p *closingProvider) Close() error {
	p.closed = true
	return nil
}
