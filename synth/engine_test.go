package synth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/typeschema/schema"
	"github.com/erraggy/typeschema/source"
	"github.com/erraggy/typeschema/tserrors"
)

func TestEngine_OrgWithOptionalParent(t *testing.T) {
	mem := source.NewMemory().AddClass(classAt("src/org.ts", "Org",
		prop("id", "number"),
		optional(prop("parent", "Org")),
	))
	e := newTestEngine(t, mem)

	r := mustTransform(t, e, "Org")

	want := &schema.Schema{
		Type:     schema.TypeObject,
		Required: []string{"id"},
		Properties: map[string]*schema.Schema{
			"id":     {Type: schema.TypeNumber},
			"parent": {Ref: "#/components/schemas/Org"},
		},
	}
	assert.Equal(t, "Org", r.Name)
	assert.Equal(t, source.DeclID{Location: "src/org.ts", Name: "Org"}, r.ID)
	assert.Equal(t, want, r.Schema)
	assert.Empty(t, r.Warnings)
	assert.Equal(t, map[string]*schema.Schema{"Org": want}, e.Components())

	data, err := json.Marshal(r.Schema)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "object",
		"required": ["id"],
		"properties": {
			"id": {"type": "number"},
			"parent": {"$ref": "#/components/schemas/Org"}
		}
	}`, string(data))
}

func TestEngine_Primitives(t *testing.T) {
	mem := source.NewMemory().AddClass(class("Everything",
		prop("s", "string"),
		prop("n", "number"),
		prop("i", "integer"),
		prop("big", "bigint"),
		prop("b", "boolean"),
		prop("d", "Date"),
		prop("buf", "Buffer"),
		prop("lit", "'a' | 'b'"),
		prop("anything", "any"),
	))
	e := newTestEngine(t, mem)

	props := mustTransform(t, e, "Everything").Schema.Properties

	tests := []struct {
		name string
		want *schema.Schema
	}{
		{"s", &schema.Schema{Type: "string"}},
		{"n", &schema.Schema{Type: "number"}},
		{"i", &schema.Schema{Type: "integer"}},
		{"big", &schema.Schema{Type: "integer", Format: "int64"}},
		{"b", &schema.Schema{Type: "boolean"}},
		{"d", &schema.Schema{Type: "string", Format: "date-time"}},
		{"buf", &schema.Schema{Type: "string", Format: "binary"}},
		{"lit", &schema.Schema{Type: "string", Enum: []any{"a", "b"}}},
		{"anything", schema.NewOpenObject()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, props[tt.name])
		})
	}
}

func TestEngine_ArrayOfSelf(t *testing.T) {
	mem := source.NewMemory().AddClass(class("Node",
		prop("name", "string"),
		prop("children", "Node[]"),
	))
	e := newTestEngine(t, mem)

	r := mustTransform(t, e, "Node")

	assert.Equal(t, schema.NewArray(schema.NewRef(ref("Node"))), r.Schema.Properties["children"])
	assert.Equal(t, []string{"name", "children"}, r.Schema.Required)
}

func TestEngine_NotFound(t *testing.T) {
	e := newTestEngine(t, source.NewMemory())

	r := mustTransform(t, e, "Missing")

	assert.False(t, r.Found())
	assert.Equal(t, "Missing", r.Name)
	assert.True(t, r.Schema.IsOpen())
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, WarnNotFound, r.Warnings[0].Code)
	assert.True(t, errors.Is(r.Warnings[0].Err, tserrors.ErrNotFound))
}

func TestEngine_Enum(t *testing.T) {
	tests := []struct {
		name     string
		values   []any
		wantType string
	}{
		{"strings", []any{"active", "archived"}, "string"},
		{"numbers", []any{int64(1), int64(2), 3.5}, "number"},
		{"mixed", []any{"a", int64(1)}, "string"},
		{"empty", nil, "string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := source.NewMemory().
				AddEnum(enum("Status", tt.values...)).
				AddClass(class("Holder", prop("status", "Status")))
			e := newTestEngine(t, mem)

			status := mustTransform(t, e, "Holder").Schema.Properties["status"]
			assert.Equal(t, tt.wantType, status.Type)
			if len(tt.values) > 0 {
				assert.Equal(t, tt.values, status.Enum)
			} else {
				assert.Nil(t, status.Enum)
			}

			direct := mustTransform(t, e, "Status")
			assert.Equal(t, status, direct.Schema)
		})
	}
}

func TestEngine_Opaque(t *testing.T) {
	mem := source.NewMemory().
		AddOpaque("Money", prop("amount", "number"), prop("currency", "string")).
		AddOpaque("Chain", prop("value", "string"), optional(prop("next", "Chain"))).
		AddClass(class("Invoice",
			prop("total", "Money"),
			prop("meta", "External"),
			prop("links", "Chain"),
		))
	e := newTestEngine(t, mem)

	props := mustTransform(t, e, "Invoice").Schema.Properties

	assert.Equal(t, []string{"amount", "currency"}, props["total"].PropertyNames())
	assert.True(t, props["meta"].IsOpen())
	assert.Equal(t, ref("Chain"), props["links"].Properties["next"].Ref)
}

func TestEngine_Inheritance(t *testing.T) {
	t.Run("base first with override in place", func(t *testing.T) {
		mem := source.NewMemory().
			AddClass(class("Base", prop("id", "string"), prop("name", "string"))).
			AddClass(extends(class("Sub", prop("id", "number"), prop("extra", "boolean")), "Base"))
		e := newTestEngine(t, mem)

		r := mustTransform(t, e, "Sub")
		assert.Equal(t, []string{"id", "name", "extra"}, r.Schema.Required)
		assert.Equal(t, "number", r.Schema.Properties["id"].Type)
		assert.Empty(t, r.Warnings)
	})

	t.Run("missing base", func(t *testing.T) {
		mem := source.NewMemory().
			AddClass(extends(class("Sub", prop("id", "number")), "Gone"))
		e := newTestEngine(t, mem)

		r := mustTransform(t, e, "Sub")
		assert.Equal(t, []string{"id"}, r.Schema.PropertyNames())
		assert.Equal(t, []WarningCode{WarnBaseNotFound}, warningCodes(r))
		assert.True(t, errors.Is(r.Warnings[0].Err, tserrors.ErrNotFound))
	})

	t.Run("opaque base", func(t *testing.T) {
		mem := source.NewMemory().
			AddOpaque("Entity", prop("createdAt", "Date")).
			AddClass(extends(class("Sub", prop("id", "number")), "Entity"))
		e := newTestEngine(t, mem)

		r := mustTransform(t, e, "Sub")
		assert.Equal(t, []string{"createdAt", "id"}, r.Schema.Required)
		assert.Empty(t, r.Warnings)
	})

	t.Run("inheritance loop terminates", func(t *testing.T) {
		mem := source.NewMemory().
			AddClass(extends(class("A", prop("a", "string")), "B")).
			AddClass(extends(class("B", prop("b", "string")), "A"))
		e := newTestEngine(t, mem)

		r := mustTransform(t, e, "A")
		assert.Equal(t, []string{"a", "b"}, r.Schema.PropertyNames())
	})
}

func TestEngine_Generics(t *testing.T) {
	mem := source.NewMemory().
		AddClass(class("Org", prop("id", "number"))).
		AddClass(generic(class("Page", prop("items", "T[]"), prop("total", "number")), "T")).
		AddClass(extends(class("OrgPage"), "Page<Org>")).
		AddClass(generic(class("Box", prop("value", "U")), "U")).
		AddClass(generic(extends(class("ListBox"), "Box<T[]>"), "T")).
		AddClass(extends(class("Names"), "ListBox<string>")).
		AddClass(generic(class("Tree", prop("value", "T"), prop("children", "Tree<T>[]")), "T")).
		AddClass(class("Holder", prop("b", "Box<Box<string>>"))).
		AddClass(generic(class("Nest", prop("value", "T"), optional(prop("next", "Nest<T[]>"))), "T")).
		AddClass(generic(class("Swap", prop("a", "T"), optional(prop("flip", "Swap<U, T>"))), "T", "U"))
	e := newTestEngine(t, mem)

	t.Run("extends generic base", func(t *testing.T) {
		r := mustTransform(t, e, "OrgPage")
		items := r.Schema.Properties["items"]
		require.Equal(t, schema.KindArray, items.Kind())
		assert.Equal(t, []string{"id"}, items.Items.PropertyNames())
	})

	t.Run("multi-level chain composes", func(t *testing.T) {
		r := mustTransform(t, e, "Names")
		assert.Equal(t, schema.NewArray(&schema.Schema{Type: "string"}), r.Schema.Properties["value"])
	})

	t.Run("unbound parameter is open", func(t *testing.T) {
		r := mustTransform(t, e, "Page")
		assert.True(t, r.Schema.Properties["items"].Items.IsOpen())
	})

	t.Run("instantiated expression", func(t *testing.T) {
		r := mustTransformType(t, e, "Page<Org>")
		assert.Equal(t, []string{"id"}, r.Schema.Properties["items"].Items.PropertyNames())
	})

	t.Run("generic self reference", func(t *testing.T) {
		r := mustTransformType(t, e, "Tree<string>")
		assert.Equal(t, "string", r.Schema.Properties["value"].Type)
		assert.Equal(t, ref("Tree_string"), r.Schema.Properties["children"].Items.Ref)
		assert.Contains(t, e.Components(), "Tree_string")
	})

	t.Run("generic nested in itself expands", func(t *testing.T) {
		r := mustTransform(t, e, "Holder")
		outer := r.Schema.Properties["b"]
		require.Equal(t, schema.KindObject, outer.Kind())
		inner := outer.Properties["value"]
		require.Equal(t, schema.KindObject, inner.Kind(), "inner Box must expand, not reference the outer one")
		assert.Equal(t, "string", inner.Properties["value"].Type)
		assert.Empty(t, r.Warnings)
		assert.NotContains(t, e.Components(), "Box_Box_string")
	})

	t.Run("growing arguments close on the ancestor", func(t *testing.T) {
		r := mustTransformType(t, e, "Nest<string>")
		assert.Equal(t, "string", r.Schema.Properties["value"].Type)
		assert.Equal(t, ref("Nest_string"), r.Schema.Properties["next"].Ref)
	})

	t.Run("permuted arguments expand until they repeat", func(t *testing.T) {
		r := mustTransformType(t, e, "Swap<string, number>")
		assert.Equal(t, "string", r.Schema.Properties["a"].Type)
		flip := r.Schema.Properties["flip"]
		require.Equal(t, schema.KindObject, flip.Kind())
		assert.Equal(t, "number", flip.Properties["a"].Type)
		assert.Equal(t, ref("Swap_string_number"), flip.Properties["flip"].Ref)
	})
}

func TestEngine_UnboundParameterIntrospected(t *testing.T) {
	mem := source.NewMemory().
		AddClass(generic(class("Slot", prop("value", "V")), "V")).
		AddOpaque("V", prop("raw", "string"))
	e := newTestEngine(t, mem)

	r := mustTransform(t, e, "Slot")

	value := r.Schema.Properties["value"]
	require.Equal(t, schema.KindObject, value.Kind())
	assert.Equal(t, []string{"raw"}, value.PropertyNames())
}

func TestEngine_TransformTypeUnresolvable(t *testing.T) {
	e := newTestEngine(t, source.NewMemory())

	r := mustTransformType(t, e, "Nowhere")

	assert.True(t, r.Schema.IsOpen())
	assert.Equal(t, []WarningCode{WarnUnresolvable}, warningCodes(r))
	assert.True(t, errors.Is(r.Warnings[0].Err, tserrors.ErrUnresolvable))
}

func TestEngine_TransformAll(t *testing.T) {
	mem := source.NewMemory().AddClass(class("Org", prop("id", "number")))
	e := newTestEngine(t, mem)

	results, err := e.TransformAll([]string{"Org", "Missing", "Org"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.True(t, results[0].Found())
	assert.False(t, results[1].Found())
	assert.Equal(t, results[0].Schema, results[2].Schema)
}

func TestEngine_MaxDepth(t *testing.T) {
	mem := source.NewMemory().
		AddClass(class("A", prop("b", "B"))).
		AddClass(class("B", prop("c", "C"))).
		AddClass(class("C", prop("d", "string")))
	e := newTestEngine(t, mem, WithMaxDepth(2))

	r := mustTransform(t, e, "A")

	assert.True(t, r.Schema.Properties["b"].Properties["c"].IsOpen())
	assert.Equal(t, []WarningCode{WarnDepthExceeded}, warningCodes(r))
	assert.Zero(t, e.CacheLen(), "truncated schemas must not be cached")
}

func TestEngine_DeepChainUnbounded(t *testing.T) {
	const n = 80
	mem := source.NewMemory()
	for i := 0; i < n; i++ {
		mem.AddClass(class(fmt.Sprintf("C%d", i), prop("next", fmt.Sprintf("C%d", i+1))))
	}
	mem.AddClass(class(fmt.Sprintf("C%d", n), prop("leaf", "string")))
	e := newTestEngine(t, mem)

	r := mustTransform(t, e, "C0")

	node := r.Schema
	for i := 0; i < n; i++ {
		node = node.Properties["next"]
		require.NotNil(t, node, "level %d", i)
	}
	assert.Equal(t, schema.TypeString, node.Properties["leaf"].Type)
	assert.Empty(t, r.Warnings)
}

func TestEngine_RefPrefix(t *testing.T) {
	mem := source.NewMemory().AddClass(class("Org", optional(prop("parent", "Org"))))
	e := newTestEngine(t, mem, WithRefPrefix("#/$defs/"))

	r := mustTransform(t, e, "Org")

	assert.Equal(t, "#/$defs/Org", r.Schema.Properties["parent"].Ref)
	assert.Equal(t, "#/$defs/", e.RefPrefix())
}

func TestEngine_RefNamingCollision(t *testing.T) {
	mem := source.NewMemory().
		AddClass(classAt("a.ts", "Node", optional(prop("next", "Node")))).
		AddClass(classAt("b.ts", "Node", prop("id", "string")))
	e := newTestEngine(t, mem)

	r, err := e.TransformIdentifier(ClassIdentifier{Name: "Node", Hint: "a.ts"})
	require.NoError(t, err)

	assert.Equal(t, ref("a_ts_Node"), r.Schema.Properties["next"].Ref)
}

func TestNew_ConfigErrors(t *testing.T) {
	mem := source.NewMemory()
	tests := []struct {
		name     string
		provider source.Provider
		opts     []Option
		option   string
	}{
		{"nil provider", nil, nil, "provider"},
		{"negative cache limit", mem, []Option{WithCacheLimit(-1)}, "WithCacheLimit"},
		{"negative max depth", mem, []Option{WithMaxDepth(-1)}, "WithMaxDepth"},
		{"empty ref prefix", mem, []Option{WithRefPrefix("")}, "WithRefPrefix"},
		{"bad template", mem, []Option{WithRefNameTemplate("{{.Type")}, "WithRefNameTemplate"},
		{"unknown template field", mem, []Option{WithRefNameTemplate("{{.Nope}}")}, "WithRefNameTemplate"},
		{"unknown strategy", mem, []Option{WithRefNaming(RefNamingStrategy(99))}, "WithRefNaming"},
		{"unknown generic strategy", mem, []Option{WithGenericNaming(GenericNamingStrategy(-1))}, "WithGenericNaming"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(tt.provider, tt.opts...)
			require.Error(t, err)
			assert.Nil(t, e)
			assert.True(t, errors.Is(err, tserrors.ErrConfig))
			var cfgErr *tserrors.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.option, cfgErr.Option)
		})
	}
}

func TestEngine_Dispose(t *testing.T) {
	p := &closingProvider{Memory: source.NewMemory().AddClass(class("Org", prop("id", "number")))}
	e, err := New(p)
	require.NoError(t, err)
	mustTransform(t, e, "Org")

	require.NoError(t, e.Dispose())
	assert.True(t, p.closed)
	assert.Zero(t, e.CacheLen())

	_, err = e.Transform("Org")
	assert.ErrorIs(t, err, tserrors.ErrDisposed)
	_, err = e.TransformType(source.Named("Org"))
	assert.ErrorIs(t, err, tserrors.ErrDisposed)

	assert.NoError(t, e.Dispose(), "dispose is idempotent")
}

func TestEngine_LogsWarnings(t *testing.T) {
	var buf strings.Builder
	logger := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	e := newTestEngine(t, source.NewMemory(), WithLogger(logger))

	mustTransform(t, e, "Missing")

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "code=not-found")
	assert.Contains(t, buf.String(), "name=Missing")
}
