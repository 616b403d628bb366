package synth

import (
	"io"

	"github.com/erraggy/typeschema/schema"
	"github.com/erraggy/typeschema/source"
	"github.com/erraggy/typeschema/tserrors"
)

// Result is the outcome of one transform.
type Result struct {
	// Name is the resolved declaration name, or the requested name when
	// nothing was found.
	Name string `json:"name" yaml:"name"`
	// ID is the resolved declaration identity. Zero when not found.
	ID       source.DeclID  `json:"id" yaml:"id"`
	Schema   *schema.Schema `json:"schema" yaml:"schema"`
	Warnings []Warning      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Found reports whether a declaration was resolved.
func (r *Result) Found() bool { return r.ID.Name != "" }

// Engine transforms declarations from a source.Provider into schema trees.
//
// An Engine caches completed class schemas across calls. It is not safe for
// concurrent use.
type Engine struct {
	provider   source.Provider
	cfg        *config
	logger     Logger
	namer      *refNamer
	cache      *SchemaCache
	components map[string]*schema.Schema
	disposed   bool
}

// New creates an engine over provider. Invalid options and a nil provider
// are reported as *tserrors.ConfigError.
func New(provider source.Provider, opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}
	if provider == nil {
		return nil, &tserrors.ConfigError{Option: "provider", Message: "provider is required"}
	}
	return &Engine{
		provider: provider,
		cfg:      cfg,
		logger:   cfg.logger,
		namer: &refNamer{
			strategy: cfg.namingStrategy,
			generic:  cfg.genericNaming,
			template: cfg.namingTemplate,
			fn:       cfg.namingFunc,
		},
		cache:      NewSchemaCache(cfg.cacheLimit),
		components: make(map[string]*schema.Schema),
	}, nil
}

// Transform resolves name and returns its schema. A missing declaration
// yields an open object and a not-found warning, never an error.
func (e *Engine) Transform(name string) (*Result, error) {
	return e.TransformIdentifier(ClassIdentifier{Name: name})
}

// TransformIdentifier resolves id, using its hint and evidence to choose
// among same-named declarations, and returns its schema.
func (e *Engine) TransformIdentifier(id ClassIdentifier) (*Result, error) {
	if e.disposed {
		return nil, tserrors.ErrDisposed
	}
	ctx := newSynthContext()
	decl := e.resolve(id, ctx)
	if decl == nil {
		e.warn(ctx, Warning{
			Code:    WarnNotFound,
			Name:    id.Name,
			Message: "declaration not found, rendered as open object",
			Err:     &tserrors.NotFoundError{Name: id.Name, Hint: id.Hint},
		})
		return &Result{Name: id.Name, Schema: schema.NewOpenObject(), Warnings: ctx.warnings}, nil
	}

	var td TypeDescriptor
	switch d := decl.(type) {
	case *source.ClassDescriptor:
		td = TypeDescriptor{Kind: TypeClass, Class: d, Expr: source.Named(d.ID.Name)}
	case *source.EnumDescriptor:
		td = TypeDescriptor{Kind: TypeEnum, Enum: d, Expr: source.Named(d.ID.Name)}
	}
	e.logger.Debug("transforming", "declaration", decl.DeclID().String())
	node := e.synthesize(td, ctx)
	return &Result{
		Name:     decl.DeclID().Name,
		ID:       decl.DeclID(),
		Schema:   node,
		Warnings: ctx.warnings,
	}, nil
}

// TransformType synthesizes an arbitrary type expression such as
// "Page<User>" or "Partial<Org>[]".
func (e *Engine) TransformType(expr source.TypeExpr) (*Result, error) {
	if e.disposed {
		return nil, tserrors.ErrDisposed
	}
	ctx := newSynthContext()
	td := e.classify(expr, nil)
	if td.Kind == TypeOpaque && len(e.provider.PropertiesOfOpaqueType(expr)) == 0 && !opaqueNames[expr.Name] {
		e.warn(ctx, Warning{
			Code:    WarnUnresolvable,
			Name:    expr.String(),
			Message: "type could not be resolved, rendered as open object",
			Err:     &tserrors.UnresolvableError{Type: expr.String(), Message: "no declaration or structural information"},
		})
	}
	node := e.synthesize(td, ctx)
	return &Result{Name: expr.String(), Schema: node, Warnings: ctx.warnings}, nil
}

// TransformAll transforms each name in order. A missing class does not
// interrupt the batch.
func (e *Engine) TransformAll(names []string) ([]*Result, error) {
	results := make([]*Result, 0, len(names))
	for _, name := range names {
		r, err := e.Transform(name)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

// Components returns copies of the schemas referenced via $ref so far,
// keyed by component name.
func (e *Engine) Components() map[string]*schema.Schema {
	out := make(map[string]*schema.Schema, len(e.components))
	for name, s := range e.components {
		out[name] = s.Clone()
	}
	return out
}

// RefPrefix returns the configured $ref prefix.
func (e *Engine) RefPrefix() string { return e.cfg.refPrefix }

// CacheLen returns the number of cached class schemas.
func (e *Engine) CacheLen() int { return e.cache.Len() }

// ClearCache drops every cached schema and registered component. Subsequent
// transforms produce output identical to a fresh engine's.
func (e *Engine) ClearCache() {
	e.cache.Purge()
	clear(e.components)
	e.logger.Debug("cache cleared")
}

// Dispose releases the provider, closing it when it implements io.Closer.
// Later transforms return tserrors.ErrDisposed. Dispose is idempotent.
func (e *Engine) Dispose() error {
	if e.disposed {
		return nil
	}
	e.disposed = true
	e.ClearCache()
	var err error
	if closer, ok := e.provider.(io.Closer); ok {
		err = closer.Close()
	}
	e.provider = nil
	return err
}
