package synth

import (
	"text/template"

	"github.com/erraggy/typeschema/tserrors"
)

const (
	// DefaultRefPrefix is prepended to component names in emitted $ref values.
	DefaultRefPrefix = "#/components/schemas/"

	// DefaultMaxDepth leaves class nesting unbounded. Cycles terminate
	// through $ref emission without it.
	DefaultMaxDepth = 0
)

// Option configures an Engine. Options are applied by New.
type Option func(*config)

type config struct {
	logger         Logger
	cacheLimit     int
	refPrefix      string
	namingStrategy RefNamingStrategy
	namingTemplate *template.Template
	namingFunc     RefNameFunc
	genericNaming  GenericNamingStrategy
	maxDepth       int
	err            error // first invalid option, reported by New
}

func defaultConfig() *config {
	return &config{
		logger:         NopLogger{},
		refPrefix:      DefaultRefPrefix,
		namingStrategy: RefNamingTypeOnly,
		genericNaming:  GenericNamingUnderscore,
		maxDepth:       DefaultMaxDepth,
	}
}

func (c *config) fail(option string, value any, msg string, cause error) {
	if c.err != nil {
		return
	}
	c.err = &tserrors.ConfigError{Option: option, Value: value, Message: msg, Cause: cause}
}

// WithLogger sets the logger. A nil logger restores the default NopLogger.
func WithLogger(l Logger) Option {
	return func(c *config) {
		if l == nil {
			l = NopLogger{}
		}
		c.logger = l
	}
}

// WithCacheLimit caps the number of completed schemas kept by the cache.
// Once the cap is exceeded the oldest half is evicted. Zero means unbounded.
func WithCacheLimit(n int) Option {
	return func(c *config) {
		if n < 0 {
			c.fail("WithCacheLimit", n, "must be >= 0", nil)
			return
		}
		c.cacheLimit = n
	}
}

// WithRefPrefix sets the prefix for emitted $ref values.
// The default is DefaultRefPrefix.
func WithRefPrefix(prefix string) Option {
	return func(c *config) {
		if prefix == "" {
			c.fail("WithRefPrefix", prefix, "must not be empty", nil)
			return
		}
		c.refPrefix = prefix
	}
}

// WithRefNaming sets a built-in component naming strategy.
// Setting a strategy clears any template or custom function.
func WithRefNaming(strategy RefNamingStrategy) Option {
	return func(c *config) {
		if strategy < RefNamingTypeOnly || strategy > RefNamingFullPath {
			c.fail("WithRefNaming", strategy, "unknown naming strategy", nil)
			return
		}
		c.namingStrategy = strategy
		c.namingTemplate = nil
		c.namingFunc = nil
	}
}

// WithRefNameTemplate sets a text/template for component names. The template
// receives a RefNameContext and may use the functions pascal, camel, snake,
// kebab, upper, lower, title, sanitize, trimPrefix, trimSuffix, replace, and
// join.
//
// Example:
//
//	WithRefNameTemplate(`{{pascal .Module}}{{.TypeSanitized}}`)
//
// Parse errors are returned by New. If execution fails for a particular
// declaration the built-in strategy is used instead.
func WithRefNameTemplate(tmpl string) Option {
	return func(c *config) {
		t, err := parseRefNameTemplate(tmpl)
		if err != nil {
			c.fail("WithRefNameTemplate", tmpl, "invalid template", err)
			return
		}
		c.namingTemplate = t
		c.namingFunc = nil
	}
}

// WithRefNameFunc sets a function computing component names. It takes
// priority over templates and strategies.
func WithRefNameFunc(fn RefNameFunc) Option {
	return func(c *config) {
		c.namingFunc = fn
		c.namingTemplate = nil
	}
}

// WithGenericNaming sets how type arguments appear in component names.
func WithGenericNaming(strategy GenericNamingStrategy) Option {
	return func(c *config) {
		if strategy < GenericNamingUnderscore || strategy > GenericNamingFlattened {
			c.fail("WithGenericNaming", strategy, "unknown generic naming strategy", nil)
			return
		}
		c.genericNaming = strategy
	}
}

// WithMaxDepth bounds class nesting. Exceeding it renders an open object and
// records a depth-exceeded warning. Zero disables the limit.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n < 0 {
			c.fail("WithMaxDepth", n, "must be >= 0", nil)
			return
		}
		c.maxDepth = n
	}
}
