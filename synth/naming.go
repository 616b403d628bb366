package synth

import (
	"fmt"
	"path"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erraggy/typeschema/source"
)

// RefNamingStrategy selects how component names are derived from
// declarations when a $ref is emitted.
type RefNamingStrategy int

const (
	// RefNamingTypeOnly uses the declaration name alone (default).
	// Example: src/models/org.ts#Org -> Org
	RefNamingTypeOnly RefNamingStrategy = iota

	// RefNamingQualified uses "module.Type", where module is the base name
	// of the declaring location without its extension.
	// Example: src/models/org.ts#Org -> org.Org
	RefNamingQualified

	// RefNamingPascalCase uses "ModuleType".
	// Example: src/models/org.ts#Org -> OrgOrg
	RefNamingPascalCase

	// RefNamingCamelCase uses "moduleType".
	RefNamingCamelCase

	// RefNamingSnakeCase uses "module_type".
	RefNamingSnakeCase

	// RefNamingKebabCase uses "module-type".
	RefNamingKebabCase

	// RefNamingFullPath prefixes the sanitized location.
	// Example: src/models/org.ts#Org -> src_models_org_ts_Org
	RefNamingFullPath
)

// GenericNamingStrategy selects how type arguments appear in the component
// name of an instantiated generic class.
type GenericNamingStrategy int

const (
	// GenericNamingUnderscore joins with underscores (default).
	// Example: Page<User> -> Page_User
	GenericNamingUnderscore GenericNamingStrategy = iota

	// GenericNamingOf uses an "Of" separator.
	// Example: Page<User> -> PageOfUser
	GenericNamingOf

	// GenericNamingFor uses a "For" separator.
	// Example: Page<User> -> PageForUser
	GenericNamingFor

	// GenericNamingFlattened concatenates the arguments.
	// Example: Page<User> -> PageUser
	GenericNamingFlattened
)

var refNamingNames = map[string]RefNamingStrategy{
	"type":      RefNamingTypeOnly,
	"qualified": RefNamingQualified,
	"pascal":    RefNamingPascalCase,
	"camel":     RefNamingCamelCase,
	"snake":     RefNamingSnakeCase,
	"kebab":     RefNamingKebabCase,
	"full-path": RefNamingFullPath,
}

var genericNamingNames = map[string]GenericNamingStrategy{
	"underscore": GenericNamingUnderscore,
	"of":         GenericNamingOf,
	"for":        GenericNamingFor,
	"flattened":  GenericNamingFlattened,
}

// ParseRefNamingStrategy parses a strategy name such as "qualified" or
// "full-path". Matching is case-insensitive.
func ParseRefNamingStrategy(name string) (RefNamingStrategy, error) {
	if s, ok := refNamingNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("synth: unknown ref naming strategy %q", name)
}

// ParseGenericNamingStrategy parses "underscore", "of", "for", or
// "flattened". Matching is case-insensitive.
func ParseGenericNamingStrategy(name string) (GenericNamingStrategy, error) {
	if s, ok := genericNamingNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("synth: unknown generic naming strategy %q", name)
}

// RefNameContext is passed to naming templates and functions.
type RefNameContext struct {
	// Type is the declaration name (e.g. "Page").
	Type string

	// TypeSanitized is Type plus the generic suffix, safe for use in a URI.
	TypeSanitized string

	// Module is the base name of the declaring location without extension.
	Module string

	// Location is the declaring source location.
	Location string

	// LocationSanitized is Location with separators replaced by underscores.
	LocationSanitized string

	// IsGeneric reports whether type arguments were supplied.
	IsGeneric bool

	// GenericParams are the display names of the type arguments.
	GenericParams []string

	// GenericSuffix is the formatted generic portion of TypeSanitized.
	GenericSuffix string

	// Colliding reports whether other declarations share this name.
	Colliding bool
}

// RefNameFunc computes a component name from a RefNameContext.
type RefNameFunc func(ctx RefNameContext) string

type refNamer struct {
	strategy RefNamingStrategy
	generic  GenericNamingStrategy
	template *template.Template
	fn       RefNameFunc
}

// name returns the component name for the declaration instantiated with
// args. Priority: custom function, then template, then strategy. Names that
// collide with another declaration are qualified with the sanitized location.
func (n *refNamer) name(id source.DeclID, args []TypeDescriptor, colliding bool) string {
	ctx := n.buildContext(id, args, colliding)
	if n.fn != nil {
		return n.fn(ctx)
	}
	if n.template != nil {
		var buf strings.Builder
		if err := n.template.Execute(&buf, ctx); err == nil {
			return sanitizeRefName(buf.String())
		}
	}
	name := n.applyStrategy(ctx)
	if colliding && n.strategy != RefNamingFullPath && ctx.LocationSanitized != "" {
		name = ctx.LocationSanitized + "_" + ctx.TypeSanitized
	}
	return name
}

func (n *refNamer) buildContext(id source.DeclID, args []TypeDescriptor, colliding bool) RefNameContext {
	ctx := RefNameContext{
		Type:              id.Name,
		Location:          id.Location,
		LocationSanitized: sanitizePath(id.Location),
		Module:            moduleName(id.Location),
		Colliding:         colliding,
		TypeSanitized:     id.Name,
	}
	if len(args) == 0 {
		return ctx
	}
	ctx.IsGeneric = true
	ctx.GenericParams = make([]string, len(args))
	for i, a := range args {
		ctx.GenericParams[i] = sanitizeRefName(a.displayName())
	}
	ctx.GenericSuffix = n.formatGenericSuffix(ctx.GenericParams)
	ctx.TypeSanitized = sanitizeRefName(id.Name + ctx.GenericSuffix)
	return ctx
}

func (n *refNamer) formatGenericSuffix(params []string) string {
	switch n.generic {
	case GenericNamingOf:
		return "Of" + strings.Join(params, "Of")
	case GenericNamingFor:
		return "For" + strings.Join(params, "For")
	case GenericNamingFlattened:
		return strings.Join(params, "")
	default:
		return "_" + strings.Join(params, "_") + "_"
	}
}

func (n *refNamer) applyStrategy(ctx RefNameContext) string {
	switch n.strategy {
	case RefNamingQualified:
		if ctx.Module == "" {
			return ctx.TypeSanitized
		}
		return ctx.Module + "." + ctx.TypeSanitized
	case RefNamingPascalCase:
		return toPascalCase(ctx.Module) + toPascalCase(ctx.TypeSanitized)
	case RefNamingCamelCase:
		return toCamelCase(ctx.Module) + toPascalCase(ctx.TypeSanitized)
	case RefNamingSnakeCase:
		return joinNonEmpty("_", toSnakeCase(ctx.Module), toSnakeCase(ctx.TypeSanitized))
	case RefNamingKebabCase:
		return joinNonEmpty("-", toKebabCase(ctx.Module), toKebabCase(ctx.TypeSanitized))
	case RefNamingFullPath:
		return joinNonEmpty("_", ctx.LocationSanitized, ctx.TypeSanitized)
	default:
		return ctx.TypeSanitized
	}
}

func joinNonEmpty(sep, base, name string) string {
	if base == "" {
		return name
	}
	return base + sep + name
}

// moduleName returns the base of location without its extension.
// Example: "src/models/org.ts" -> "org"
func moduleName(location string) string {
	if location == "" {
		return ""
	}
	base := path.Base(strings.ReplaceAll(location, "\\", "/"))
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// sanitizePath replaces path separators and dots with underscores.
// Example: "src/models/org.ts" -> "src_models_org_ts"
func sanitizePath(s string) string {
	return strings.NewReplacer("/", "_", "\\", "_", ".", "_", ":", "_").Replace(s)
}

// sanitizeRefName replaces characters that are problematic in a JSON pointer.
// Example: "Page[User]" -> "Page_User"
func sanitizeRefName(name string) string {
	name = strings.NewReplacer("[", "_", "]", "_", "<", "_", ">", "_", ",", "_", " ", "_", "'", "", "|", "_").Replace(name)
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	return strings.TrimSuffix(name, "_")
}

// toPascalCase converts a string to PascalCase.
// Example: "user_profile" -> "UserProfile"
func toPascalCase(s string) string {
	var result strings.Builder
	capitalizeNext := true
	for _, r := range s {
		if r == '_' || r == '-' || r == '.' || r == '/' {
			capitalizeNext = true
			continue
		}
		if capitalizeNext {
			result.WriteRune(unicode.ToUpper(r))
			capitalizeNext = false
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// toCamelCase converts a string to camelCase.
func toCamelCase(s string) string {
	pascal := toPascalCase(s)
	if pascal == "" {
		return ""
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// toSnakeCase converts a string to snake_case.
// Example: "UserProfile" -> "user_profile"
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		case r == '-' || r == '.' || r == '/':
			result.WriteRune('_')
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}

// toKebabCase converts a string to kebab-case.
func toKebabCase(s string) string {
	return strings.ReplaceAll(toSnakeCase(s), "_", "-")
}

// templateFuncs returns the functions available to WithRefNameTemplate.
func templateFuncs() template.FuncMap {
	titleCaser := cases.Title(language.English)

	return template.FuncMap{
		"pascal":     toPascalCase,
		"camel":      toCamelCase,
		"snake":      toSnakeCase,
		"kebab":      toKebabCase,
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
		"title":      titleCaser.String,
		"sanitize":   sanitizeRefName,
		"trimPrefix": strings.TrimPrefix,
		"trimSuffix": strings.TrimSuffix,
		"replace":    strings.ReplaceAll,
		"join": func(sep string, parts ...string) string {
			return strings.Join(parts, sep)
		},
	}
}

// parseRefNameTemplate parses tmpl and validates it against a sample context.
func parseRefNameTemplate(tmpl string) (*template.Template, error) {
	t, err := template.New("refName").Funcs(templateFuncs()).Parse(tmpl)
	if err != nil {
		return nil, err
	}
	sample := RefNameContext{
		Type:              "Page",
		TypeSanitized:     "Page_User",
		Module:            "page",
		Location:          "src/page.ts",
		LocationSanitized: "src_page_ts",
		IsGeneric:         true,
		GenericParams:     []string{"User"},
		GenericSuffix:     "_User_",
	}
	var buf strings.Builder
	if err := t.Execute(&buf, sample); err != nil {
		return nil, err
	}
	return t, nil
}
