package schema

import (
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// Draft202012 is the $schema URI written by ToJSONSchema.
const Draft202012 = "https://json-schema.org/draft/2020-12/schema"

// defsPrefix is the JSON Schema 2020-12 location for named definitions.
const defsPrefix = "#/$defs/"

// ToJSONSchema converts root and its named components into a standalone
// JSON Schema 2020-12 document. References starting with refPrefix are
// rewritten to point into the document's $defs.
//
// Example:
//
//	doc := schema.ToJSONSchema(result.Schema, engine.Components(), "#/components/schemas/")
//	data, _ := json.MarshalIndent(doc, "", "  ")
func ToJSONSchema(root *Schema, components map[string]*Schema, refPrefix string) *jsonschema.Schema {
	out := convertJSONSchema(root, refPrefix)
	if out == nil {
		out = &jsonschema.Schema{}
	}
	out.Schema = Draft202012
	if len(components) > 0 {
		out.Defs = make(map[string]*jsonschema.Schema, len(components))
		for name, def := range components {
			out.Defs[name] = convertJSONSchema(def, refPrefix)
		}
	}
	return out
}

func convertJSONSchema(s *Schema, refPrefix string) *jsonschema.Schema {
	if s == nil {
		return nil
	}
	out := &jsonschema.Schema{
		Type:        s.Type,
		Format:      s.Format,
		Description: s.Description,
		Enum:        append([]any(nil), s.Enum...),
		Minimum:     clonePtr(s.Minimum),
		Maximum:     clonePtr(s.Maximum),
		MinLength:   clonePtr(s.MinLength),
		MaxLength:   clonePtr(s.MaxLength),
		MinItems:    clonePtr(s.MinItems),
		MaxItems:    clonePtr(s.MaxItems),
		Required:    append([]string(nil), s.Required...),
	}
	if s.Ref != "" {
		out.Ref = s.Ref
		if refPrefix != "" && strings.HasPrefix(s.Ref, refPrefix) {
			out.Ref = defsPrefix + strings.TrimPrefix(s.Ref, refPrefix)
		}
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*jsonschema.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = convertJSONSchema(prop, refPrefix)
		}
	}
	out.Items = convertJSONSchema(s.Items, refPrefix)
	out.AdditionalProperties = convertJSONSchema(s.AdditionalProperties, refPrefix)
	return out
}
