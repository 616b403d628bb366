package source

import "github.com/invopop/jsonschema"

// ManifestSchema returns the JSON Schema of the manifest format, for editor
// validation of manifest files.
func ManifestSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}
	return r.Reflect(&Manifest{})
}
