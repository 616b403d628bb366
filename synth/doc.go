// Package synth converts class declarations into schema trees.
//
// An Engine reads declarations from a source.Provider and renders each as a
// schema.Schema: properties become object members, arrays wrap their element
// schema, enums carry their values, and validation annotations such as
// IsNotEmpty or MaxLength overlay constraints and requiredness.
//
// # Cycles
//
// A class that is reached again while it is still being synthesized is
// emitted as a $ref to its component name instead of being expanded.
// Direct self-reference, mutual recursion, and longer loops all terminate:
//
//	class Org {
//	    id: number;
//	    parent?: Org;
//	}
//
// renders as
//
//	{
//	  "type": "object",
//	  "required": ["id"],
//	  "properties": {
//	    "id": {"type": "number"},
//	    "parent": {"$ref": "#/components/schemas/Org"}
//	  }
//	}
//
// A class reached twice along different branches without a loop (a diamond)
// is expanded inline both times. Completed schemas are cached per declaration
// and type arguments; only schemas whose back-references all point into
// themselves are cached, so the output never depends on call history.
// Components returns the schemas that $ref values point at.
//
// # Generics and utility types
//
// Generic classes are instantiated with their arguments, including through
// inheritance chains (class OrgPage extends Page<Org>). Partial, Required,
// Pick, Omit, and Record are evaluated on the synthesized target.
//
// # Identity
//
// When several declarations share a name, TransformIdentifier chooses by
// declaring location, then by scoring each candidate against sample property
// values. Ties go to the first declaration discovered, with a warning.
//
// # Errors and warnings
//
// Missing declarations, unresolvable types, and ambiguous matches never fail
// a transform. They are reported as Warning values on the Result, each
// carrying a tserrors value in Err. Only configuration errors from New and
// tserrors.ErrDisposed are returned as errors.
//
// Engines are not safe for concurrent use.
package synth
