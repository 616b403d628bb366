// Package source defines the Source Model Provider contract consumed by the
// typeschema engine, together with the declaration model it exchanges.
//
// The engine never reads source text itself. Everything it knows about a
// class (its members, its base class, its generic parameters, its
// annotations) arrives through a [Provider]. This package also ships
// [Memory], an in-memory provider that can be populated programmatically or
// from a YAML/JSON manifest via [LoadManifest]:
//
//	declarations:
//	  - kind: class
//	    name: Org
//	    location: src/org.ts
//	    properties:
//	      - name: id
//	        type: number
//	      - name: parent
//	        type: Org
//	        optional: true
//
// Raw type expressions use a compact textual form understood by
// [ParseTypeExpr]: "string", "User[]", "Page<User>", "Pick<User, 'id' | 'name'>".
package source
