// Package typeschema turns source-level type declarations into OpenAPI
// component schemas.
//
// # Overview
//
// The library consists of four packages:
//
//   - source: the provider-neutral declaration model, an in-memory provider,
//     and a YAML/JSON manifest loader
//   - goprovider: a provider over Go packages (structs, typed constants,
//     json/validate/oas struct tags)
//   - synth: the engine that synthesizes schemas, with cycle-safe $ref
//     emission, generics, utility types, annotations, and caching
//   - schema: the emitted schema model and JSON Schema 2020-12 export
//
// # Quick Start
//
// Load declarations and transform one by name:
//
//	import (
//		"github.com/erraggy/typeschema/source"
//		"github.com/erraggy/typeschema/synth"
//	)
//
//	provider, err := source.LoadManifest("models.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	engine, err := synth.New(provider)
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := engine.Transform("Org")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, w := range result.Warnings {
//		fmt.Println(w)
//	}
//	components := engine.Components()
//
// Self-referencing types become $ref values. Every referenced schema is
// available from Engine.Components, keyed by component name.
//
// Go structs work the same way:
//
//	provider, err := goprovider.Load(goprovider.Config{Patterns: []string{"./models"}})
//
// # Command Line
//
// The typeschema command wraps the same engine:
//
//	typeschema transform -manifest models.yaml Org
//	typeschema transform -packages ./models -format yaml User
//	typeschema transform -manifest models.yaml -format jsonschema 'Page<User>'
//	typeschema mcp
//
// The mcp subcommand serves the transform over the Model Context Protocol
// on stdio.
//
// # Configuration
//
// Engine behavior is set with synth options such as synth.WithRefPrefix and
// synth.WithRefNaming. The command line and MCP server read defaults from
// TYPESCHEMA_* environment variables and an optional .env file.
package typeschema
