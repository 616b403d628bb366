// Package tserrors provides structured error types for the typeschema library.
//
// Import path: github.com/erraggy/typeschema/tserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between the categories of failure the schema
// engine can report.
//
// # Error Types
//
//   - [ConfigError]: a source model provider or engine could not be configured
//   - [NotFoundError]: a requested declaration does not exist
//   - [AmbiguityError]: several same-named declarations matched with no clear winner
//   - [UnresolvableError]: a type could not be classified or introspected
//
// # Sentinel Errors
//
//   - [ErrConfig]: Matches any [ConfigError]
//   - [ErrNotFound]: Matches any [NotFoundError]
//   - [ErrAmbiguous]: Matches any [AmbiguityError]
//   - [ErrUnresolvable]: Matches any [UnresolvableError]
//   - [ErrDisposed]: returned by an engine used after Dispose
//
// Only [ConfigError] and [ErrDisposed] are ever returned from engine calls.
// The other types describe recoverable conditions; the engine degrades to a
// conservative schema and attaches them to warnings instead.
//
// # Usage Examples
//
//	engine, err := synth.New(provider)
//	if errors.Is(err, tserrors.ErrConfig) {
//	    // the provider could not be initialized
//	}
//
//	for _, w := range result.Warnings {
//	    var nf *tserrors.NotFoundError
//	    if errors.As(w.Err, &nf) {
//	        fmt.Printf("missing class %s\n", nf.Name)
//	    }
//	}
package tserrors
