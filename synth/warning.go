package synth

import "fmt"

// WarningCode classifies a non-fatal synthesis condition.
type WarningCode string

const (
	// WarnNotFound means the requested declaration does not exist.
	WarnNotFound WarningCode = "not-found"
	// WarnAmbiguous means several declarations matched equally well.
	WarnAmbiguous WarningCode = "ambiguous"
	// WarnUnresolvable means a type could not be resolved and an open
	// object was emitted in its place.
	WarnUnresolvable WarningCode = "unresolvable"
	// WarnBaseNotFound means a declared base class is missing.
	WarnBaseNotFound WarningCode = "base-not-found"
	// WarnUtilityOnRef means a utility operator was applied to a $ref node
	// and left it unchanged.
	WarnUtilityOnRef WarningCode = "utility-on-ref"
	// WarnDepthExceeded means the nesting safety limit was reached.
	WarnDepthExceeded WarningCode = "depth-exceeded"
)

// Warning is a non-fatal condition encountered while synthesizing.
type Warning struct {
	Code WarningCode `json:"code" yaml:"code"`
	// Name is the declaration or property path the warning concerns.
	Name    string `json:"name" yaml:"name"`
	Message string `json:"message" yaml:"message"`
	// Err is the structured tserrors value, when there is one.
	Err error `json:"-" yaml:"-"`
}

// String returns a one-line description.
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Code, w.Name, w.Message)
}
