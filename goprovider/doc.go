// Package goprovider implements source.Provider over Go packages.
//
// Packages are loaded with golang.org/x/tools/go/packages and walked with
// go/types. Exported named struct types become class declarations, and
// exported named types with typed constants become enums:
//
//	type Role string
//
//	const (
//		RoleAdmin  Role = "admin"
//		RoleMember Role = "member"
//	)
//
//	type User struct {
//		Entity                                        // first embedded struct: base class
//		Name  string `json:"name" validate:"required,min=1"`
//		Role  Role   `json:"role"`
//		Boss  *User  `json:"boss"`                  // pointers are optional
//		Score int    `json:"score" oas:"maximum=100"`
//	}
//
// Field names follow the json tag. Fields tagged json:"-" and unexported
// fields are skipped. The validate and oas tags are translated into the
// annotation vocabulary understood by the synth package.
//
// Basic types map to primitive names: int64 and uint64 become bigint,
// []byte becomes Buffer, time.Time becomes Date, and maps become Record.
// Struct types from packages that were not loaded are exposed through
// PropertiesOfOpaqueType.
package goprovider
